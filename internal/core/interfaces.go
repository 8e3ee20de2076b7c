package core

import (
	"errors"

	"github.com/replayroom/replayroom/internal/domain"
)

// ErrRoomClosed reports an add against a room that has been sealed
// for removal; the caller must resolve a fresh room and retry.
var ErrRoomClosed = errors.New("room closed")

// Frame is a raw outbound payload (an encoded protocol envelope).
type Frame []byte

type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds a user identity and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	User() *domain.User
	Signal() SignalConnection
}

// PublishResult reports delivery stats/backpressure to the orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []SessionID
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
	Role     domain.Role   `json:"role"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	ID() domain.VideoID
	MemberCount() int
	MembersSnapshot() []MemberDTO

	// AddMember reports false when sid was already a member, and
	// fails with ErrRoomClosed once the room has been sealed.
	AddMember(sid SessionID, ms MemberSession) (bool, error)
	// RemoveMember reports false when sid was not a member.
	RemoveMember(sid SessionID) bool
	HasMember(sid SessionID) bool
	// CloseIfEmpty seals the room while it has no members, so that no
	// one can land in it after the registry drops the entry. Reports
	// whether the room is now closed.
	CloseIfEmpty() bool

	// Broadcast fans data out to every member except from. An empty
	// from delivers to everyone.
	Broadcast(from SessionID, data Frame) PublishResult
}
