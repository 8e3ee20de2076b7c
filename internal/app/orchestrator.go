package app

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
	"github.com/replayroom/replayroom/internal/protocol"
)

var ErrUnknownSession = errors.New("unknown session")

type JoinResult int

const (
	Joined JoinResult = iota
	AlreadyMember
)

type LeaveResult int

const (
	Left LeaveResult = iota
	NotMember
)

// Orchestrator coordinates the connection registry, room registry and
// typing tracker, and is the single broadcast entry point. The REST
// comment handler calls RelayComment after a successful insert, so
// realtime delivery is always a post-commit side effect.
//
// Mutations for one session are serialized by that session's reader
// goroutine; the registries only need to survive concurrent access
// across sessions.
type Orchestrator struct {
	Registry *Registry
	Rooms    *RoomRegistry
	Typing   *TypingTracker
	Policy   Policy
}

func NewOrchestrator(reg *Registry, rooms *RoomRegistry, policy Policy, typingTTL time.Duration) *Orchestrator {
	o := &Orchestrator{Registry: reg, Rooms: rooms, Policy: policy}
	o.Typing = NewTypingTracker(typingTTL, o.announceTypingExpired)
	return o
}

// Join adds sid to the room for videoID and announces the join to
// peers. A duplicate join is idempotent and reports the prior state.
func (o *Orchestrator) Join(sid core.SessionID, videoID domain.VideoID) (JoinResult, []core.MemberDTO, error) {
	user, sess, ok := o.Registry.Lookup(sid)
	if !ok {
		return 0, nil, ErrUnknownSession
	}
	var room core.RoomService
	for {
		room = o.Rooms.GetOrCreate(videoID)
		added, err := room.AddMember(sid, sess)
		if errors.Is(err, core.ErrRoomClosed) {
			// Lost the race with the last member leaving; the registry
			// already dropped this room. Resolve a fresh one.
			continue
		}
		if !added {
			log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("video", string(videoID)).Msg("duplicate join")
			return AlreadyMember, room.MembersSnapshot(), nil
		}
		break
	}
	o.Registry.AddRoom(sid, videoID)

	if frame, err := protocol.EncodeUserJoined(videoID, *user); err == nil {
		o.deliver(videoID, frame, sid)
	}
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("video", string(videoID)).Str("user", string(user.ID)).Msg("joined room")
	return Joined, room.MembersSnapshot(), nil
}

// Leave removes the mutual membership link and announces the departure
// to the remaining members. Leaving a room the session never joined is
// a no-op.
func (o *Orchestrator) Leave(sid core.SessionID, videoID domain.VideoID) (LeaveResult, error) {
	user, _, ok := o.Registry.Lookup(sid)
	if !ok {
		return 0, ErrUnknownSession
	}
	room, exists := o.Rooms.Get(videoID)
	if !exists || !room.RemoveMember(sid) {
		o.Registry.RemoveRoom(sid, videoID)
		return NotMember, nil
	}
	o.Registry.RemoveRoom(sid, videoID)
	o.announceDeparture(videoID, *user)
	o.Rooms.DropIfEmpty(videoID)
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Str("video", string(videoID)).Msg("left room")
	return Left, nil
}

// Disconnect tears the session out of every room it belonged to and
// announces its departure in each. Idempotent.
func (o *Orchestrator) Disconnect(sid core.SessionID) {
	user, rooms := o.Registry.Unregister(sid)
	if user == nil {
		return
	}
	for _, videoID := range rooms {
		room, ok := o.Rooms.Get(videoID)
		if !ok {
			continue
		}
		if room.RemoveMember(sid) {
			o.announceDeparture(videoID, *user)
			o.Rooms.DropIfEmpty(videoID)
		}
	}
	log.Info().Str("module", "app.orch").Str("sid", string(sid)).Int("rooms", len(rooms)).Msg("disconnected")
}

// SetTyping applies a typing signal. Signals for rooms the session is
// not a member of are dropped. Only Idle<->Typing transitions reach
// the peers; refreshes are absorbed by the tracker.
func (o *Orchestrator) SetTyping(sid core.SessionID, videoID domain.VideoID, isTyping bool) error {
	user, _, ok := o.Registry.Lookup(sid)
	if !ok {
		return ErrUnknownSession
	}
	if !o.Registry.InRoom(sid, videoID) {
		return nil
	}
	if isTyping {
		if !o.Typing.Set(videoID, *user) {
			return nil
		}
	} else if !o.Typing.Clear(videoID, user.ID) {
		return nil
	}
	frame, err := protocol.EncodeTyping(videoID, *user, isTyping)
	if err != nil {
		return err
	}
	o.deliver(videoID, frame, sid)
	return nil
}

// RelayComment fans an already-persisted comment out to the room,
// excluding the originating session if any. A room nobody is viewing
// delivers to nobody, which is fine.
func (o *Orchestrator) RelayComment(comment domain.Comment, exclude core.SessionID) error {
	frame, err := protocol.EncodeComment(comment)
	if err != nil {
		return err
	}
	o.deliver(comment.VideoID, frame, exclude)
	return nil
}

// Shutdown releases timers; live connections are closed by the server.
func (o *Orchestrator) Shutdown() {
	o.Typing.Shutdown()
}

func (o *Orchestrator) announceDeparture(videoID domain.VideoID, user domain.User) {
	if o.Typing.Clear(videoID, user.ID) {
		if frame, err := protocol.EncodeTyping(videoID, user, false); err == nil {
			o.deliver(videoID, frame, "")
		}
	}
	if frame, err := protocol.EncodeUserLeft(videoID, user); err == nil {
		o.deliver(videoID, frame, "")
	}
}

func (o *Orchestrator) announceTypingExpired(videoID domain.VideoID, user domain.User) {
	if frame, err := protocol.EncodeTyping(videoID, user, false); err == nil {
		o.deliver(videoID, frame, "")
	}
}

func (o *Orchestrator) deliver(videoID domain.VideoID, frame core.Frame, exclude core.SessionID) {
	room, ok := o.Rooms.Get(videoID)
	if !ok {
		return
	}
	res := room.Broadcast(exclude, frame)
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackpressure(videoID, slow) {
		case KickMember:
			o.Registry.Cancel(slow)
		case DropFrame, NoAction:
		}
	}
}
