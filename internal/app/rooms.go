package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
)

type RoomInfo struct {
	VideoID     domain.VideoID `json:"videoId"`
	MemberCount int            `json:"memberCount"`
}

// RoomRegistry maps a video id to its live room. Rooms are created
// lazily on first join and dropped once the last member leaves.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.VideoID]core.RoomService
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.VideoID]core.RoomService)}
}

func (f *RoomRegistry) GetOrCreate(id domain.VideoID) core.RoomService {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if ok {
		return room
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok = f.rooms[id]; ok {
		return room
	}
	room = core.NewRoomService(id)
	f.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("video", string(id)).Msg("room created")
	return room
}

func (f *RoomRegistry) Get(id domain.VideoID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

// MembersOf returns an empty snapshot for an unknown room; callers
// cannot tell an empty room from one that never existed.
func (f *RoomRegistry) MembersOf(id domain.VideoID) []core.MemberDTO {
	f.mu.RLock()
	room, ok := f.rooms[id]
	f.mu.RUnlock()
	if !ok {
		return []core.MemberDTO{}
	}
	return room.MembersSnapshot()
}

func (f *RoomRegistry) List() []RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, RoomInfo{VideoID: id, MemberCount: r.MemberCount()})
	}
	return out
}

// DropIfEmpty seals and deletes the room entry once membership reaches
// zero. Sealing makes a concurrent join that already resolved this room
// fail its AddMember and retry against a fresh entry, instead of
// landing in a room the registry no longer knows. Rooms are not
// durable; a later join recreates the entry.
func (f *RoomRegistry) DropIfEmpty(id domain.VideoID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.rooms[id]; ok && room.CloseIfEmpty() {
		delete(f.rooms, id)
		log.Info().Str("module", "app.rooms").Str("video", string(id)).Msg("room dropped")
	}
}

func (f *RoomRegistry) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.rooms)
}
