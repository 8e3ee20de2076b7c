package app

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
)

type sessionEntry struct {
	User    *domain.User
	Session core.MemberSession
	Rooms   map[domain.VideoID]struct{}
	Cancel  context.CancelFunc
}

// Registry owns the set of live connections. Identifiers are assigned
// here and never reused; an entry exists from Register until Unregister.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SessionID]*sessionEntry)}
}

func (r *Registry) Register(user *domain.User, sess core.MemberSession, cancel context.CancelFunc) core.SessionID {
	sid := core.SessionID(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		User:    user,
		Session: sess,
		Rooms:   make(map[domain.VideoID]struct{}),
		Cancel:  cancel,
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(user.ID)).Msg("registered session")
	return sid
}

// Unregister removes the entry and reports the rooms it still belonged
// to so the caller can clean up membership. Unregistering twice is a
// no-op returning nil.
func (r *Registry) Unregister(sid core.SessionID) (*domain.User, []domain.VideoID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, nil
	}
	delete(r.sessions, sid)
	rooms := make([]domain.VideoID, 0, len(e.Rooms))
	for rid := range e.Rooms {
		rooms = append(rooms, rid)
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Int("rooms", len(rooms)).Msg("unregistered session")
	return e.User, rooms
}

func (r *Registry) Lookup(sid core.SessionID) (*domain.User, core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.User, e.Session, true
	}
	return nil, nil, false
}

func (r *Registry) AddRoom(sid core.SessionID, rid domain.VideoID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.Rooms[rid] = struct{}{}
	return true
}

func (r *Registry) RemoveRoom(sid core.SessionID, rid domain.VideoID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	if _, member := e.Rooms[rid]; !member {
		return false
	}
	delete(e.Rooms, rid)
	return true
}

func (r *Registry) RoomsOf(sid core.SessionID) []domain.VideoID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil
	}
	out := make([]domain.VideoID, 0, len(e.Rooms))
	for rid := range e.Rooms {
		out = append(out, rid)
	}
	return out
}

func (r *Registry) InRoom(sid core.SessionID, rid domain.VideoID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	_, member := e.Rooms[rid]
	return member
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions snapshots the live session ids, for ops surfaces.
func (r *Registry) Sessions() []core.SessionID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.SessionID, 0, len(r.sessions))
	for sid := range r.sessions {
		out = append(out, sid)
	}
	return out
}

// Cancel fires the session's cancel func, which tears down its pumps
// and eventually drives the normal disconnect path.
func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
