package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	id     domain.VideoID
	mu     sync.RWMutex
	bySID  map[SessionID]MemberSession
	closed bool
}

func NewRoomService(id domain.VideoID) RoomService {
	return &roomImpl{
		id:    id,
		bySID: make(map[SessionID]MemberSession),
	}
}

func (r *roomImpl) ID() domain.VideoID { return r.id }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) HasMember(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bySID[sid]
	return ok
}

func (r *roomImpl) AddMember(sid SessionID, ms MemberSession) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrRoomClosed
	}
	if _, ok := r.bySID[sid]; ok {
		return false, nil
	}
	r.bySID[sid] = ms
	log.Info().Str("module", "core.room").Str("video", string(r.id)).Str("sid", string(sid)).Str("user", string(ms.User().ID)).Msg("member added")
	return true, nil
}

func (r *roomImpl) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bySID) > 0 {
		return false
	}
	r.closed = true
	return true
}

func (r *roomImpl) RemoveMember(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[sid]; !ok {
		return false
	}
	delete(r.bySID, sid)
	log.Info().Str("module", "core.room").Str("video", string(r.id)).Str("sid", string(sid)).Msg("member removed")
	return true
}

func (r *roomImpl) Broadcast(from SessionID, data Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for sid, m := range r.bySID {
		if from != "" && sid == from {
			continue
		}
		if err := m.Signal().TrySend(data); err != nil {
			// One unreachable member never aborts the remaining fan-out.
			log.Warn().Err(err).Str("module", "core.room").Str("video", string(r.id)).Str("sid", string(sid)).Msg("delivery failed")
			res.Dropped = append(res.Dropped, sid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("video", string(r.id)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.bySID))
	for _, ms := range r.bySID {
		u := ms.User()
		out = append(out, MemberDTO{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return out
}
