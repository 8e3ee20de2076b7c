package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/domain"
)

type typingKey struct {
	video domain.VideoID
	user  domain.UserID
}

type typingEntry struct {
	user  domain.User
	timer *time.Timer
}

// TypingTracker holds the ephemeral per-(room,user) typing state. Each
// entry carries one cancellable expiry timer; a refresh rearms it
// without emitting anything, so peers see at most one indicator per
// typing burst.
type TypingTracker struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[typingKey]*typingEntry
	onExpire func(domain.VideoID, domain.User)
}

func NewTypingTracker(ttl time.Duration, onExpire func(domain.VideoID, domain.User)) *TypingTracker {
	return &TypingTracker{
		ttl:      ttl,
		entries:  make(map[typingKey]*typingEntry),
		onExpire: onExpire,
	}
}

// Set marks user as typing in video. It reports true only when the
// user transitions Idle -> Typing; a repeat within the window just
// refreshes the timer.
func (t *TypingTracker) Set(video domain.VideoID, user domain.User) bool {
	key := typingKey{video: video, user: user.ID}
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[key]; ok {
		if e.timer.Stop() {
			e.timer.Reset(t.ttl)
			return false
		}
		// Timer fired while we held the lock race; its callback will
		// find a different entry and do nothing. Rearm fresh.
		t.entries[key] = t.newEntry(key, user)
		return false
	}
	t.entries[key] = t.newEntry(key, user)
	log.Debug().Str("module", "app.typing").Str("video", string(video)).Str("user", string(user.ID)).Msg("typing started")
	return true
}

// Clear removes the entry, reporting whether the user was typing. Used
// for explicit stop signals and for leave/disconnect cleanup.
func (t *TypingTracker) Clear(video domain.VideoID, userID domain.UserID) bool {
	key := typingKey{video: video, user: userID}
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(t.entries, key)
	log.Debug().Str("module", "app.typing").Str("video", string(video)).Str("user", string(userID)).Msg("typing cleared")
	return true
}

func (t *TypingTracker) IsTyping(video domain.VideoID, userID domain.UserID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[typingKey{video: video, user: userID}]
	return ok
}

// Shutdown stops every armed timer without emitting expiry events.
func (t *TypingTracker) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.entries {
		e.timer.Stop()
		delete(t.entries, key)
	}
}

func (t *TypingTracker) newEntry(key typingKey, user domain.User) *typingEntry {
	e := &typingEntry{user: user}
	e.timer = time.AfterFunc(t.ttl, func() { t.expire(key, e) })
	return e
}

func (t *TypingTracker) expire(key typingKey, e *typingEntry) {
	t.mu.Lock()
	cur, ok := t.entries[key]
	if !ok || cur != e {
		t.mu.Unlock()
		return
	}
	delete(t.entries, key)
	t.mu.Unlock()

	log.Debug().Str("module", "app.typing").Str("video", string(key.video)).Str("user", string(key.user)).Msg("typing expired")
	if t.onExpire != nil {
		t.onExpire(key.video, e.user)
	}
}
