package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
)

func registerUser(t *testing.T, r *Registry, name string) (core.SessionID, *domain.User) {
	t.Helper()
	user, err := domain.NewUser(name, domain.RoleStudent)
	require.NoError(t, err)
	sid := r.Register(user, core.NewMemberSession(user, &fakeConn{}), nil)
	return sid, user
}

func TestRegistry_RegisterAssignsFreshIDs(t *testing.T) {
	r := NewRegistry()
	sid1, _ := registerUser(t, r, "alice")
	sid2, _ := registerUser(t, r, "bob")

	assert.NotEqual(t, sid1, sid2)
	assert.Equal(t, 2, r.Count())

	u, _, ok := r.Lookup(sid1)
	require.True(t, ok)
	assert.Equal(t, "alice", u.Username)
}

func TestRegistry_UnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	sid, _ := registerUser(t, r, "alice")
	require.True(t, r.AddRoom(sid, "video-1"))
	require.True(t, r.AddRoom(sid, "video-2"))

	user, rooms := r.Unregister(sid)
	require.NotNil(t, user)
	assert.ElementsMatch(t, []domain.VideoID{"video-1", "video-2"}, rooms)

	user, rooms = r.Unregister(sid)
	assert.Nil(t, user)
	assert.Nil(t, rooms)

	_, _, ok := r.Lookup(sid)
	assert.False(t, ok)
}

func TestRegistry_RoomBookkeeping(t *testing.T) {
	r := NewRegistry()
	sid, _ := registerUser(t, r, "alice")

	assert.False(t, r.InRoom(sid, "video-1"))
	require.True(t, r.AddRoom(sid, "video-1"))
	assert.True(t, r.InRoom(sid, "video-1"))

	assert.True(t, r.RemoveRoom(sid, "video-1"))
	assert.False(t, r.RemoveRoom(sid, "video-1"), "removing twice reports not a member")
	assert.Empty(t, r.RoomsOf(sid))
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.AddRoom("ghost", "video-1"))
	assert.False(t, r.RemoveRoom("ghost", "video-1"))
	assert.Nil(t, r.RoomsOf("ghost"))
	assert.False(t, r.Cancel("ghost"))
}

func TestRegistry_CancelFiresSessionCancel(t *testing.T) {
	r := NewRegistry()
	user, err := domain.NewUser("alice", domain.RoleTeacher)
	require.NoError(t, err)
	fired := false
	sid := r.Register(user, core.NewMemberSession(user, &fakeConn{}), func() { fired = true })

	assert.True(t, r.Cancel(sid))
	assert.True(t, fired)
}
