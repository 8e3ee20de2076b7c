package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/replayroom/replayroom/internal/core"
)

func TestWSConn_TrySendStates(t *testing.T) {
	c := newWSConn(nil, 2)

	// Connecting: not yet visible to broadcasts.
	assert.ErrorIs(t, c.TrySend(core.Frame(`{}`)), ErrConnClosed)

	c.open()
	assert.NoError(t, c.TrySend(core.Frame(`{}`)))

	assert.True(t, c.beginClose())
	assert.False(t, c.beginClose(), "closing is entered once")
	// Queued deliveries for a closing session are dropped.
	assert.ErrorIs(t, c.TrySend(core.Frame(`{}`)), ErrConnClosed)
}

func TestWSConn_Backpressure(t *testing.T) {
	c := newWSConn(nil, 1)
	c.open()

	assert.NoError(t, c.TrySend(core.Frame(`{"n":1}`)))
	assert.ErrorIs(t, c.TrySend(core.Frame(`{"n":2}`)), ErrBackpressure)

	// Draining frees the slot.
	<-c.send
	assert.NoError(t, c.TrySend(core.Frame(`{"n":3}`)))
}

func TestWSConn_OpenOnlyFromConnecting(t *testing.T) {
	c := newWSConn(nil, 1)
	c.open()
	c.beginClose()
	c.open()
	assert.ErrorIs(t, c.TrySend(core.Frame(`{}`)), ErrConnClosed, "no resurrection after closing")
}
