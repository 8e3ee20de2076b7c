// Package signal is the websocket session supervisor: it accepts a
// connection, tags it with the authenticated identity, pumps frames in
// both directions and tears everything down on close.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/app"
	"github.com/replayroom/replayroom/internal/config"
	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Session lifecycle. Transitions are one-way: a closed session is
// never reopened; the client must reconnect.
type sessionState int

const (
	stateConnecting sessionState = iota
	stateOpen
	stateClosing
	stateClosed
)

type Controller struct {
	Orch       *app.Orchestrator
	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

func NewController(orch *app.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{
		Orch:       orch,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		SendBuffer: cfg.SendBuffer,
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu    sync.RWMutex
	state sessionState
}

func newWSConn(conn *websocket.Conn, buffer int) *wsConn {
	return &wsConn{
		conn:  conn,
		send:  make(chan core.Frame, buffer),
		state: stateConnecting,
	}
}

// TrySend queues a frame without blocking. A full buffer means the
// client is not draining; the caller decides what to do about it.
func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != stateOpen {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) open() {
	c.mu.Lock()
	if c.state == stateConnecting {
		c.state = stateOpen
	}
	c.mu.Unlock()
}

// beginClose moves Open -> Closing exactly once; queued deliveries
// after this point are dropped by TrySend.
func (c *wsConn) beginClose() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state >= stateClosing {
		return false
	}
	c.state = stateClosing
	return true
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.state == stateClosed {
		c.mu.Unlock()
		return
	}
	c.state = stateClosed
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and starts the session pumps. The
// auth middleware has already resolved the identity into the context.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	userVal, ok := c.Get("user")
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	user := userVal.(*domain.User)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := newWSConn(ws, ctl.SendBuffer)
	sess := core.NewMemberSession(user, conn)
	ctx, cancel := context.WithCancel(ctx)
	// Open before registering: a registered session must be deliverable.
	conn.open()
	sid := ctl.Orch.Registry.Register(user, sess, cancel)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", string(user.ID)).Msg("session open")

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}
