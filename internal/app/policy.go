package app

import (
	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a member whose outbound queue
// overflowed during a broadcast.
type Policy interface {
	OnBackpressure(room domain.VideoID, sid core.SessionID) BackpressureAction
}

// DisconnectPolicy kicks slow members; a client that cannot drain a
// full send buffer is indistinguishable from a dead one.
type DisconnectPolicy struct{}

func (DisconnectPolicy) OnBackpressure(domain.VideoID, core.SessionID) BackpressureAction {
	return KickMember
}
