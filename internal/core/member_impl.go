package core

import "github.com/replayroom/replayroom/internal/domain"

// memberSession implements MemberSession by pairing identity + transport.
type memberSession struct {
	user *domain.User
	conn SignalConnection
}

func NewMemberSession(user *domain.User, conn SignalConnection) MemberSession {
	return &memberSession{user: user, conn: conn}
}

func (m *memberSession) User() *domain.User       { return m.user }
func (m *memberSession) Signal() SignalConnection { return m.conn }
