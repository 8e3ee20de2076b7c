package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
	"github.com/replayroom/replayroom/internal/protocol"
)

// handleFrame routes one decoded inbound message. A malformed or
// unknown frame is answered with an error envelope to the sender only
// and never reaches a room.
func (ctl *Controller) handleFrame(sid core.SessionID, conn *wsConn, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("rejected frame")
		ctl.sendError(conn, "", "malformed_message")
		return
	}

	switch m := msg.(type) {
	case protocol.JoinMessage:
		ctl.handleJoin(sid, conn, m)
	case protocol.LeaveMessage:
		if _, err := ctl.Orch.Leave(sid, m.VideoID); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("leave failed")
		}
	case protocol.CommentMessage:
		ctl.handleComment(sid, m)
	case protocol.TypingMessage:
		if err := ctl.Orch.SetTyping(sid, m.VideoID, m.IsTyping); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("typing failed")
		}
	}
}

func (ctl *Controller) handleJoin(sid core.SessionID, conn *wsConn, m protocol.JoinMessage) {
	_, members, err := ctl.Orch.Join(sid, m.VideoID)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join failed")
		ctl.sendError(conn, m.VideoID, "join_failed")
		return
	}
	frame, err := protocol.EncodeJoined(m.VideoID, members)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode joined")
		return
	}
	if err := conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("joined ack dropped")
	}
}

func (ctl *Controller) handleComment(sid core.SessionID, m protocol.CommentMessage) {
	// Comments over the socket are relays of already-persisted rows;
	// the envelope's videoId is authoritative for routing.
	if !ctl.Orch.Registry.InRoom(sid, m.VideoID) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("video", string(m.VideoID)).Msg("comment relay from non-member dropped")
		return
	}
	comment := m.Comment
	comment.VideoID = m.VideoID
	if err := ctl.Orch.RelayComment(comment, sid); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("comment relay failed")
	}
}

func (ctl *Controller) sendError(conn *wsConn, videoID domain.VideoID, reason string) {
	frame, err := protocol.EncodeError(videoID, reason)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode error envelope")
		return
	}
	_ = conn.TrySend(frame)
}
