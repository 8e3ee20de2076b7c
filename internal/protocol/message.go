// Package protocol defines the wire envelopes exchanged over a signal
// connection. Inbound frames decode into a closed set of message
// variants so dispatch never falls back to untyped payloads.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/replayroom/replayroom/internal/domain"
)

type Kind string

// Inbound kinds.
const (
	KindJoin       Kind = "join"
	KindLeave      Kind = "leave"
	KindNewComment Kind = "new_comment"
	KindTyping     Kind = "typing"
)

// Outbound kinds. KindNewComment and KindTyping are relayed under the
// same discriminator they arrive with.
const (
	KindJoined     Kind = "joined"
	KindUserJoined Kind = "user_joined"
	KindUserLeft   Kind = "user_left"
	KindError      Kind = "error"
)

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrUnknownKind      = errors.New("unknown message kind")
)

// Message is the closed set of inbound variants.
type Message interface {
	Kind() Kind
	Room() domain.VideoID
	sealed()
}

type JoinMessage struct {
	VideoID domain.VideoID `json:"videoId"`
	// UserID is accepted for wire compatibility but identity is always
	// taken from the authenticated session, never from this field.
	UserID domain.UserID `json:"userId"`
}

type LeaveMessage struct {
	VideoID domain.VideoID `json:"videoId"`
}

type CommentMessage struct {
	VideoID domain.VideoID `json:"videoId"`
	Comment domain.Comment `json:"comment"`
}

type TypingMessage struct {
	VideoID  domain.VideoID `json:"videoId"`
	UserID   domain.UserID  `json:"userId"`
	IsTyping bool           `json:"isTyping"`
}

func (m JoinMessage) Kind() Kind    { return KindJoin }
func (m LeaveMessage) Kind() Kind   { return KindLeave }
func (m CommentMessage) Kind() Kind { return KindNewComment }
func (m TypingMessage) Kind() Kind  { return KindTyping }

func (m JoinMessage) Room() domain.VideoID    { return m.VideoID }
func (m LeaveMessage) Room() domain.VideoID   { return m.VideoID }
func (m CommentMessage) Room() domain.VideoID { return m.VideoID }
func (m TypingMessage) Room() domain.VideoID  { return m.VideoID }

func (JoinMessage) sealed()    {}
func (LeaveMessage) sealed()   {}
func (CommentMessage) sealed() {}
func (TypingMessage) sealed()  {}

// Decode parses one inbound frame. Unknown kinds and unparseable or
// incomplete payloads are reported to the caller and go no further.
func Decode(data []byte) (Message, error) {
	var env struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	switch env.Type {
	case KindJoin:
		var m JoinMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if m.VideoID == "" {
			return nil, fmt.Errorf("%w: missing videoId", ErrMalformedMessage)
		}
		return m, nil
	case KindLeave:
		var m LeaveMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if m.VideoID == "" {
			return nil, fmt.Errorf("%w: missing videoId", ErrMalformedMessage)
		}
		return m, nil
	case KindNewComment:
		var m CommentMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if m.VideoID == "" {
			return nil, fmt.Errorf("%w: missing videoId", ErrMalformedMessage)
		}
		if m.Comment.ID == "" {
			return nil, fmt.Errorf("%w: missing comment", ErrMalformedMessage)
		}
		return m, nil
	case KindTyping:
		var m TypingMessage
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if m.VideoID == "" {
			return nil, fmt.Errorf("%w: missing videoId", ErrMalformedMessage)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
}
