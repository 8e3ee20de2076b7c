package protocol

import (
	"encoding/json"

	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
)

// Outbound envelopes. Every one carries the type discriminator and the
// videoId so clients can route without a second round trip.

type joinedEnvelope struct {
	Type    Kind             `json:"type"`
	VideoID domain.VideoID   `json:"videoId"`
	Members []core.MemberDTO `json:"members"`
	Count   int              `json:"count"`
}

type presenceEnvelope struct {
	Type    Kind           `json:"type"`
	VideoID domain.VideoID `json:"videoId"`
	User    domain.User    `json:"user"`
}

type commentEnvelope struct {
	Type    Kind           `json:"type"`
	VideoID domain.VideoID `json:"videoId"`
	Comment domain.Comment `json:"comment"`
}

type typingEnvelope struct {
	Type     Kind           `json:"type"`
	VideoID  domain.VideoID `json:"videoId"`
	UserID   domain.UserID  `json:"userId"`
	Username string         `json:"username"`
	IsTyping bool           `json:"isTyping"`
}

type errorEnvelope struct {
	Type    Kind           `json:"type"`
	VideoID domain.VideoID `json:"videoId,omitempty"`
	Error   string         `json:"error"`
}

func EncodeJoined(videoID domain.VideoID, members []core.MemberDTO) (core.Frame, error) {
	return marshal(joinedEnvelope{Type: KindJoined, VideoID: videoID, Members: members, Count: len(members)})
}

func EncodeUserJoined(videoID domain.VideoID, user domain.User) (core.Frame, error) {
	return marshal(presenceEnvelope{Type: KindUserJoined, VideoID: videoID, User: user})
}

func EncodeUserLeft(videoID domain.VideoID, user domain.User) (core.Frame, error) {
	return marshal(presenceEnvelope{Type: KindUserLeft, VideoID: videoID, User: user})
}

func EncodeComment(comment domain.Comment) (core.Frame, error) {
	return marshal(commentEnvelope{Type: KindNewComment, VideoID: comment.VideoID, Comment: comment})
}

func EncodeTyping(videoID domain.VideoID, user domain.User, isTyping bool) (core.Frame, error) {
	return marshal(typingEnvelope{
		Type:     KindTyping,
		VideoID:  videoID,
		UserID:   user.ID,
		Username: user.Username,
		IsTyping: isTyping,
	})
}

func EncodeError(videoID domain.VideoID, reason string) (core.Frame, error) {
	return marshal(errorEnvelope{Type: KindError, VideoID: videoID, Error: reason})
}

func marshal(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}
