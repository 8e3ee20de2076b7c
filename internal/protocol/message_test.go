package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replayroom/replayroom/internal/core"
	"github.com/replayroom/replayroom/internal/domain"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Message
		wantErr error
	}{
		{
			name: "join",
			data: `{"type":"join","videoId":"video-42","userId":"u1"}`,
			want: JoinMessage{VideoID: "video-42", UserID: "u1"},
		},
		{
			name: "leave",
			data: `{"type":"leave","videoId":"video-42"}`,
			want: LeaveMessage{VideoID: "video-42"},
		},
		{
			name: "typing start",
			data: `{"type":"typing","videoId":"video-42","userId":"u1","isTyping":true}`,
			want: TypingMessage{VideoID: "video-42", UserID: "u1", IsTyping: true},
		},
		{
			name: "typing stop",
			data: `{"type":"typing","videoId":"video-42","userId":"u1","isTyping":false}`,
			want: TypingMessage{VideoID: "video-42", UserID: "u1"},
		},
		{
			name: "new comment",
			data: `{"type":"new_comment","videoId":"video-42","comment":{"id":"7","videoId":"video-42","body":"nice"}}`,
			want: CommentMessage{VideoID: "video-42", Comment: domain.Comment{ID: "7", VideoID: "video-42", Body: "nice"}},
		},
		{
			name:    "not json",
			data:    `{"type":`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "unknown kind",
			data:    `{"type":"teleport","videoId":"video-42"}`,
			wantErr: ErrUnknownKind,
		},
		{
			name:    "join without videoId",
			data:    `{"type":"join","userId":"u1"}`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "typing without videoId",
			data:    `{"type":"typing","userId":"u1","isTyping":true}`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "comment without snapshot",
			data:    `{"type":"new_comment","videoId":"video-42"}`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "wrong field type",
			data:    `{"type":"typing","videoId":"video-42","isTyping":"yes"}`,
			wantErr: ErrMalformedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_KindAndRoom(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"leave","videoId":"video-9"}`))
	require.NoError(t, err)
	assert.Equal(t, KindLeave, msg.Kind())
	assert.Equal(t, domain.VideoID("video-9"), msg.Room())
}

// Every outbound envelope must carry the type discriminator and the
// videoId so a client can route it without another round trip.
func TestEncode_EnvelopeRouting(t *testing.T) {
	user := domain.User{ID: "u1", Username: "alice", Role: domain.RoleTeacher}
	comment := domain.Comment{ID: "7", VideoID: "video-42", Body: "bravo"}

	frames := map[Kind]func() (core.Frame, error){
		KindJoined:     func() (core.Frame, error) { return EncodeJoined("video-42", []core.MemberDTO{}) },
		KindUserJoined: func() (core.Frame, error) { return EncodeUserJoined("video-42", user) },
		KindUserLeft:   func() (core.Frame, error) { return EncodeUserLeft("video-42", user) },
		KindNewComment: func() (core.Frame, error) { return EncodeComment(comment) },
		KindTyping:     func() (core.Frame, error) { return EncodeTyping("video-42", user, true) },
		KindError:      func() (core.Frame, error) { return EncodeError("video-42", "malformed_message") },
	}

	for kind, encode := range frames {
		frame, err := encode()
		require.NoError(t, err, kind)

		var env struct {
			Type    Kind           `json:"type"`
			VideoID domain.VideoID `json:"videoId"`
		}
		require.NoError(t, json.Unmarshal(frame, &env), kind)
		assert.Equal(t, kind, env.Type)
		assert.Equal(t, domain.VideoID("video-42"), env.VideoID)
	}
}

func TestEncodeTyping_Payload(t *testing.T) {
	user := domain.User{ID: "u1", Username: "alice", Role: domain.RoleTeacher}
	frame, err := EncodeTyping("video-1", user, true)
	require.NoError(t, err)

	var env typingEnvelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, domain.UserID("u1"), env.UserID)
	assert.Equal(t, "alice", env.Username)
	assert.True(t, env.IsTyping)
}

func TestEncodeJoined_Count(t *testing.T) {
	members := []core.MemberDTO{
		{ID: "u1", Username: "alice", Role: domain.RoleTeacher},
		{ID: "u2", Username: "bob", Role: domain.RoleStudent},
	}
	frame, err := EncodeJoined("video-1", members)
	require.NoError(t, err)

	var env joinedEnvelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, 2, env.Count)
	assert.Len(t, env.Members, 2)
}
