package domain

import "time"

type CommentID string

// Comment is a timestamped annotation on a video. The realtime layer
// only ever sees comments that are already persisted; it relays the
// snapshot verbatim and never mutates it.
type Comment struct {
	ID         CommentID `json:"id"`
	VideoID    VideoID   `json:"videoId"`
	AuthorID   UserID    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	AuthorRole Role      `json:"authorRole"`
	Body       string    `json:"body"`
	// Timecode is the position in the video the comment refers to,
	// in seconds from the start.
	Timecode  float64   `json:"timecode"`
	CreatedAt time.Time `json:"createdAt"`
}
