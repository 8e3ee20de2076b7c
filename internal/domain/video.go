package domain

import "time"

type (
	VideoID    string
	VideoTitle string
)

const MaxVideoTitleLen = 120

// Video is the persisted upload meta; the binary itself lives in the
// blob store under StoragePath.
type Video struct {
	ID          VideoID    `json:"id"`
	Title       VideoTitle `json:"title"`
	OwnerID     UserID     `json:"ownerId"`
	StoragePath string     `json:"-"`
	UploadedAt  time.Time  `json:"uploadedAt"`
}
