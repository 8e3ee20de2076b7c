package storage

import (
	"time"

	"github.com/replayroom/replayroom/internal/domain"
)

type UserRecord struct {
	ID           string    `gorm:"primarykey;size:36"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	Username     string    `gorm:"size:36;not null"`
	Role         string    `gorm:"size:16;not null"`
	PasswordHash string    `gorm:"size:72;not null"`
	CreatedAt    time.Time
}

func (UserRecord) TableName() string { return "users" }

func (r *UserRecord) ToDomain() *domain.User {
	return &domain.User{
		ID:       domain.UserID(r.ID),
		Username: r.Username,
		Role:     domain.Role(r.Role),
	}
}

type VideoRecord struct {
	ID          string    `gorm:"primarykey;size:36"`
	Title       string    `gorm:"size:120;not null"`
	OwnerID     string    `gorm:"size:36;index;not null"`
	StoragePath string    `gorm:"size:512;not null"`
	CreatedAt   time.Time
}

func (VideoRecord) TableName() string { return "videos" }

func (r *VideoRecord) ToDomain() *domain.Video {
	return &domain.Video{
		ID:          domain.VideoID(r.ID),
		Title:       domain.VideoTitle(r.Title),
		OwnerID:     domain.UserID(r.OwnerID),
		StoragePath: r.StoragePath,
		UploadedAt:  r.CreatedAt,
	}
}

type CommentRecord struct {
	ID         string    `gorm:"primarykey;size:36"`
	VideoID    string    `gorm:"size:36;index;not null"`
	AuthorID   string    `gorm:"size:36;index;not null"`
	AuthorName string    `gorm:"size:36;not null"`
	AuthorRole string    `gorm:"size:16;not null"`
	Body       string    `gorm:"size:2000;not null"`
	Timecode   float64   `gorm:"not null"`
	CreatedAt  time.Time
}

func (CommentRecord) TableName() string { return "comments" }

func (r *CommentRecord) ToDomain() domain.Comment {
	return domain.Comment{
		ID:         domain.CommentID(r.ID),
		VideoID:    domain.VideoID(r.VideoID),
		AuthorID:   domain.UserID(r.AuthorID),
		AuthorName: r.AuthorName,
		AuthorRole: domain.Role(r.AuthorRole),
		Body:       r.Body,
		Timecode:   r.Timecode,
		CreatedAt:  r.CreatedAt,
	}
}
