package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/replayroom/replayroom/internal/domain"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create persists a comment and returns the stored snapshot. The
// caller relays that snapshot to the room only after this returns.
func (r *CommentRepository) Create(video domain.VideoID, author *domain.User, body string, timecode float64) (domain.Comment, error) {
	rec := &CommentRecord{
		ID:         uuid.NewString(),
		VideoID:    string(video),
		AuthorID:   string(author.ID),
		AuthorName: author.Username,
		AuthorRole: string(author.Role),
		Body:       body,
		Timecode:   timecode,
		CreatedAt:  time.Now(),
	}
	if err := r.db.Create(rec).Error; err != nil {
		return domain.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}
	return rec.ToDomain(), nil
}

// FindByVideo lists a video's comments ordered by their position in
// the video, which is how the thread is rendered.
func (r *CommentRepository) FindByVideo(video domain.VideoID) ([]domain.Comment, error) {
	var recs []CommentRecord
	if err := r.db.Where("video_id = ?", string(video)).Order("timecode asc, created_at asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	out := make([]domain.Comment, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].ToDomain())
	}
	return out, nil
}
