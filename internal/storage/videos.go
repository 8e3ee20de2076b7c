package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/replayroom/replayroom/internal/domain"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(title domain.VideoTitle, owner domain.UserID, storagePath string) (*domain.Video, error) {
	rec := &VideoRecord{
		ID:          uuid.NewString(),
		Title:       string(title),
		OwnerID:     string(owner),
		StoragePath: storagePath,
		CreatedAt:   time.Now(),
	}
	if err := r.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}
	return rec.ToDomain(), nil
}

func (r *VideoRepository) FindByID(id domain.VideoID) (*domain.Video, error) {
	var rec VideoRecord
	if err := r.db.First(&rec, "id = ?", string(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find video: %w", err)
	}
	return rec.ToDomain(), nil
}

func (r *VideoRepository) FindAll() ([]*domain.Video, error) {
	var recs []VideoRecord
	if err := r.db.Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	out := make([]*domain.Video, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].ToDomain())
	}
	return out, nil
}

func (r *VideoRepository) Exists(id domain.VideoID) (bool, error) {
	var count int64
	if err := r.db.Model(&VideoRecord{}).Where("id = ?", string(id)).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check video: %w", err)
	}
	return count > 0, nil
}
