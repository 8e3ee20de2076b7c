package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/replayroom/replayroom/internal/domain"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(email, username string, role domain.Role, passwordHash string) (*domain.User, error) {
	rec := &UserRecord{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		Role:         string(role),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	if err := r.db.Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return rec.ToDomain(), nil
}

func (r *UserRepository) FindByEmail(email string) (*UserRecord, error) {
	var rec UserRecord
	if err := r.db.First(&rec, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &rec, nil
}

func (r *UserRepository) FindByID(id domain.UserID) (*domain.User, error) {
	var rec UserRecord
	if err := r.db.First(&rec, "id = ?", string(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return rec.ToDomain(), nil
}
