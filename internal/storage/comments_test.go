package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/replayroom/replayroom/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UserRecord{}, &VideoRecord{}, &CommentRecord{}))
	return db
}

func TestCommentRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	teacher := &domain.User{ID: "t1", Username: "ms-lang", Role: domain.RoleTeacher}

	first, err := repo.Create("video-1", teacher, "watch the tempo here", 12.5)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, domain.VideoID("video-1"), first.VideoID)
	assert.Equal(t, domain.RoleTeacher, first.AuthorRole)
	assert.False(t, first.CreatedAt.IsZero())

	_, err = repo.Create("video-1", teacher, "great recovery", 3.0)
	require.NoError(t, err)
	_, err = repo.Create("video-2", teacher, "other thread", 1.0)
	require.NoError(t, err)

	comments, err := repo.FindByVideo("video-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	// Ordered by position in the video, not insertion order.
	assert.Equal(t, 3.0, comments[0].Timecode)
	assert.Equal(t, 12.5, comments[1].Timecode)
}

func TestCommentRepository_EmptyThread(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	comments, err := repo.FindByVideo("video-without-comments")
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.Create("alice@example.com", "alice", domain.RoleStudent, "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleStudent, user.Role)

	rec, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", rec.PasswordHash)

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.Create("alice@example.com", "alice2", domain.RoleTeacher, "hash2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideoRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVideoRepository(db)

	video, err := repo.Create("Recital take 3", "u1", "/media/abc.mp4")
	require.NoError(t, err)
	assert.NotEmpty(t, video.ID)

	ok, err := repo.Exists(video.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists("ghost")
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.FindByID("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
