package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/domain"
	"github.com/replayroom/replayroom/internal/storage"
)

type createCommentRequest struct {
	Body     string  `json:"body" binding:"required,max=2000"`
	Timecode float64 `json:"timecode" binding:"gte=0"`
}

func (a *API) handleListComments(c *gin.Context) {
	videoID := domain.VideoID(c.Param("id"))
	if _, err := a.Videos.FindByID(videoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	comments, err := a.Comments.FindByVideo(videoID)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list comments failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// handleCreateComment persists first, then relays. The broadcast is a
// post-commit side effect: a room fan-out failure never rolls back or
// fails the write.
func (a *API) handleCreateComment(c *gin.Context) {
	user := c.MustGet("user").(*domain.User)
	videoID := domain.VideoID(c.Param("id"))

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment payload"})
		return
	}
	if _, err := a.Videos.FindByID(videoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	comment, err := a.Comments.Create(videoID, user, req.Body, req.Timecode)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("comment create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	if err := a.Orch.RelayComment(comment, ""); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("comment", string(comment.ID)).Msg("comment relay failed")
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
