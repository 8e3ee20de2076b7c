package http

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/domain"
	"github.com/replayroom/replayroom/internal/storage"
)

func (a *API) handleListVideos(c *gin.Context) {
	videos, err := a.Videos.FindAll()
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list videos failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

func (a *API) handleUploadVideo(c *gin.Context) {
	user := c.MustGet("user").(*domain.User)

	title := c.PostForm("title")
	if title == "" || len(title) > domain.MaxVideoTitleLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid title"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer f.Close()

	path, err := a.Blobs.Save(fileHeader.Filename, f)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("blob save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	video, err := a.Videos.Create(domain.VideoTitle(title), user.ID, path)
	if err != nil {
		_ = a.Blobs.Remove(path)
		log.Error().Err(err).Str("module", "adapters.http").Msg("video create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	log.Info().Str("module", "adapters.http").Str("video", string(video.ID)).Str("owner", string(user.ID)).Msg("video uploaded")
	c.JSON(http.StatusCreated, gin.H{"video": video})
}

func (a *API) handleGetVideo(c *gin.Context) {
	video, err := a.Videos.FindByID(domain.VideoID(c.Param("id")))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"video": video})
}

func (a *API) handleStreamVideo(c *gin.Context) {
	video, err := a.Videos.FindByID(domain.VideoID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
		return
	}
	r, err := a.Blobs.Open(video.StoragePath)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("video", string(video.ID)).Msg("blob open failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stream failed"})
		return
	}
	defer r.Close()
	// ServeContent honors Range and If-Modified-Since, which players
	// rely on for seeking.
	http.ServeContent(c.Writer, c.Request, filepath.Base(video.StoragePath), video.UploadedAt, r)
}

func (a *API) handleListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": a.Orch.Rooms.List()})
}
