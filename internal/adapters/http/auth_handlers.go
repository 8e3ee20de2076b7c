package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/app"
	"github.com/replayroom/replayroom/internal/auth"
	"github.com/replayroom/replayroom/internal/domain"
	"github.com/replayroom/replayroom/internal/storage"
)

// API bundles the REST handlers' collaborators.
type API struct {
	Users    *storage.UserRepository
	Videos   *storage.VideoRepository
	Comments *storage.CommentRepository
	Blobs    storage.BlobStore
	Tokens   *auth.TokenService
	Orch     *app.Orchestrator
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Username string `json:"username" binding:"required,max=36"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=student teacher"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (a *API) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signup payload"})
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password rejected"})
		return
	}
	user, err := a.Users.Create(req.Email, req.Username, role, hash)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Msg("signup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}
	token, err := a.Tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}
	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

func (a *API) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}
	rec, err := a.Users.FindByEmail(req.Email)
	if err != nil || !auth.CheckPassword(rec.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	user := rec.ToDomain()
	token, err := a.Tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}
