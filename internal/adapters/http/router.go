package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/replayroom/replayroom/internal/adapters/signal"
	"github.com/replayroom/replayroom/internal/config"
)

func SetupRouter(ctx context.Context, cfg *config.Config, api *API, signalCtl *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ReplayRoomSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	g := r.Group("/api")
	g.POST("/auth/signup", api.handleSignup)
	g.POST("/auth/login", api.handleLogin)

	authorized := g.Group("", AuthMiddleware(api.Tokens))
	authorized.GET("/videos", api.handleListVideos)
	authorized.POST("/videos", api.handleUploadVideo)
	authorized.GET("/videos/:id", api.handleGetVideo)
	authorized.GET("/videos/:id/stream", api.handleStreamVideo)
	authorized.GET("/videos/:id/comments", api.handleListComments)
	authorized.POST("/videos/:id/comments", api.handleCreateComment)
	authorized.GET("/rooms", api.handleListRooms)

	authorized.GET("/ws/signal", func(c *gin.Context) {
		signalCtl.HandleSignal(ctx, c)
	})

	return r
}
