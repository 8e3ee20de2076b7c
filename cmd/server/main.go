package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/replayroom/replayroom/internal/adapters/http"
	signalws "github.com/replayroom/replayroom/internal/adapters/signal"
	"github.com/replayroom/replayroom/internal/app"
	"github.com/replayroom/replayroom/internal/auth"
	"github.com/replayroom/replayroom/internal/config"
	"github.com/replayroom/replayroom/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	blobs, err := storage.NewDiskBlobStore(cfg.MediaPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init media store")
	}

	reg := app.NewRegistry()
	rooms := app.NewRoomRegistry()
	orch := app.NewOrchestrator(reg, rooms, app.DisconnectPolicy{}, cfg.TypingTTL)
	defer orch.Shutdown()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	api := &router.API{
		Users:    storage.NewUserRepository(db),
		Videos:   storage.NewVideoRepository(db),
		Comments: storage.NewCommentRepository(db),
		Blobs:    blobs,
		Tokens:   tokens,
		Orch:     orch,
	}
	signalCtl := signalws.NewController(orch, cfg)

	r := router.SetupRouter(ctx, cfg, api, signalCtl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("ReplayRoom server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
