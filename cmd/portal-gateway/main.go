// Command portal-gateway runs the local session gateway for the Tohpitoh
// clinical portal: it owns the authentication lifecycle against the remote
// clinical API and exposes the session and its operations over a small HTTP
// facade for the presentation layer.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tohpitoh/portal-gateway/internal/api"
	"github.com/tohpitoh/portal-gateway/internal/core/ports"
	"github.com/tohpitoh/portal-gateway/internal/core/service"
	"github.com/tohpitoh/portal-gateway/internal/infrastructure/config"
	"github.com/tohpitoh/portal-gateway/internal/infrastructure/remote"
	"github.com/tohpitoh/portal-gateway/internal/infrastructure/storage"
	"github.com/tohpitoh/portal-gateway/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store ports.TokenStore
	switch cfg.Store.Backend {
	case "redis":
		client, err := storage.ConnectRedis(ctx, storage.RedisConfig{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		store = storage.NewRedisStore(client)
	case "file":
		store = storage.NewFileStore(cfg.Store.Path, log)
	default:
		log.Fatal().Str("backend", cfg.Store.Backend).Msg("unknown store backend")
	}

	remoteClient := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, log)
	sessions := service.NewSessionManager(remoteClient, store, log)

	// Resume a previous session if a stored token is still accepted by the
	// backend. A rejected token just means starting at role selection.
	if err := sessions.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("stored session not restored")
	}

	e := api.NewRouter(sessions, remoteClient, log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("remote", cfg.Remote.BaseURL).
		Str("store", cfg.Store.Backend).
		Msg("portal gateway starting")

	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
