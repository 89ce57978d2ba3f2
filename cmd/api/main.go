package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/christiansio/hris-auth/internal/config"
	"github.com/christiansio/hris-auth/internal/database"
	"github.com/christiansio/hris-auth/internal/handlers"
	"github.com/christiansio/hris-auth/internal/jobs"
	"github.com/christiansio/hris-auth/internal/log"
	"github.com/christiansio/hris-auth/internal/repository"
	"github.com/christiansio/hris-auth/internal/server"
	"github.com/christiansio/hris-auth/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	if err := database.Migrate(ctx, cfg.Postgres); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	pool, err := database.NewPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	gateway := database.NewGateway(pool)

	users := repository.NewPostgresUserStore(gateway)
	sessions := repository.NewPostgresSessionStore(gateway)
	auth := service.NewAuthService(users, sessions, cfg.Session.TTL, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, auth, gateway)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(sessions, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, gateway)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, gateway *database.Gateway) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()
	gateway.Close()

	logger.Info().Msg("server exited cleanly")
}
