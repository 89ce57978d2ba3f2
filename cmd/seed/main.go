// Seeds the default administrator account. Safe to run repeatedly: an
// existing admin email is left untouched.
package main

import (
	"context"
	"errors"
	"flag"

	"github.com/christiansio/hris-auth/internal/config"
	"github.com/christiansio/hris-auth/internal/database"
	"github.com/christiansio/hris-auth/internal/log"
	"github.com/christiansio/hris-auth/internal/models"
	"github.com/christiansio/hris-auth/internal/repository"
	"github.com/christiansio/hris-auth/internal/service"
)

func main() {
	email := flag.String("email", "admin@hris.com", "admin email")
	password := flag.String("password", "AdminPassword123", "admin password")
	flag.Parse()

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
	defer gateway.Close()

	users := repository.NewPostgresUserStore(gateway)
	sessions := repository.NewPostgresSessionStore(gateway)
	auth := service.NewAuthService(users, sessions, cfg.Session.TTL, logger)

	_, err = auth.Register(ctx, service.RegisterInput{
		Email:    *email,
		Password: *password,
		Role:     models.RoleAdmin,
	})
	switch {
	case err == nil:
		logger.Info().Str("email", *email).Msg("admin created")
	case errors.Is(err, repository.ErrDuplicateEmail):
		logger.Info().Str("email", *email).Msg("admin already exists, no changes made")
	default:
		logger.Fatal().Err(err).Msg("seed failed")
	}
}
