package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/christiansio/hris-auth/internal/database"
	"github.com/christiansio/hris-auth/internal/models"
)

type PostgresUserStore struct {
	gw *database.Gateway
}

func NewPostgresUserStore(gw *database.Gateway) *PostgresUserStore {
	return &PostgresUserStore{gw: gw}
}

func (s *PostgresUserStore) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`

	return s.gw.Run(ctx, true, func(ctx context.Context, q database.Querier) error {
		if _, err := q.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.Role); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE email = $1
	`

	var user models.User
	err := s.gw.Run(ctx, false, func(ctx context.Context, q database.Querier) error {
		return scanUser(q.QueryRow(ctx, query, email), &user)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *PostgresUserStore) FindBySession(ctx context.Context, sessionID string) (models.User, error) {
	const query = `
		SELECT users.id, users.email, users.password_hash, users.role, users.created_at
		FROM sessions
		JOIN users ON sessions.user_id = users.id
		WHERE sessions.id = $1 AND sessions.expires_at > NOW()
	`

	var user models.User
	err := s.gw.Run(ctx, false, func(ctx context.Context, q database.Querier) error {
		if err := scanUser(q.QueryRow(ctx, query, sessionID), &user); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row, user *models.User) error {
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
