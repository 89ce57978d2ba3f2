package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/christiansio/hris-auth/internal/database"
	"github.com/christiansio/hris-auth/internal/models"
)

type PostgresSessionStore struct {
	gw *database.Gateway
}

func NewPostgresSessionStore(gw *database.Gateway) *PostgresSessionStore {
	return &PostgresSessionStore{gw: gw}
}

func (s *PostgresSessionStore) FindByUser(ctx context.Context, userID string) (models.Session, error) {
	const query = `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY id
		LIMIT 1
	`

	var session models.Session
	err := s.gw.Run(ctx, false, func(ctx context.Context, q database.Querier) error {
		return scanSession(q.QueryRow(ctx, query, userID), &session)
	})
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *PostgresSessionStore) Create(ctx context.Context, session models.Session) (models.Session, error) {
	// The unique constraint on user_id enforces one session per user. A
	// conflicting live row means a concurrent login won; a conflicting
	// expired row is replaced in place.
	const insert = `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET id = EXCLUDED.id, created_at = EXCLUDED.created_at, expires_at = EXCLUDED.expires_at
		WHERE sessions.expires_at <= NOW()
		RETURNING id, user_id, created_at, expires_at
	`
	const winner = `
		SELECT id, user_id, created_at, expires_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY id
		LIMIT 1
	`

	var created models.Session
	err := s.gw.Run(ctx, true, func(ctx context.Context, q database.Querier) error {
		err := scanSession(q.QueryRow(ctx, insert, session.ID, session.UserID, session.CreatedAt, session.ExpiresAt), &created)
		if !errors.Is(err, ErrSessionNotFound) {
			return err
		}
		// Lost the race to a live row; hand back the one that won.
		return scanSession(q.QueryRow(ctx, winner, session.UserID), &created)
	})
	if err != nil {
		return models.Session{}, err
	}
	return created, nil
}

func (s *PostgresSessionStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id = $1`

	return s.gw.Run(ctx, true, func(ctx context.Context, q database.Querier) error {
		_, err := q.Exec(ctx, query, id)
		return err
	})
}

func (s *PostgresSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= $1`

	var purged int64
	err := s.gw.Run(ctx, true, func(ctx context.Context, q database.Querier) error {
		tag, err := q.Exec(ctx, query, now)
		if err != nil {
			return err
		}
		purged = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return purged, nil
}

func scanSession(row pgx.Row, session *models.Session) error {
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}
