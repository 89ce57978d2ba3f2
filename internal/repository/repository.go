package repository

import (
	"context"
	"errors"
	"time"

	"github.com/christiansio/hris-auth/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrDuplicateEmail  = errors.New("email already exists")
)

type UserStore interface {
	// Create inserts a new user. Returns ErrDuplicateEmail when the email
	// is already taken.
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// FindBySession resolves a live session id to its user in a single
	// join lookup. Missing or expired sessions return ErrSessionNotFound.
	FindBySession(ctx context.Context, sessionID string) (models.User, error)
}

type SessionStore interface {
	// FindByUser returns the user's live session. Should multiple rows
	// ever exist, the lowest id wins deterministically.
	FindByUser(ctx context.Context, userID string) (models.Session, error)
	// Create inserts the session. When a concurrent login already
	// inserted one for the same user, the row that won is returned
	// instead of an error.
	Create(ctx context.Context, session models.Session) (models.Session, error)
	// Delete removes the session by id. Deleting an absent id is not an
	// error.
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
