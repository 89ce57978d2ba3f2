package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/christiansio/hris-auth/internal/models"
	"github.com/christiansio/hris-auth/internal/repository"
	"github.com/christiansio/hris-auth/internal/security"
)

// AuthService implements the session lifecycle: registration, credential
// login with session reuse, cookie resolution and logout. It holds no
// state of its own; every lookup is a fresh round trip to the stores.
type AuthService struct {
	users      repository.UserStore
	sessions   repository.SessionStore
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	users repository.UserStore,
	sessions repository.SessionStore,
	sessionTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Role     models.Role
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return models.User{}, err
	}
	if input.Password == "" {
		return models.User{}, ErrEmptyPassword
	}

	role := input.Role
	if role == "" {
		role = models.DefaultRole
	}
	if !role.Valid() {
		return models.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, input.Role)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

type LoginResult struct {
	User      models.User
	SessionID string
	// Reused is true when an existing session id was handed back instead
	// of a freshly minted one.
	Reused bool
}

// Login authenticates by credentials unless the caller already holds a
// valid session cookie: a resolvable existingSessionID short-circuits the
// password check entirely and hands the same session back. That shortcut
// is the documented reuse policy, not an oversight.
func (s *AuthService) Login(ctx context.Context, email, password, existingSessionID string) (LoginResult, error) {
	if existingSessionID != "" {
		if user := s.ResolveSession(ctx, existingSessionID); user != nil {
			return LoginResult{User: *user, SessionID: existingSessionID, Reused: true}, nil
		}
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown email and wrong password are indistinguishable to
			// the caller.
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}
	user.PasswordHash = ""

	if existing, err := s.sessions.FindByUser(ctx, user.ID); err == nil {
		return LoginResult{User: user, SessionID: existing.ID, Reused: true}, nil
	} else if !errors.Is(err, repository.ErrSessionNotFound) {
		return LoginResult{}, fmt.Errorf("find session: %w", err)
	}

	now := time.Now()
	newID := uuid.NewString()
	session, err := s.sessions.Create(ctx, models.Session{
		ID:        newID,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	// A concurrent login may have won the insert; in that case the store
	// hands back the winner and we reuse it.
	return LoginResult{User: user, SessionID: session.ID, Reused: session.ID != newID}, nil
}

// ResolveSession maps a session id to its user, or nil when there is
// none. Storage failures are logged and collapsed to nil as well: for an
// authentication check the safe answer to "something went wrong" is "not
// authenticated".
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) *models.User {
	if sessionID == "" {
		return nil
	}

	user, err := s.users.FindBySession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			s.log.Warn().Err(err).Msg("session lookup failed, treating as unauthenticated")
		}
		return nil
	}

	user.PasswordHash = ""
	return &user
}

func (s *AuthService) RequireUser(ctx context.Context, sessionID string) (models.User, error) {
	user := s.ResolveSession(ctx, sessionID)
	if user == nil {
		return models.User{}, ErrUnauthorized
	}
	return *user, nil
}

// Logout deletes the session row. A missing cookie or an already-deleted
// id is a successful no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}
