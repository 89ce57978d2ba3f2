package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/christiansio/hris-auth/internal/models"
)

// MemoryStore keeps users and sessions in process memory with the same
// contract as the Postgres stores, including one-session-per-user and
// expiry filtering. Users() and Sessions() expose the two store
// interfaces over the shared state. Used by tests and local tooling that
// should not need a database.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]models.User    // keyed by user id
	sessions map[string]models.Session // keyed by session id

	// FailLookups simulates a storage outage on read paths.
	FailLookups error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		sessions: make(map[string]models.Session),
	}
}

func (m *MemoryStore) Users() UserStore       { return &memoryUserStore{core: m} }
func (m *MemoryStore) Sessions() SessionStore { return &memorySessionStore{core: m} }

// SessionCount reports stored session rows, for assertions in tests.
func (m *MemoryStore) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type memoryUserStore struct{ core *MemoryStore }

func (s *memoryUserStore) Create(ctx context.Context, user models.User) error {
	m := s.core
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.ID] = user
	return nil
}

func (s *memoryUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	m := s.core
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailLookups != nil {
		return models.User{}, m.FailLookups
	}
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (s *memoryUserStore) FindBySession(ctx context.Context, sessionID string) (models.User, error) {
	m := s.core
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailLookups != nil {
		return models.User{}, m.FailLookups
	}
	session, ok := m.sessions[sessionID]
	if !ok || session.Expired(time.Now()) {
		return models.User{}, ErrSessionNotFound
	}
	user, ok := m.users[session.UserID]
	if !ok {
		return models.User{}, ErrSessionNotFound
	}
	return user, nil
}

type memorySessionStore struct{ core *MemoryStore }

func (s *memorySessionStore) FindByUser(ctx context.Context, userID string) (models.Session, error) {
	m := s.core
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailLookups != nil {
		return models.Session{}, m.FailLookups
	}
	return m.liveSessionLocked(userID)
}

func (s *memorySessionStore) Create(ctx context.Context, session models.Session) (models.Session, error) {
	m := s.core
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, err := m.liveSessionLocked(session.UserID); err == nil {
		return existing, nil
	}
	// Replace any expired rows the user still holds, mirroring the
	// unique constraint on user_id.
	now := time.Now()
	for id, stale := range m.sessions {
		if stale.UserID == session.UserID && stale.Expired(now) {
			delete(m.sessions, id)
		}
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, id string) error {
	m := s.core
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (s *memorySessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	m := s.core
	m.mu.Lock()
	defer m.mu.Unlock()

	var purged int64
	for id, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, id)
			purged++
		}
	}
	return purged, nil
}

func (m *MemoryStore) liveSessionLocked(userID string) (models.Session, error) {
	now := time.Now()
	var ids []string
	for id, session := range m.sessions {
		if session.UserID == userID && !session.Expired(now) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return models.Session{}, ErrSessionNotFound
	}
	sort.Strings(ids)
	return m.sessions[ids[0]], nil
}
