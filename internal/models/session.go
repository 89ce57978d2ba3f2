package models

import "time"

// Session is the server-side record behind a session cookie. The token in
// ID is opaque to clients; ExpiresAt bounds its lifetime independently of
// the cookie's max-age.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !s.ExpiresAt.After(now)
}
