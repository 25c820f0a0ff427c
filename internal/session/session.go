// Package session holds the server-side session record that an
// authenticated browser is bound to.  The browser only carries an opaque
// session id; role and identity live here and are re-synced from the
// database on every authenticated request.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session id is unknown or has expired.
var ErrNotFound = errors.New("session not found")

// Session is the cached identity of a logged-in user.  Role is a copy of
// User.role and must be refreshed before it is used for an access decision.
type Session struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Name      string    `json:"user_name"`
	Email     string    `json:"user_email"`
	Role      string    `json:"user_role"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions outside the process.
type Store interface {
	// Create assigns a fresh id to s and stores it.
	Create(ctx context.Context, s *Session) error
	// Get loads a session and extends its lifetime.
	Get(ctx context.Context, id string) (*Session, error)
	// Save overwrites an existing session.
	Save(ctx context.Context, s *Session) error
	// Destroy removes a session.  Unknown ids are not an error.
	Destroy(ctx context.Context, id string) error
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying s.
func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithContext, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
