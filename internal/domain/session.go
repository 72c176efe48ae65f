package domain

import (
	"context"
	"time"
)

// Session is server-held authentication state referenced by a signed
// identifier the client carries in a cookie. Anonymous visitors get a
// session too so flash notices survive a redirect before login.
type Session struct {
	ID        string
	UserID    *int64 // nil until a user logs in on this session
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Flash categories. Each holds at most one pending message per session and
// is consumed exactly once by the next rendered page.
const (
	FlashSuccess   = "success"
	FlashError     = "error"
	FlashAuthError = "authError"
)

// Flashes carries the pending one-shot notices popped for a render.
type Flashes struct {
	Success   string
	Error     string
	AuthError string
}

// SessionRepository defines persistence operations for sessions and their
// flash notices.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	SetUser(ctx context.Context, id string, userID int64) error
	SetFlash(ctx context.Context, id, category, message string) error
	// PopFlashes returns all pending notices and clears them atomically.
	PopFlashes(ctx context.Context, id string) (Flashes, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
