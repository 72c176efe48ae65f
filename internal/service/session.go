package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edamiani/mynotes/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionTTL = 24 * time.Hour

// SessionService owns the server-held sessions and their one-shot flash
// notices. The client carries a signed token whose subject is the session
// ID; all state lives in the session row.
type SessionService struct {
	sessions domain.SessionRepository
	secret   []byte
}

// NewSessionService creates a new SessionService. The secret signs the
// session token handed to clients.
func NewSessionService(sessions domain.SessionRepository, secret string) *SessionService {
	return &SessionService{sessions: sessions, secret: []byte(secret)}
}

// Start creates a session, optionally already bound to a user, and returns
// it with the signed token for the cookie.
func (s *SessionService) Start(ctx context.Context, userID *int64) (*domain.Session, string, error) {
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return session, token, nil
}

// Resolve validates a session token and loads the referenced session.
// Invalid signatures, unknown IDs, and expired sessions all yield
// domain.ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*domain.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	sid, err := claims.GetSubject()
	if err != nil || sid == "" {
		return nil, domain.ErrUnauthenticated
	}

	session, err := s.sessions.GetByID(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		// Expired rows are reaped lazily on first sight.
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("delete expired session: %w", err)
		}
		return nil, domain.ErrUnauthenticated
	}

	return session, nil
}

// Authenticate binds a logged-in user to an existing session.
func (s *SessionService) Authenticate(ctx context.Context, sessionID string, userID int64) error {
	if err := s.sessions.SetUser(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("bind user to session: %w", err)
	}
	return nil
}

// Destroy ends a session. Destroying an unknown session is a no-op.
func (s *SessionService) Destroy(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Flash stores a one-shot notice on the session under the given category,
// replacing any pending notice in that category.
func (s *SessionService) Flash(ctx context.Context, sessionID, category, message string) error {
	if err := s.sessions.SetFlash(ctx, sessionID, category, message); err != nil {
		return fmt.Errorf("set flash: %w", err)
	}
	return nil
}

// PopFlashes consumes all pending notices for the session.
func (s *SessionService) PopFlashes(ctx context.Context, sessionID string) (domain.Flashes, error) {
	flashes, err := s.sessions.PopFlashes(ctx, sessionID)
	if err != nil {
		return domain.Flashes{}, fmt.Errorf("pop flashes: %w", err)
	}
	return flashes, nil
}

// PruneExpired removes sessions past their expiry.
func (s *SessionService) PruneExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func (s *SessionService) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": session.ID,
		"iat": time.Now().Unix(),
		"exp": session.ExpiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
