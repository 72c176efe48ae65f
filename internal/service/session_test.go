package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edamiani/mynotes/internal/domain"
	"github.com/edamiani/mynotes/internal/repository/sqlite"
	"github.com/edamiani/mynotes/internal/service"
	"github.com/google/uuid"
)

const testSecret = "test-session-secret-at-least-32-chars!"

func newTestSessionService(t *testing.T) (*service.SessionService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	return service.NewSessionService(db.Sessions(), testSecret), db
}

func TestSessionService_StartAndResolve(t *testing.T) {
	sessions, _ := newTestSessionService(t)
	ctx := context.Background()

	session, token, err := sessions.Start(ctx, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session.ID == "" || token == "" {
		t.Fatal("expected session ID and token to be set")
	}
	if session.UserID != nil {
		t.Fatal("expected anonymous session")
	}

	resolved, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ID != session.ID {
		t.Fatalf("expected session %q, got %q", session.ID, resolved.ID)
	}
}

func TestSessionService_Start_WithUser(t *testing.T) {
	sessions, db := newTestSessionService(t)
	ctx := context.Background()
	user := createServiceTestUser(t, db, "start@x.com")

	session, token, err := sessions.Start(ctx, &user.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session.UserID == nil || *session.UserID != user.ID {
		t.Fatalf("expected session bound to user %d, got %v", user.ID, session.UserID)
	}

	resolved, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.UserID == nil || *resolved.UserID != user.ID {
		t.Fatalf("expected resolved session bound to user %d, got %v", user.ID, resolved.UserID)
	}
}

func TestSessionService_Resolve_GarbageToken(t *testing.T) {
	sessions, _ := newTestSessionService(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := sessions.Resolve(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestSessionService_Resolve_WrongSecret(t *testing.T) {
	sessions, db := newTestSessionService(t)
	ctx := context.Background()

	other := service.NewSessionService(db.Sessions(), "a-completely-different-32-char-secret!!")
	_, token, err := other.Start(ctx, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for token signed with another secret, got %v", err)
	}
}

func TestSessionService_Resolve_UnknownSession(t *testing.T) {
	sessions, _ := newTestSessionService(t)
	ctx := context.Background()

	session, token, err := sessions.Start(ctx, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := sessions.Destroy(ctx, session.ID); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	if _, err := sessions.Resolve(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after destroy, got %v", err)
	}
}

func TestSessionService_Authenticate(t *testing.T) {
	sessions, db := newTestSessionService(t)
	ctx := context.Background()
	user := createServiceTestUser(t, db, "auth@x.com")

	_, token, err := sessions.Start(ctx, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	session, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if err := sessions.Authenticate(ctx, session.ID, user.ID); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	resolved, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve after Authenticate: %v", err)
	}
	if resolved.UserID == nil || *resolved.UserID != user.ID {
		t.Fatalf("expected session bound to user %d, got %v", user.ID, resolved.UserID)
	}
}

func TestSessionService_FlashPopsOnce(t *testing.T) {
	sessions, _ := newTestSessionService(t)
	ctx := context.Background()

	session, _, err := sessions.Start(ctx, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := sessions.Flash(ctx, session.ID, domain.FlashSuccess, "Note added."); err != nil {
		t.Fatalf("Flash: %v", err)
	}

	flashes, err := sessions.PopFlashes(ctx, session.ID)
	if err != nil {
		t.Fatalf("PopFlashes: %v", err)
	}
	if flashes.Success != "Note added." {
		t.Fatalf("expected success flash, got %+v", flashes)
	}

	flashes, err = sessions.PopFlashes(ctx, session.ID)
	if err != nil {
		t.Fatalf("second PopFlashes: %v", err)
	}
	if flashes != (domain.Flashes{}) {
		t.Fatalf("expected cleared flashes, got %+v", flashes)
	}
}

func TestSessionService_PruneExpired(t *testing.T) {
	sessions, db := newTestSessionService(t)
	ctx := context.Background()

	expired := &domain.Session{ID: uuid.NewString(), ExpiresAt: time.Now().UTC().Add(-time.Minute)}
	if err := db.Sessions().Create(ctx, expired); err != nil {
		t.Fatalf("create expired session: %v", err)
	}
	live, _, err := sessions.Start(ctx, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	pruned, err := sessions.PruneExpired(ctx)
	if err != nil {
		t.Fatalf("PruneExpired: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned session, got %d", pruned)
	}

	if _, err := db.Sessions().GetByID(ctx, live.ID); err != nil {
		t.Fatalf("expected live session to remain: %v", err)
	}
}
