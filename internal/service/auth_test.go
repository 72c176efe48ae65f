package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edamiani/mynotes/internal/domain"
	"github.com/edamiani/mynotes/internal/repository/sqlite"
	"github.com/edamiani/mynotes/internal/service"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	return service.NewAuthService(db.Users(), 4), db
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Jo", "Doe", "jo@x.com", "secret", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.Email != "jo@x.com" {
		t.Fatalf("expected email jo@x.com, got %s", user.Email)
	}
	if user.PasswordHash == "secret" || user.PasswordHash == "" {
		t.Fatal("expected password to be hashed")
	}
}

func TestAuthService_Register_PasswordTooShort(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	// Five characters fails, six succeeds.
	_, err := auth.Register(ctx, "Jo", "Doe", "short@x.com", "five5", "five5")
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 1 || !strings.Contains(verrs[0].Text, "at least 6") {
		t.Fatalf("unexpected validation errors: %+v", verrs)
	}

	if _, err := auth.Register(ctx, "Jo", "Doe", "short@x.com", "sixsix", "sixsix"); err != nil {
		t.Fatalf("expected six-character password to pass, got %v", err)
	}
}

func TestAuthService_Register_CollectsAllErrors(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "", "", "", "abc", "abcd")
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	// Blank name, surname, email, short password, and mismatch.
	if len(verrs) != 5 {
		t.Fatalf("expected 5 validation errors, got %d: %+v", len(verrs), verrs)
	}
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Jo", "Doe", "mismatch@x.com", "secret", "secret2")
	var verrs domain.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "Jo", "Doe", "dup@x.com", "secret", "secret"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := auth.Register(ctx, "Flo", "Roe", "dup@x.com", "secret2", "secret2")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "Jo", "Doe", "login@x.com", "secret", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := auth.Login(ctx, "login@x.com", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "Jo", "Doe", "wrong@x.com", "secret", "secret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := auth.Login(ctx, "wrong@x.com", "not-the-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.Login(context.Background(), "nobody@x.com", "secret")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
