package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edamiani/mynotes/internal/domain"
)

// sessionRepo implements domain.SessionRepository using SQLite.
type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Create(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?)`,
		session.ID, session.UserID, now, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	session.CreatedAt = now
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	s := &domain.Session{}
	var userID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &userID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query session by id: %w", err)
	}
	if userID.Valid {
		s.UserID = &userID.Int64
	}
	return s, nil
}

func (r *sessionRepo) SetUser(ctx context.Context, id string, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET user_id = ? WHERE id = ?", userID, id,
	)
	if err != nil {
		return fmt.Errorf("set session user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) SetFlash(ctx context.Context, id, category, message string) error {
	column, err := flashColumn(category)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET "+column+" = ? WHERE id = ?", message, id,
	)
	if err != nil {
		return fmt.Errorf("set flash: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) PopFlashes(ctx context.Context, id string) (domain.Flashes, error) {
	var flashes domain.Flashes

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return flashes, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`SELECT flash_success, flash_error, flash_auth_error
		 FROM sessions WHERE id = ?`, id,
	).Scan(&flashes.Success, &flashes.Error, &flashes.AuthError)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return flashes, domain.ErrNotFound
		}
		return flashes, fmt.Errorf("query flashes: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE sessions SET flash_success = '', flash_error = '', flash_auth_error = ''
		 WHERE id = ?`, id,
	)
	if err != nil {
		return flashes, fmt.Errorf("clear flashes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return flashes, fmt.Errorf("commit: %w", err)
	}
	return flashes, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	// Deleting an unknown session is a no-op; logout is idempotent.
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return affected, nil
}

func flashColumn(category string) (string, error) {
	switch category {
	case domain.FlashSuccess:
		return "flash_success", nil
	case domain.FlashError:
		return "flash_error", nil
	case domain.FlashAuthError:
		return "flash_auth_error", nil
	default:
		return "", fmt.Errorf("unknown flash category %q", category)
	}
}
