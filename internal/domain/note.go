package domain

import (
	"context"
	"time"
)

// Note is a personal text note. Every note has exactly one owner; only the
// owner may view, edit, or delete it.
type Note struct {
	ID        int64
	UserID    int64
	Title     string
	Text      string
	CreatedAt time.Time
}

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id int64) (*Note, error)
	ListByUser(ctx context.Context, userID int64) ([]Note, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id int64) error
}
