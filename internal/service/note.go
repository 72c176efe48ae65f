package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edamiani/mynotes/internal/domain"
)

// NoteService handles note CRUD scoped to the owning user.
type NoteService struct {
	notes domain.NoteRepository
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes domain.NoteRepository) *NoteService {
	return &NoteService{notes: notes}
}

// Create validates and persists a new note for the owner.
func (s *NoteService) Create(ctx context.Context, ownerID int64, title, text string) (*domain.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	note := &domain.Note{
		UserID: ownerID,
		Title:  strings.TrimSpace(title),
		Text:   text,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// ListForUser returns the owner's notes, newest first.
func (s *NoteService) ListForUser(ctx context.Context, ownerID int64) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, ownerID)
}

// GetForEdit fetches a note for editing. A requester who is not the owner
// gets domain.ErrUnauthorized before anything is returned.
func (s *NoteService) GetForEdit(ctx context.Context, noteID, requesterID int64) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != requesterID {
		return nil, domain.ErrUnauthorized
	}
	return note, nil
}

// Update overwrites a note's title and text. The ownership check runs
// before validation, and the title is validated exactly like on create.
func (s *NoteService) Update(ctx context.Context, noteID, requesterID int64, title, text string) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != requesterID {
		return nil, domain.ErrUnauthorized
	}

	if err := validateTitle(title); err != nil {
		return nil, err
	}

	note.Title = strings.TrimSpace(title)
	note.Text = text
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// Delete removes a note owned by the requester. Deleting a note that does
// not exist is a no-op.
func (s *NoteService) Delete(ctx context.Context, noteID, requesterID int64) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if note.UserID != requesterID {
		return domain.ErrUnauthorized
	}

	return s.notes.Delete(ctx, noteID)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return domain.ValidationErrors{{Text: "Give your note a title"}}
	}
	return nil
}
