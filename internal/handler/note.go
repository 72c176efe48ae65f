package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/edamiani/mynotes/internal/domain"
	"github.com/edamiani/mynotes/internal/service"
	"github.com/edamiani/mynotes/internal/view"
)

// NoteHandler handles the note CRUD routes. All of them sit behind
// RequireAuth, so a logged-in user and their session are always in context.
type NoteHandler struct {
	notes    *service.NoteService
	sessions *service.SessionService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(notes *service.NoteService, sessions *service.SessionService) *NoteHandler {
	return &NoteHandler{notes: notes, sessions: sessions}
}

// HandleAddForm renders the note creation form.
// GET /note/add
func (h *NoteHandler) HandleAddForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.NoteFormPage(newPage(r, h.sessions, "New note"), "", "", nil))
}

// HandleAdd creates a note. A blank title re-renders the form with the
// error list and the entered values.
// POST /note/add
func (h *NoteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	title := r.FormValue("title")
	text := r.FormValue("text")

	_, err := h.notes.Create(r.Context(), user.ID, title, text)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			render(w, r, http.StatusUnprocessableEntity, view.NoteFormPage(newPage(r, h.sessions, "New note"), title, text, verrs))
			return
		}
		slog.Error("create note", "error", err)
		internalError(w)
		return
	}

	h.flash(r, domain.FlashSuccess, "Note added.")
	http.Redirect(w, r, "/note/all", http.StatusSeeOther)
}

// HandleList renders the requester's notes, newest first.
// GET /note/all
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	notes, err := h.notes.ListForUser(r.Context(), user.ID)
	if err != nil {
		slog.Error("list notes", "error", err)
		internalError(w)
		return
	}

	render(w, r, http.StatusOK, view.NotesPage(newPage(r, h.sessions, "Your notes"), notes))
}

// HandleEditForm renders the edit form for a note the requester owns.
// GET /note/edit/{id}
func (h *NoteHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	note, err := h.notes.GetForEdit(r.Context(), id, user.ID)
	if err != nil {
		h.redirectNoteError(w, r, err, "load note for edit")
		return
	}

	render(w, r, http.StatusOK, view.NoteEditPage(newPage(r, h.sessions, "Edit note"), *note, nil))
}

// HandleEdit applies an edit to a note the requester owns.
// POST /note/edit/{id}
func (h *NoteHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())
	title := r.FormValue("title")
	text := r.FormValue("text")

	_, err := h.notes.Update(r.Context(), id, user.ID, title, text)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			submitted := domain.Note{ID: id, UserID: user.ID, Title: title, Text: text}
			render(w, r, http.StatusUnprocessableEntity, view.NoteEditPage(newPage(r, h.sessions, "Edit note"), submitted, verrs))
			return
		}
		h.redirectNoteError(w, r, err, "update note")
		return
	}

	h.flash(r, domain.FlashSuccess, "Note updated.")
	http.Redirect(w, r, "/note/all", http.StatusSeeOther)
}

// HandleDelete removes a note the requester owns. Deleting a note that no
// longer exists still redirects with the success notice.
// DELETE /note/delete/{id}
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	if err := h.notes.Delete(r.Context(), id, user.ID); err != nil {
		h.redirectNoteError(w, r, err, "delete note")
		return
	}

	h.flash(r, domain.FlashSuccess, "Note deleted.")
	http.Redirect(w, r, "/note/all", http.StatusSeeOther)
}

// redirectNoteError maps service errors on note routes to a flash notice
// and redirect: ownership violations go home, missing notes go back to the
// listing, anything else is a 500.
func (h *NoteHandler) redirectNoteError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		h.flash(r, domain.FlashAuthError, "You cannot access this page.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, domain.ErrNotFound):
		h.flash(r, domain.FlashError, "Note not found.")
		http.Redirect(w, r, "/note/all", http.StatusSeeOther)
	default:
		slog.Error(op, "error", err)
		internalError(w)
	}
}

func (h *NoteHandler) flash(r *http.Request, category, message string) {
	session := SessionFromContext(r.Context())
	if session == nil {
		return
	}
	if err := h.sessions.Flash(r.Context(), session.ID, category, message); err != nil {
		slog.Error("set flash", "error", err)
	}
}

func noteID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
