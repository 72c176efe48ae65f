package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/edamiani/mynotes/internal/domain"
	"github.com/edamiani/mynotes/internal/service"
	"github.com/edamiani/mynotes/internal/view"
)

// render writes a view component with the given status code.
func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		slog.Error("render view", "error", err)
	}
}

// newPage assembles the layout data for a render, consuming any pending
// flash notices on the session.
func newPage(r *http.Request, sessions *service.SessionService, title string) view.Page {
	p := view.Page{Title: title}
	if user := UserFromContext(r.Context()); user != nil {
		p.UserName = user.Name + " " + user.Surname
	}
	if session := SessionFromContext(r.Context()); session != nil {
		flashes, err := sessions.PopFlashes(r.Context(), session.ID)
		if err != nil {
			slog.Error("pop flashes", "error", err)
		} else {
			p.Flash = flashes
		}
	}
	return p
}

// ensureSession returns the request's session, starting an anonymous one
// and setting its cookie when the visitor has none yet. Flash notices need
// a session to survive the redirect.
func ensureSession(w http.ResponseWriter, r *http.Request, sessions *service.SessionService, secure bool) (*domain.Session, error) {
	if session := SessionFromContext(r.Context()); session != nil {
		return session, nil
	}

	session, token, err := sessions.Start(r.Context(), nil)
	if err != nil {
		return nil, err
	}
	setSessionCookie(w, token, secure)
	return session, nil
}

func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours, matches the session TTL
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func internalError(w http.ResponseWriter) {
	http.Error(w, "An unexpected error occurred. Please try again.", http.StatusInternalServerError)
}
