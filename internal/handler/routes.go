package handler

import (
	"net/http"

	"github.com/edamiani/mynotes/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Note routes are
// wrapped in RequireAuth; everything else is public.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, notes *service.NoteService, sessions *service.SessionService, cookieSecure bool) {
	home := NewHomeHandler(sessions)
	authHandler := NewAuthHandler(auth, sessions, cookieSecure)
	noteHandler := NewNoteHandler(notes, sessions)

	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("GET /{$}", home.HandleHome)
	mux.HandleFunc("GET /info", home.HandleInfo)

	mux.HandleFunc("GET /login", authHandler.HandleLoginForm)
	mux.HandleFunc("POST /login", authHandler.HandleLogin)
	mux.HandleFunc("GET /signin", authHandler.HandleSigninForm)
	mux.HandleFunc("POST /signin", authHandler.HandleSignin)
	mux.HandleFunc("GET /logout", authHandler.HandleLogout)

	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(sessions, cookieSecure, h)
	}
	mux.Handle("GET /note/add", protected(noteHandler.HandleAddForm))
	mux.Handle("POST /note/add", protected(noteHandler.HandleAdd))
	mux.Handle("GET /note/all", protected(noteHandler.HandleList))
	mux.Handle("GET /note/edit/{id}", protected(noteHandler.HandleEditForm))
	mux.Handle("POST /note/edit/{id}", protected(noteHandler.HandleEdit))
	mux.Handle("DELETE /note/delete/{id}", protected(noteHandler.HandleDelete))
}
