package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/edamiani/mynotes/internal/domain"
	"github.com/edamiani/mynotes/internal/service"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	userContextKey    contextKey = "user"
)

const sessionCookieName = "session_token"

// SessionFromContext extracts the resolved session from the request context.
// Returns nil if the request carried no valid session cookie.
func SessionFromContext(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionContextKey).(*domain.Session)
	return session
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is logged in on the session.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// WithSession resolves the session cookie on every request and injects the
// session, and the logged-in user when one is bound, into the request
// context. Requests without a valid cookie pass through untouched.
func WithSession(sessions *service.SessionService, auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if session, err := sessions.Resolve(r.Context(), cookie.Value); err == nil {
				ctx := context.WithValue(r.Context(), sessionContextKey, session)
				if session.UserID != nil {
					if user, err := auth.GetUserByID(ctx, *session.UserID); err == nil {
						ctx = context.WithValue(ctx, userContextKey, user)
					}
				}
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth guards routes that need a logged-in user. Unauthenticated
// requests get an auth-error flash and a redirect to the welcome page.
func RequireAuth(sessions *service.SessionService, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		session, err := ensureSession(w, r, sessions, cookieSecure)
		if err != nil {
			slog.Error("start session for auth redirect", "error", err)
		} else if err := sessions.Flash(r.Context(), session.ID, domain.FlashAuthError, "Please log in to access this page."); err != nil {
			slog.Error("flash auth error", "error", err)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

// MethodOverride lets HTML forms issue non-POST verbs through a hidden
// _method field, the way the delete button on the note listing does.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := r.ParseForm(); err == nil {
				switch m := r.PostForm.Get("_method"); m {
				case http.MethodPut, http.MethodPatch, http.MethodDelete:
					r.Method = m
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
