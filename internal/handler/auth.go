package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/edamiani/mynotes/internal/domain"
	"github.com/edamiani/mynotes/internal/service"
	"github.com/edamiani/mynotes/internal/view"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookieSecure: cookieSecure}
}

// HandleLoginForm renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.LoginPage(newPage(r, h.sessions, "Login"), ""))
}

// HandleLogin verifies credentials. Success binds the user to a fresh
// session and redirects to the note listing; failure flashes an error and
// redirects back to the login form.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			session, serr := ensureSession(w, r, h.sessions, h.cookieSecure)
			if serr != nil {
				slog.Error("start session for login flash", "error", serr)
			} else if ferr := h.sessions.Flash(r.Context(), session.ID, domain.FlashError, "Invalid email or password."); ferr != nil {
				slog.Error("flash login error", "error", ferr)
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.Error("login user", "error", err)
		internalError(w)
		return
	}

	// Issue a fresh session on login rather than reusing the anonymous one.
	if old := SessionFromContext(r.Context()); old != nil {
		if err := h.sessions.Destroy(r.Context(), old.ID); err != nil {
			slog.Error("destroy pre-login session", "error", err)
		}
	}

	userID := user.ID
	_, token, err := h.sessions.Start(r.Context(), &userID)
	if err != nil {
		slog.Error("start authenticated session", "error", err)
		internalError(w)
		return
	}

	setSessionCookie(w, token, h.cookieSecure)
	http.Redirect(w, r, "/note/all", http.StatusSeeOther)
}

// HandleSigninForm renders the registration form.
// GET /signin
func (h *AuthHandler) HandleSigninForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.SigninPage(newPage(r, h.sessions, "Sign in"), view.SigninForm{}, nil))
}

// HandleSignin registers a new user. Validation failures re-render the form
// with the error list and the entered values; success flashes a notice and
// redirects to the login form.
// POST /signin
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	form := view.SigninForm{
		Name:    r.FormValue("name"),
		Surname: r.FormValue("surname"),
		Email:   r.FormValue("email"),
	}

	_, err := h.auth.Register(r.Context(), form.Name, form.Surname, form.Email,
		r.FormValue("password"), r.FormValue("confirmPwd"))
	if err != nil {
		var verrs domain.ValidationErrors
		switch {
		case errors.As(err, &verrs):
		case errors.Is(err, domain.ErrDuplicateEmail):
			verrs = domain.ValidationErrors{{Text: "Email is already registered"}}
		default:
			slog.Error("register user", "error", err)
			internalError(w)
			return
		}
		render(w, r, http.StatusUnprocessableEntity, view.SigninPage(newPage(r, h.sessions, "Sign in"), form, verrs))
		return
	}

	session, serr := ensureSession(w, r, h.sessions, h.cookieSecure)
	if serr != nil {
		slog.Error("start session for signin flash", "error", serr)
	} else if ferr := h.sessions.Flash(r.Context(), session.ID, domain.FlashSuccess, "Registration completed successfully."); ferr != nil {
		slog.Error("flash signin success", "error", ferr)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogout ends the session and redirects home.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session := SessionFromContext(r.Context()); session != nil {
		if err := h.sessions.Destroy(r.Context(), session.ID); err != nil {
			slog.Error("destroy session on logout", "error", err)
		}
	}
	clearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
