package handler

import (
	"net/http"

	"github.com/edamiani/mynotes/internal/service"
	"github.com/edamiani/mynotes/internal/view"
)

// HomeHandler renders the public pages.
type HomeHandler struct {
	sessions *service.SessionService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(sessions *service.SessionService) *HomeHandler {
	return &HomeHandler{sessions: sessions}
}

// HandleHome renders the welcome page.
// GET /
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.HomePage(newPage(r, h.sessions, "Welcome")))
}

// HandleInfo renders the static info page.
// GET /info
func (h *HomeHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusOK, view.InfoPage(newPage(r, h.sessions, "About")))
}
