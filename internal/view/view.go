package view

import "github.com/edamiani/mynotes/internal/domain"

// Page carries the layout-level data every rendered view needs: the page
// title, the logged-in user's display name, and the flash notices popped
// for this render.
type Page struct {
	Title    string
	UserName string
	Flash    domain.Flashes
}

// LoggedIn reports whether a user is bound to the current session.
func (p Page) LoggedIn() bool {
	return p.UserName != ""
}

// SigninForm holds previously entered registration values so a failed
// submission re-renders with them filled in. Passwords are never echoed.
type SigninForm struct {
	Name    string
	Surname string
	Email   string
}
