package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError is a single user-facing form validation message.
type ValidationError struct {
	Text string
}

// ValidationErrors collects every failed check for a submitted form so the
// re-rendered page can list them all at once.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Text
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}
