package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edamiani/mynotes/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AuthService handles user registration and credential verification.
type AuthService struct {
	users      domain.UserRepository
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, bcryptCost int) *AuthService {
	return &AuthService{users: users, bcryptCost: bcryptCost}
}

// Register creates a new user account. Every failed check is collected into
// the returned domain.ValidationErrors so the form can list them all.
func (s *AuthService) Register(ctx context.Context, name, surname, email, password, confirmPassword string) (*domain.User, error) {
	var verrs domain.ValidationErrors

	if strings.TrimSpace(name) == "" {
		verrs = append(verrs, domain.ValidationError{Text: "Name is required"})
	}
	if strings.TrimSpace(surname) == "" {
		verrs = append(verrs, domain.ValidationError{Text: "Surname is required"})
	}
	if strings.TrimSpace(email) == "" {
		verrs = append(verrs, domain.ValidationError{Text: "Email is required"})
	}
	if len(password) < minPasswordLength {
		verrs = append(verrs, domain.ValidationError{Text: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)})
	}
	if password != confirmPassword {
		verrs = append(verrs, domain.ValidationError{Text: "Passwords do not match"})
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Surname:      strings.TrimSpace(surname),
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the email/password pair and returns the matching user.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
