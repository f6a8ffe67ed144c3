// Package service provides business logic for accounts and to-do lists,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/avelichko/todolist/internal/apperror"
	"github.com/avelichko/todolist/internal/models"
	"github.com/avelichko/todolist/internal/validation"
)

// UserRepository defines the persistence operations needed by the AuthService.
type UserRepository interface {
	// Create inserts a new user; a duplicate username yields a Conflict error.
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	// ByUsername fetches a user by username.
	ByUsername(ctx context.Context, username string) (*models.User, error)
	// ByID fetches a user by id.
	ByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthService implements signup and credential verification.
type AuthService struct {
	repo UserRepository
}

// NewAuthService constructs an AuthService with the provided UserRepository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// SignUp creates a new account. The password policy is re-checked here
// unconditionally so no caller path can persist a weak password, and the
// password is stored only as a bcrypt hash.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (*models.User, error) {
	if msg := validation.PasswordPolicy(password); msg != "" {
		return nil, apperror.NewValidation(msg, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, username, strings.ToLower(email), string(hash))
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords produce the same Auth error so callers cannot tell which
// check failed.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.ByUsername(ctx, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuth("invalid credentials", nil)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperror.NewAuth("invalid credentials", nil)
	}
	return user, nil
}
