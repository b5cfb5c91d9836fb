package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pavel-2009/ai-task-assistant/internal/auth"
	dom "github.com/pavel-2009/ai-task-assistant/internal/domain"
	"github.com/pavel-2009/ai-task-assistant/internal/repo"
	"github.com/pavel-2009/ai-task-assistant/internal/utils"

	"github.com/jackc/pgx/v5"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")

// UserService handles user auth logic.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// ValidateCredentials checks username and password; returns user if valid.
// Unknown user and wrong password are indistinguishable to the caller.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !auth.CheckPassword(password, u.PasswordHash) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// GetByID returns the user by ID. Used by the auth gate to re-check that a
// token's user still exists.
func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}
