package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
)

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) (bool, error)
}

type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

// AuthService registers accounts and exchanges credentials for access tokens.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	ttl    time.Duration
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, ttl time.Duration) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, ttl: ttl}
}

// Register creates a user. The username is checked before hashing so a
// duplicate costs no bcrypt work; the store's unique index settles races.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, apperr.ErrDuplicateUsername
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, fmt.Errorf("register %q: %w", username, err)
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", username, err)
	}

	return s.users.Create(ctx, username, hash)
}

// Login returns a signed access token for valid credentials. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", apperr.Unauthorized(apperr.ErrBadCredentials)
	}
	if err != nil {
		return "", fmt.Errorf("login %q: %w", username, err)
	}

	ok, err := s.hasher.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("login %q: %w", username, err)
	}
	if !ok {
		return "", apperr.Unauthorized(apperr.ErrBadCredentials)
	}

	return s.tokens.Issue(user.Username, s.ttl)
}
