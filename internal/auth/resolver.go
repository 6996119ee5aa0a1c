package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
)

// TokenVerifier returns the subject of a valid token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLookup finds a user by username, returning apperr.ErrNotFound when absent.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Resolver turns a bearer token into the stored user it names.
type Resolver struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewResolver(tokens TokenVerifier, users UserLookup) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve verifies token and loads its subject. Every authentication failure
// matches apperr.ErrUnauthorized plus the reason (expired, malformed,
// missing subject, unknown user); lookup failures are returned unwrapped.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized(err)
	}

	user, err := r.users.GetByUsername(ctx, subject)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Unauthorized(apperr.ErrUnknownUser)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", subject, err)
	}
	return user, nil
}
