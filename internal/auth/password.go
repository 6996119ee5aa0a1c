package auth

import (
	"errors"
	"fmt"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt. The zero value uses bcrypt.DefaultCost.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher with the given cost, falling back to the default when cost is out of range.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{Cost: cost}
}

func (h Hasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

// HashPassword returns a salted bcrypt hash. Two calls with the same input yield different hashes.
// Passwords over MaxPasswordBytes are rejected as a validation error on "password".
func (h Hasher) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", &apperr.FieldError{
			Kind:    apperr.ErrValidation,
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes),
		}
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost())
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword reports whether password matches hash. A mismatch is (false, nil);
// only a hash that bcrypt cannot parse returns an error (apperr.ErrCorruptHash).
func (h Hasher) VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", apperr.ErrCorruptHash, err)
	}
}
