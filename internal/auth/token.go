package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType is the label returned next to every issued token.
const TokenType = "bearer"

// TokenConfig is the signing configuration, built once at startup.
type TokenConfig struct {
	Secret []byte
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// TokenService issues and verifies HS256 tokens whose subject is a username.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService copies the secret so later changes to cfg have no effect.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &TokenService{secret: secret, now: now}, nil
}

// Issue signs a token for subject that expires ttl from now. exp is carried in
// whole seconds and rounded up, so the token is valid for at least ttl.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	exp := now.Add(ttl)
	if rounded := exp.Truncate(time.Second); !rounded.Equal(exp) {
		exp = rounded.Add(time.Second)
	}
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Errors: apperr.ErrMalformedToken, apperr.ErrExpiredToken (now >= exp), apperr.ErrMissingSubject.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	// Expiry is checked below against the injected clock, so the library's
	// own time validation is switched off.
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: exp claim missing", apperr.ErrMalformedToken)
	}
	if !s.now().Before(claims.ExpiresAt.Time) {
		return "", apperr.ErrExpiredToken
	}
	if claims.Subject == "" {
		return "", apperr.ErrMissingSubject
	}
	return claims.Subject, nil
}
