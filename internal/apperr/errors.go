// Package apperr holds the error kinds shared by the auth, repo, service and
// handler layers. Callers match with errors.Is; the HTTP layer maps each kind
// to a stable code and status.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// authentication
	ErrUnauthorized   = errors.New("unauthorized")
	ErrExpiredToken   = errors.New("token expired")
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingSubject = errors.New("token subject missing")
	ErrUnknownUser    = errors.New("unknown user")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrCorruptHash    = errors.New("corrupt password hash")

	// validation
	ErrInvalidPagination = errors.New("invalid pagination")
	ErrValidation        = errors.New("validation failed")

	// lookup / conflict
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateOwner    = errors.New("user already owns a candidate profile")

	// reports
	ErrReportNotReady = errors.New("report is not yet ready")
)

// Unauthorized wraps reason so that both ErrUnauthorized and reason match errors.Is.
func Unauthorized(reason error) error {
	if reason == nil {
		return ErrUnauthorized
	}
	return fmt.Errorf("%w: %w", ErrUnauthorized, reason)
}

// FieldError ties a failure kind to the input field that caused it.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return e.Kind }

// InvalidPagination reports which pagination parameter was rejected.
func InvalidPagination(field string, value int) error {
	return &FieldError{
		Kind:    ErrInvalidPagination,
		Field:   field,
		Message: fmt.Sprintf("must be >= 1, got %d", value),
	}
}
