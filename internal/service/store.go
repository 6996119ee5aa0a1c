// Package service holds the account and candidate use cases. Handlers call
// into it; persistence is reached only through the store interfaces below,
// which the SQL and in-memory repos both satisfy.
package service

import (
	"context"

	"github.com/crucial707/candidate-hub/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type CandidateStore interface {
	Create(ctx context.Context, c models.Candidate) (*models.Candidate, error)
	GetByID(ctx context.Context, id int) (*models.Candidate, error)
	Update(ctx context.Context, c models.Candidate) (*models.Candidate, error)
	Delete(ctx context.Context, id int) (*models.Candidate, error)
	Search(ctx context.Context, f models.CandidateFilter, limit, offset int) ([]models.Candidate, error)
	Count(ctx context.Context, f models.CandidateFilter) (int, error)
	// ForEach is the read-only enumeration used by report generation.
	ForEach(ctx context.Context, fn func(models.Candidate) error) error
}

type AuditStore interface {
	Log(ctx context.Context, userID int, action string, candidateID int) error
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}
