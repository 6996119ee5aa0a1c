package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Audit actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// CandidateService implements candidate CRUD and the filtered, paginated listing.
type CandidateService struct {
	store CandidateStore
	audit AuditStore
}

// NewCandidateService wires the store. audit may be nil.
func NewCandidateService(store CandidateStore, audit AuditStore) *CandidateService {
	return &CandidateService{store: store, audit: audit}
}

// Create stores a profile owned by ownerID. A second profile for the same
// owner fails with ErrDuplicateOwner.
func (s *CandidateService) Create(ctx context.Context, ownerID int, c models.Candidate) (*models.Candidate, error) {
	c.UserID = ownerID
	created, err := s.store.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.record(ctx, ownerID, ActionCreate, created.ID)
	return created, nil
}

func (s *CandidateService) Get(ctx context.Context, id int) (*models.Candidate, error) {
	return s.store.GetByID(ctx, id)
}

// Update replaces the mutable fields of candidate id.
func (s *CandidateService) Update(ctx context.Context, actorID, id int, c models.Candidate) (*models.Candidate, error) {
	c.ID = id
	updated, err := s.store.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, ActionUpdate, id)
	return updated, nil
}

// Delete removes candidate id and returns the removed record.
func (s *CandidateService) Delete(ctx context.Context, actorID, id int) (*models.Candidate, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.record(ctx, actorID, ActionDelete, id)
	return deleted, nil
}

// List returns page `page` of the candidates matching f, ordered by id.
// A page past the end is empty but still carries the true totals.
func (s *CandidateService) List(ctx context.Context, f models.CandidateFilter, page, pageSize int) (*models.CandidatePage, error) {
	if page < 1 {
		return nil, apperr.InvalidPagination("page", page)
	}
	if pageSize < 1 {
		return nil, apperr.InvalidPagination("page_size", pageSize)
	}

	total, err := s.store.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	// page <= totalPages keeps (page-1)*pageSize within total.
	items := []models.Candidate{}
	if page <= totalPages {
		items, err = s.store.Search(ctx, f, pageSize, (page-1)*pageSize)
		if err != nil {
			return nil, fmt.Errorf("list candidates: %w", err)
		}
	}

	return &models.CandidatePage{
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// AuditLog returns recent candidate mutations, newest first.
func (s *CandidateService) AuditLog(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	if s.audit == nil {
		return []models.AuditEntry{}, nil
	}
	return s.audit.List(ctx, limit, offset)
}

// record writes an audit entry. The mutation has already committed, so a
// failure here is logged rather than returned.
func (s *CandidateService) record(ctx context.Context, userID int, action string, candidateID int) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, userID, action, candidateID); err != nil {
		slog.Warn("audit log write failed",
			"action", action,
			"candidate_id", candidateID,
			"user_id", userID,
			"error", err)
	}
}
