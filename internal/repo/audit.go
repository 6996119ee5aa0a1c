package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/crucial707/candidate-hub/internal/models"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. action is create|update|delete.
func (r *AuditRepo) Log(ctx context.Context, userID int, action string, candidateID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, candidate_id) VALUES ($1, $2, $3)`,
		userID, action, candidateID,
	)
	if err != nil {
		return fmt.Errorf("audit %s %d: %w", action, candidateID, err)
	}
	return nil
}

// List returns recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, candidate_id, created_at FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.CandidateID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
