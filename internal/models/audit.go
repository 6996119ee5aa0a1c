package models

import "time"

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Action      string    `json:"action"` // create, update, delete
	CandidateID int       `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}
