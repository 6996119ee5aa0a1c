package models

import "time"

// Report task states, in lifecycle order.
const (
	ReportPending = "pending"
	ReportRunning = "running"
	ReportSuccess = "success"
	ReportFailed  = "failed"
)

// ReportTask tracks one asynchronous CSV report.
type ReportTask struct {
	ID          string     `json:"task_id"`
	Status      string     `json:"status"`
	RequestedBy int        `json:"requested_by"`
	Rows        int        `json:"rows,omitempty"`
	ArtifactKey string     `json:"-"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
