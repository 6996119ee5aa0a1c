package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/middleware"
	"github.com/crucial707/candidate-hub/internal/models"
	"github.com/crucial707/candidate-hub/internal/report"
	"github.com/crucial707/candidate-hub/internal/respond"
	"github.com/go-chi/chi/v5"
)

// ReportFilename is the download name of every generated report.
const ReportFilename = "candidates_report.csv"

// ReportQueue is the API's view of the report task queue.
type ReportQueue interface {
	Enqueue(ctx context.Context, requestedBy int) (*models.ReportTask, error)
	Get(ctx context.Context, id string) (*models.ReportTask, error)
}

// ==========================
// ReportHandler
// ==========================
type ReportHandler struct {
	Queue ReportQueue
	Store report.Store
}

// ==========================
// Generate Report
// ==========================
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, r, apperr.ErrUnauthorized)
		return
	}

	task, err := h.Queue.Enqueue(r.Context(), user.ID)
	if err != nil {
		JSONError(w, r, err)
		return
	}

	w.Header().Set("Location", "/reports/"+task.ID)
	respond.JSON(w, http.StatusAccepted, task)
}

// ==========================
// Report Status
// ==========================
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	task, err := h.Queue.Get(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		JSONError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

// ==========================
// Download Report
// ==========================
func (h *ReportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	task, err := h.Queue.Get(r.Context(), chi.URLParam(r, "task_id"))
	if err != nil {
		JSONError(w, r, err)
		return
	}
	if task.Status != models.ReportSuccess {
		JSONError(w, r, apperr.ErrReportNotReady)
		return
	}

	rc, err := h.Store.Open(r.Context(), task.ArtifactKey)
	if err != nil {
		JSONError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ReportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("report download interrupted", "task_id", task.ID, "error", err)
	}
}
