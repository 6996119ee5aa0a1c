package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/candidate-hub/internal/respond"
	"github.com/crucial707/candidate-hub/internal/service"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Candidates *service.CandidateService
}

// ListAudit returns recent candidate mutations. Query: limit (default 50, max 200), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Candidates.AuditLog(r.Context(), limit, offset)
	if err != nil {
		JSONError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, entries)
}
