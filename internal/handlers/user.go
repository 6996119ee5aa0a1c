package handlers

import (
	"net/http"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/middleware"
	"github.com/crucial707/candidate-hub/internal/respond"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct{}

// ==========================
// Me
// ==========================
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		JSONError(w, r, apperr.ErrUnauthorized)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
