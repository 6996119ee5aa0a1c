package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/crucial707/candidate-hub/internal/respond"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	// DB is nil in memory mode, which is always ready.
	DB      Pinger
	Started time.Time
}

// Health reports liveness and uptime. It never touches dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"uptime":  time.Since(h.Started).Truncate(time.Second).String(),
		"message": "candidate-hub API is running",
	})
}

// Ready pings the database with a short timeout.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			respond.Error(w, http.StatusServiceUnavailable, "not_ready", "database unreachable")
			return
		}
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
