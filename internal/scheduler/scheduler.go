package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/candidate-hub/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Sweeper removes report artifacts last modified before cutoff.
type Sweeper interface {
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

// Start schedules a retention sweep on schedule (standard cron or @every syntax)
// and runs one immediately. The returned cron is already started; stop it on shutdown.
func Start(ctx context.Context, schedule string, sweeper Sweeper, retention time.Duration) (*cron.Cron, error) {
	c := cron.New()
	sweep := func() { SweepOnce(ctx, sweeper, retention, time.Now()) }

	if _, err := c.AddFunc(schedule, sweep); err != nil {
		return nil, fmt.Errorf("scheduler: invalid sweep schedule %q: %w", schedule, err)
	}
	slog.Info("scheduler: retention sweep scheduled", "schedule", schedule, "retention", retention)

	// Initial sweep
	sweep()
	c.Start()
	return c, nil
}

// SweepOnce deletes artifacts older than retention as of now.
func SweepOnce(ctx context.Context, sweeper Sweeper, retention time.Duration, now time.Time) int {
	if ctx.Err() != nil {
		return 0
	}
	n, err := sweeper.Sweep(ctx, now.Add(-retention))
	if err != nil {
		slog.Error("scheduler: retention sweep failed", "error", err, "removed", n)
	}
	if n > 0 {
		metrics.AddReportArtifactsSwept(n)
		slog.Info("scheduler: removed expired reports", "count", n)
	}
	return n
}
