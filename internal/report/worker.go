package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/candidate-hub/internal/metrics"
	"github.com/crucial707/candidate-hub/internal/models"
)

// failureMessage is what clients see for a failed task; details stay in the logs.
const failureMessage = "report generation failed"

// markTimeout bounds recording a task outcome after ctx may have been cancelled.
const markTimeout = 5 * time.Second

// TaskQueue is the worker's view of the Redis queue.
type TaskQueue interface {
	Next(ctx context.Context, timeout time.Duration) (string, error)
	MarkRunning(ctx context.Context, id string) error
	MarkSuccess(ctx context.Context, id, artifactKey string, rows int) error
	MarkFailed(ctx context.Context, id, reason string) error
}

// Worker pulls task ids off the queue and turns each into a CSV artifact.
type Worker struct {
	Queue  TaskQueue
	Source Source
	Store  Store

	// PollTimeout bounds each blocking pop so shutdown is noticed promptly.
	PollTimeout time.Duration
	// RetryDelay is the pause after a queue error.
	RetryDelay time.Duration
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	poll := w.PollTimeout
	if poll <= 0 {
		poll = 5 * time.Second
	}
	retry := w.RetryDelay
	if retry <= 0 {
		retry = time.Second
	}

	slog.Info("report worker started", "poll_timeout", poll)
	for {
		if ctx.Err() != nil {
			slog.Info("report worker stopped")
			return nil
		}

		id, err := w.Queue.Next(ctx, poll)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			slog.Error("report queue pop failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(retry):
			}
			continue
		}
		if id == "" {
			continue
		}

		if err := w.Process(ctx, id); err != nil {
			slog.Error("report task failed", "task_id", id, "error", err)
		}
	}
}

// Process generates the report for one task and records the outcome on the task.
func (w *Worker) Process(ctx context.Context, id string) error {
	metrics.IncReportJobsRunning()
	defer metrics.DecReportJobsRunning()

	start := time.Now()
	if err := w.Queue.MarkRunning(ctx, id); err != nil {
		metrics.IncReportJobsTotal(models.ReportFailed)
		return err
	}

	key, rows, err := w.generate(ctx, id)

	// Outcomes are recorded even when shutdown cancelled ctx, so tasks do
	// not sit in running until their TTL.
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()

	if err == nil {
		if err = w.Queue.MarkSuccess(markCtx, id, key, rows); err != nil {
			err = fmt.Errorf("mark success: %w", err)
		}
	}
	if err != nil {
		metrics.IncReportJobsTotal(models.ReportFailed)
		if markErr := w.Queue.MarkFailed(markCtx, id, failureMessage); markErr != nil {
			slog.Error("mark report failed", "task_id", id, "error", markErr)
		}
		return err
	}
	metrics.IncReportJobsTotal(models.ReportSuccess)
	slog.Info("report generated",
		"task_id", id,
		"rows", rows,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) generate(ctx context.Context, id string) (string, int, error) {
	var buf bytes.Buffer
	rows, err := WriteCSV(ctx, &buf, w.Source)
	if err != nil {
		return "", 0, fmt.Errorf("write csv: %w", err)
	}

	key := ArtifactKey(id)
	if err := w.Store.Put(ctx, key, buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("store artifact: %w", err)
	}
	return key, rows, nil
}
