package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/crucial707/candidate-hub/internal/apperr"
	"github.com/crucial707/candidate-hub/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queueKey      = "report:queue"
	taskKeyPrefix = "report:task:"

	// DefaultTaskTTL is how long task status stays readable after the last update.
	DefaultTaskTTL = 24 * time.Hour
)

func taskKey(id string) string { return taskKeyPrefix + id }

// Queue keeps report task state in Redis hashes and hands task ids to
// workers through a Redis list.
type Queue struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

func NewQueue(rdb *redis.Client, ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTaskTTL
	}
	return &Queue{rdb: rdb, ttl: ttl, now: time.Now}
}

// Enqueue records a pending task and pushes it on the work queue atomically.
func (q *Queue) Enqueue(ctx context.Context, requestedBy int) (*models.ReportTask, error) {
	t := &models.ReportTask{
		ID:          uuid.NewString(),
		Status:      models.ReportPending,
		RequestedBy: requestedBy,
		CreatedAt:   q.now().UTC(),
	}
	key := taskKey(t.ID)

	_, err := q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"status", t.Status,
			"requested_by", t.RequestedBy,
			"created_at", t.CreatedAt.Format(time.RFC3339Nano),
		)
		p.Expire(ctx, key, q.ttl)
		p.LPush(ctx, queueKey, t.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enqueue report: %w", err)
	}
	return t, nil
}

// Get returns the task with the given id, or ErrNotFound when it never
// existed or has expired.
func (q *Queue) Get(ctx context.Context, id string) (*models.ReportTask, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.ErrNotFound
	}

	vals, err := q.rdb.HGetAll(ctx, taskKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	if len(vals) == 0 {
		return nil, apperr.ErrNotFound
	}
	return decodeTask(id, vals)
}

// Next blocks up to timeout for a task id. It returns "" when nothing arrived.
func (q *Queue) Next(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := q.rdb.BRPop(ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	// BRPOP replies with [list, value].
	return res[1], nil
}

func (q *Queue) MarkRunning(ctx context.Context, id string) error {
	return q.update(ctx, id, "status", models.ReportRunning)
}

func (q *Queue) MarkSuccess(ctx context.Context, id, artifactKey string, rows int) error {
	return q.update(ctx, id,
		"status", models.ReportSuccess,
		"artifact_key", artifactKey,
		"rows", rows,
		"completed_at", q.now().UTC().Format(time.RFC3339Nano),
	)
}

func (q *Queue) MarkFailed(ctx context.Context, id, reason string) error {
	return q.update(ctx, id,
		"status", models.ReportFailed,
		"error", reason,
		"completed_at", q.now().UTC().Format(time.RFC3339Nano),
	)
}

func (q *Queue) update(ctx context.Context, id string, fields ...any) error {
	key := taskKey(id)
	_, err := q.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, fields...)
		p.Expire(ctx, key, q.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	return nil
}

func decodeTask(id string, vals map[string]string) (*models.ReportTask, error) {
	t := &models.ReportTask{
		ID:          id,
		Status:      vals["status"],
		ArtifactKey: vals["artifact_key"],
		Error:       vals["error"],
	}
	var err error
	if v := vals["requested_by"]; v != "" {
		if t.RequestedBy, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("report %s: requested_by: %w", id, err)
		}
	}
	if v := vals["rows"]; v != "" {
		if t.Rows, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("report %s: rows: %w", id, err)
		}
	}
	if v := vals["created_at"]; v != "" {
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, v); err != nil {
			return nil, fmt.Errorf("report %s: created_at: %w", id, err)
		}
	}
	if v := vals["completed_at"]; v != "" {
		done, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("report %s: completed_at: %w", id, err)
		}
		t.CompletedAt = &done
	}
	return t, nil
}
