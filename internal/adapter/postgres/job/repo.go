// Package job implements the background job broker using PostgreSQL.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

const columns = `id, queue, payload, status, attempts, max_attempts, run_at, last_error, created_at, updated_at`

// Repo provides job persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new job repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type jobRow struct {
	ID          uuid.UUID       `db:"id"`
	Queue       string          `db:"queue"`
	Payload     json.RawMessage `db:"payload"`
	Status      string          `db:"status"`
	Attempts    int             `db:"attempts"`
	MaxAttempts int             `db:"max_attempts"`
	RunAt       time.Time       `db:"run_at"`
	LastError   *string         `db:"last_error"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Enqueue inserts a pending job that becomes claimable at runAt.
func (r *Repo) Enqueue(ctx context.Context, queue string, payload json.RawMessage, maxAttempts int, runAt time.Time) (*domain.Job, error) {
	var row jobRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`INSERT INTO jobs (queue, payload, max_attempts, run_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+columns,
		queue, payload, maxAttempts, runAt,
	)
	if err != nil {
		return nil, fmt.Errorf("job.Enqueue: %w", postgres.MapError(err, "job", queue))
	}
	j := toDomain(row)
	return &j, nil
}

// Claim atomically moves up to limit due pending jobs of a queue to running
// and increments their attempt counter. Concurrent claimers never receive the
// same job.
func (r *Repo) Claim(ctx context.Context, queue string, limit int) ([]domain.Job, error) {
	var rows []jobRow
	err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows,
		`UPDATE jobs SET status = 'running', attempts = attempts + 1, updated_at = now()
		 WHERE id IN (
		     SELECT id FROM jobs
		     WHERE queue = $1 AND status = 'pending' AND run_at <= now()
		     ORDER BY run_at
		     LIMIT $2
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING `+columns,
		queue, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("job.Claim: %w", err)
	}
	return toDomainJobs(rows), nil
}

// MarkDone marks a job as successfully processed.
func (r *Repo) MarkDone(ctx context.Context, id uuid.UUID) error {
	_, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE jobs SET status = 'done', last_error = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("job.MarkDone: %w", err)
	}
	return nil
}

// Reschedule returns a job to pending for another attempt at runAt.
func (r *Repo) Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, errMsg string) error {
	_, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE jobs SET status = 'pending', run_at = $2, last_error = $3, updated_at = now() WHERE id = $1`,
		id, runAt, errMsg)
	if err != nil {
		return fmt.Errorf("job.Reschedule: %w", err)
	}
	return nil
}

// MarkFailed marks a job as permanently failed with an error message.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE jobs SET status = 'failed', last_error = $2, updated_at = now() WHERE id = $1`,
		id, errMsg)
	if err != nil {
		return fmt.Errorf("job.MarkFailed: %w", err)
	}
	return nil
}

// ResetRunning returns jobs claimed before staleBefore and still running to
// pending. Jobs claimed more recently may belong to a live worker and are
// left alone.
func (r *Repo) ResetRunning(ctx context.Context, staleBefore time.Time) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE jobs SET status = 'pending', updated_at = now()
		 WHERE status = 'running' AND updated_at < $1`, staleBefore)
	if err != nil {
		return 0, fmt.Errorf("job.ResetRunning: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RetryAllFailed resets all failed jobs to pending with a fresh attempt budget.
func (r *Repo) RetryAllFailed(ctx context.Context) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE jobs SET status = 'pending', attempts = 0, run_at = now(), updated_at = now() WHERE status = 'failed'`)
	if err != nil {
		return 0, fmt.Errorf("job.RetryAllFailed: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteFinishedBefore removes done and failed jobs last updated before cutoff.
func (r *Repo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`DELETE FROM jobs WHERE status IN ('done', 'failed') AND updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("job.DeleteFinishedBefore: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Stats returns per-queue counts by status.
func (r *Repo) Stats(ctx context.Context) ([]domain.JobStats, error) {
	var stats []domain.JobStats
	err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &stats,
		`SELECT queue,
		        count(*) FILTER (WHERE status = 'pending') AS pending,
		        count(*) FILTER (WHERE status = 'running') AS running,
		        count(*) FILTER (WHERE status = 'done')    AS done,
		        count(*) FILTER (WHERE status = 'failed')  AS failed
		 FROM jobs
		 GROUP BY queue
		 ORDER BY queue`)
	if err != nil {
		return nil, fmt.Errorf("job.Stats: %w", err)
	}
	return stats, nil
}

func toDomain(row jobRow) domain.Job {
	return domain.Job{
		ID:          row.ID,
		Queue:       row.Queue,
		Payload:     row.Payload,
		Status:      domain.JobStatus(row.Status),
		Attempts:    row.Attempts,
		MaxAttempts: row.MaxAttempts,
		RunAt:       row.RunAt,
		LastError:   row.LastError,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func toDomainJobs(rows []jobRow) []domain.Job {
	out := make([]domain.Job, len(rows))
	for i, row := range rows {
		out[i] = toDomain(row)
	}
	return out
}
