// Package queue runs typed background jobs on top of the jobs table.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/flipflop-backend/internal/config"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// Queue names.
const (
	Sync    = "sync"
	Email   = "email"
	Meeting = "meeting"
)

type jobStore interface {
	Enqueue(ctx context.Context, queue string, payload json.RawMessage, maxAttempts int, runAt time.Time) (*domain.Job, error)
	Claim(ctx context.Context, queue string, limit int) ([]domain.Job, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, errMsg string) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	ResetRunning(ctx context.Context, staleBefore time.Time) (int, error)
	RetryAllFailed(ctx context.Context) (int, error)
	Stats(ctx context.Context) ([]domain.JobStats, error)
}

// Handler processes one job. Returning an error schedules a retry unless the
// error is Permanent or the attempt budget is spent.
type Handler func(ctx context.Context, job domain.Job) error

// FailedFunc is called once a job will not be attempted again.
type FailedFunc func(ctx context.Context, job domain.Job, err error)

type registration struct {
	handler  Handler
	onFailed FailedFunc
}

// Broker enqueues jobs and runs one poller per registered queue.
type Broker struct {
	store        jobStore
	policies     map[string]config.QueuePolicy
	pollInterval time.Duration
	staleAfter   time.Duration
	handlers     map[string]registration
	now          func() time.Time
	log          *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewBroker creates a Broker with the per-queue policies from cfg.
func NewBroker(store jobStore, cfg config.QueueConfig, logger *slog.Logger) *Broker {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = config.DefaultStaleAfter
	}
	return &Broker{
		store: store,
		policies: map[string]config.QueuePolicy{
			Sync:    cfg.Sync,
			Email:   cfg.Email,
			Meeting: cfg.Meeting,
		},
		pollInterval: interval,
		staleAfter:   staleAfter,
		handlers:     make(map[string]registration),
		now:          time.Now,
		log:          logger.With("worker", "queue"),
	}
}

// Handle registers the handler for a queue. onFailed may be nil.
// It must be called before Run.
func (b *Broker) Handle(queue string, h Handler, onFailed FailedFunc) {
	b.handlers[queue] = registration{handler: h, onFailed: onFailed}
}

type enqueueOptions struct {
	delay    *time.Duration
	attempts int
}

// EnqueueOption customizes a single enqueue.
type EnqueueOption func(*enqueueOptions)

// WithDelay overrides the queue's initial delay.
func WithDelay(d time.Duration) EnqueueOption {
	return func(o *enqueueOptions) { o.delay = &d }
}

// Enqueue serializes payload and inserts a pending job using the queue policy.
func (b *Broker) Enqueue(ctx context.Context, queue string, payload any, opts ...EnqueueOption) (*domain.Job, error) {
	policy, ok := b.policies[queue]
	if !ok {
		return nil, fmt.Errorf("queue.Enqueue: unknown queue %q", queue)
	}

	o := enqueueOptions{attempts: policy.MaxAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	delay := policy.InitialDelay
	if o.delay != nil {
		delay = *o.delay
	}
	if o.attempts < 1 {
		o.attempts = 1
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("queue.Enqueue marshal: %w", err)
	}

	job, err := b.store.Enqueue(ctx, queue, raw, o.attempts, b.now().Add(delay))
	if err != nil {
		return nil, fmt.Errorf("queue.Enqueue: %w", err)
	}

	b.log.DebugContext(ctx, "job enqueued",
		slog.String("queue", queue),
		slog.String("job_id", job.ID.String()),
		slog.Duration("delay", delay),
	)
	return job, nil
}

// Stats returns per-queue counts by status.
func (b *Broker) Stats(ctx context.Context) ([]domain.JobStats, error) {
	return b.store.Stats(ctx)
}

// RetryFailed moves every failed job back to pending with a fresh attempt budget.
func (b *Broker) RetryFailed(ctx context.Context) (int, error) {
	n, err := b.store.RetryAllFailed(ctx)
	if err != nil {
		return 0, err
	}
	b.log.InfoContext(ctx, "failed jobs requeued", slog.Int("count", n))
	return n, nil
}

// Run polls every registered queue until ctx is cancelled. Jobs left running
// by a crashed process are returned to pending once they have not been touched
// for the stale-after window, at startup and then periodically. In-flight jobs
// finish before Run returns.
func (b *Broker) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return errors.New("queue: broker already running")
	}
	b.running = true
	b.mu.Unlock()

	if err := b.reclaimStale(ctx); err != nil {
		return fmt.Errorf("queue.Run reset running: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(b.staleAfter)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := b.reclaimStale(ctx); err != nil && ctx.Err() == nil {
					b.log.ErrorContext(ctx, "reset stale jobs", slog.String("error", err.Error()))
				}
			}
		}
	}()

	for queue, reg := range b.handlers {
		policy := b.policies[queue]
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.poll(ctx, queue, policy, reg)
		}()
	}

	b.log.InfoContext(ctx, "queue workers started", slog.Int("queues", len(b.handlers)))
	wg.Wait()
	b.log.Info("queue workers stopped")
	return nil
}

// reclaimStale returns running jobs untouched for staleAfter to pending.
// Attempts are capped at staleAfter, so a live worker never holds a job that long.
func (b *Broker) reclaimStale(ctx context.Context) error {
	n, err := b.store.ResetRunning(ctx, b.now().Add(-b.staleAfter))
	if err != nil {
		return err
	}
	if n > 0 {
		b.log.WarnContext(ctx, "reset stale jobs", slog.Int("count", n))
	}
	return nil
}

func (b *Broker) poll(ctx context.Context, queue string, policy config.QueuePolicy, reg registration) {
	concurrency := max(policy.Concurrency, 1)

	var g errgroup.Group
	g.SetLimit(concurrency)
	var inFlight atomic.Int32

	// Jobs keep running through shutdown; only claiming stops.
	jobCtx := context.WithoutCancel(ctx)

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		if free := concurrency - int(inFlight.Load()); free > 0 {
			jobs, err := b.store.Claim(ctx, queue, free)
			if err != nil && ctx.Err() == nil {
				b.log.ErrorContext(ctx, "claim jobs", slog.String("queue", queue), slog.String("error", err.Error()))
			}
			for _, job := range jobs {
				inFlight.Add(1)
				g.Go(func() error {
					defer inFlight.Add(-1)
					b.process(jobCtx, policy, reg, job)
					return nil
				})
			}
		}

		select {
		case <-ctx.Done():
			_ = g.Wait()
			return
		case <-ticker.C:
		}
	}
}

func (b *Broker) process(ctx context.Context, policy config.QueuePolicy, reg registration, job domain.Job) {
	log := b.log.With(
		slog.String("queue", job.Queue),
		slog.String("job_id", job.ID.String()),
		slog.Int("attempt", job.Attempts),
	)

	start := b.now()
	attemptCtx, cancel := context.WithTimeout(ctx, b.staleAfter)
	err := safeCall(attemptCtx, reg.handler, job)
	cancel()
	if err == nil {
		if markErr := b.store.MarkDone(ctx, job.ID); markErr != nil {
			log.ErrorContext(ctx, "mark job done", slog.String("error", markErr.Error()))
		}
		log.InfoContext(ctx, "job done", slog.Duration("duration", b.now().Sub(start)))
		return
	}

	if IsPermanent(err) || job.Exhausted() {
		log.ErrorContext(ctx, "job failed", slog.String("error", err.Error()), slog.Bool("permanent", IsPermanent(err)))
		if markErr := b.store.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			log.ErrorContext(ctx, "mark job failed", slog.String("error", markErr.Error()))
		}
		if reg.onFailed != nil {
			reg.onFailed(ctx, job, err)
		}
		return
	}

	delay := Backoff(policy.Backoff, job.Attempts)
	log.WarnContext(ctx, "job attempt failed, retrying",
		slog.String("error", err.Error()),
		slog.Duration("retry_in", delay),
	)
	if markErr := b.store.Reschedule(ctx, job.ID, b.now().Add(delay), err.Error()); markErr != nil {
		log.ErrorContext(ctx, "reschedule job", slog.String("error", markErr.Error()))
	}
}

func safeCall(ctx context.Context, h Handler, job domain.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, job)
}

// Backoff returns the delay after the given attempt: base * 2^(attempt-1).
func Backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 1 {
		return 0
	}
	shift := min(attempt-1, 16)
	return base << shift
}

// Decode unmarshals a job payload, marking malformed payloads permanent.
func Decode[T any](job domain.Job) (T, error) {
	var v T
	if err := json.Unmarshal(job.Payload, &v); err != nil {
		return v, Permanent(fmt.Errorf("decode %s payload: %w", job.Queue, err))
	}
	return v, nil
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so the job is failed without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
