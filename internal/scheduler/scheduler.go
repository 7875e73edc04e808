// Package scheduler runs recurring maintenance tasks with gocron.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Task is a named recurring handler.
type Task struct {
	Name     string
	Schedule string
	Handler  func(ctx context.Context) error
}

// Scheduler wraps a gocron scheduler. Task handlers receive a context that is
// cancelled on Stop.
type Scheduler struct {
	cron   *gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	tasks  map[string]Task
	log    *slog.Logger
}

// New creates a Scheduler in the named IANA timezone.
func New(timezone string, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("scheduler: load timezone %q: %w", timezone, err)
	}

	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   s,
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[string]Task),
		log:    logger.With("worker", "scheduler"),
	}, nil
}

// Register adds a cron task.
func (s *Scheduler) Register(task Task) error {
	if _, exists := s.tasks[task.Name]; exists {
		return fmt.Errorf("scheduler: task %q already registered", task.Name)
	}

	_, err := s.cron.Cron(task.Schedule).Tag(task.Name).Do(func() {
		if err := s.RunNow(task.Name); err != nil {
			s.log.Error("task failed", slog.String("task", task.Name), slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: schedule %q (%s): %w", task.Name, task.Schedule, err)
	}

	s.tasks[task.Name] = task
	s.log.Info("task registered", slog.String("task", task.Name), slog.String("schedule", task.Schedule))
	return nil
}

// RunNow executes a registered task synchronously.
func (s *Scheduler) RunNow(name string) error {
	task, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("scheduler: task %q not found", name)
	}

	start := time.Now()
	s.log.Info("task started", slog.String("task", name))
	if err := task.Handler(s.ctx); err != nil {
		return err
	}
	s.log.Info("task completed", slog.String("task", name), slog.Duration("duration", time.Since(start)))
	return nil
}

// Tasks returns the registered task names.
func (s *Scheduler) Tasks() []string {
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	return names
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop halts scheduling and cancels running task contexts.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.cancel()
}
