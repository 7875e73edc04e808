// Package email delivers queued email jobs.
package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

type sender interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// Service handles the email queue.
type Service struct {
	sender sender
	log    *slog.Logger
}

// NewService creates a new email service.
func NewService(log *slog.Logger, sender sender) *Service {
	return &Service{sender: sender, log: log.With("service", "email")}
}

// HandleJob sends one email job. Jobs without recipients or subject are
// failed permanently.
func (s *Service) HandleJob(ctx context.Context, job domain.Job) error {
	msg, err := queue.Decode[domain.EmailJob](job)
	if err != nil {
		return err
	}
	if len(msg.To) == 0 || msg.Subject == "" {
		return queue.Permanent(errors.New("email job without recipients or subject"))
	}

	if err := s.sender.Send(ctx, msg.To, msg.Subject, msg.HTML); err != nil {
		return fmt.Errorf("email.HandleJob: %w", err)
	}

	s.log.InfoContext(ctx, "email sent",
		slog.String("job_id", job.ID.String()),
		slog.Int("recipients", len(msg.To)),
	)
	return nil
}
