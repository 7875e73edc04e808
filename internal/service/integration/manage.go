package integration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

// List returns the caller team's integrations.
func (s *Service) List(ctx context.Context) ([]domain.Integration, error) {
	c, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.integrations.ListByTeam(ctx, c.teamID)
	if err != nil {
		return nil, fmt.Errorf("integration.List: %w", err)
	}
	return list, nil
}

// Available returns the providers configured on this server.
func (s *Service) Available() []domain.IntegrationType {
	return s.registry.Types()
}

// UpdateInput holds settings to merge and an optional status change.
type UpdateInput struct {
	Settings map[string]any
	Status   *domain.IntegrationStatus
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Settings == nil && i.Status == nil {
		errs = append(errs, domain.FieldError{Field: "body", Message: "settings or status is required"})
	}
	if i.Status != nil && *i.Status != domain.IntegrationStatusActive && *i.Status != domain.IntegrationStatusPaused {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be active or paused"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Update merges settings into the integration and optionally pauses or
// resumes it.
func (s *Service) Update(ctx context.Context, typ domain.IntegrationType, input UpdateInput) (*domain.Integration, error) {
	c, err := managerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	integ, err := s.integrations.GetByType(ctx, c.teamID, typ)
	if err != nil {
		return nil, fmt.Errorf("integration.Update: %w", err)
	}

	// A status-only change (pause/resume) must not touch stored settings.
	updated, err := s.integrations.UpdateSettings(ctx, integ.ID, input.Settings, input.Status)
	if err != nil {
		return nil, fmt.Errorf("integration.Update: %w", err)
	}

	s.log.InfoContext(ctx, "integration updated",
		slog.String("team_id", c.teamID.String()),
		slog.String("provider", typ.String()),
		slog.String("status", updated.Status.String()),
	)

	changes := map[string]any{"provider": typ.String(), "status": updated.Status.String()}
	if len(input.Settings) > 0 {
		changes["settings"] = input.Settings
	}
	s.record(ctx, c, domain.AuditActionUpdate, &updated.ID, changes)
	return updated, nil
}

// Delete disconnects the integration and discards its credentials.
// Memories it produced are kept.
func (s *Service) Delete(ctx context.Context, typ domain.IntegrationType) error {
	c, err := managerFromCtx(ctx)
	if err != nil {
		return err
	}
	if !typ.IsValid() {
		return domain.NewValidationError("provider", fmt.Sprintf("unknown provider %q", typ))
	}

	if err := s.integrations.Delete(ctx, c.teamID, typ); err != nil {
		return fmt.Errorf("integration.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "integration disconnected",
		slog.String("team_id", c.teamID.String()),
		slog.String("provider", typ.String()),
	)
	s.record(ctx, c, domain.AuditActionDisconnect, nil, map[string]any{"provider": typ.String()})
	return nil
}

// TriggerSync queues an immediate sync of the caller team's integration.
// Paused integrations are rejected with a conflict.
func (s *Service) TriggerSync(ctx context.Context, typ domain.IntegrationType) (*domain.Job, error) {
	c, err := callerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !typ.IsValid() {
		return nil, domain.NewValidationError("provider", fmt.Sprintf("unknown provider %q", typ))
	}

	integ, err := s.integrations.GetByType(ctx, c.teamID, typ)
	if err != nil {
		return nil, fmt.Errorf("integration.TriggerSync: %w", err)
	}
	if !integ.Syncable() {
		return nil, fmt.Errorf("integration is %s: %w", integ.Status, domain.ErrConflict)
	}

	job, err := s.jobs.Enqueue(ctx, queue.Sync, syncJob(integ), queue.WithDelay(0))
	if err != nil {
		return nil, fmt.Errorf("integration.TriggerSync: %w", err)
	}

	s.log.InfoContext(ctx, "sync queued",
		slog.String("team_id", c.teamID.String()),
		slog.String("provider", typ.String()),
		slog.String("job_id", job.ID.String()),
	)
	return job, nil
}

// AuditLog returns the caller team's recent integration changes, newest first.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	c, err := managerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.audit.ListByTeam(ctx, c.teamID, limit)
	if err != nil {
		return nil, fmt.Errorf("integration.AuditLog: %w", err)
	}
	return records, nil
}
