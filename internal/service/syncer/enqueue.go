package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

// EnqueueActive queues a sync for every active integration and returns how
// many were queued. A failed enqueue is logged and the rest continue.
func (s *Service) EnqueueActive(ctx context.Context) (int, error) {
	list, err := s.integrations.ListByStatus(ctx, domain.IntegrationStatusActive)
	if err != nil {
		return 0, fmt.Errorf("syncer.EnqueueActive: %w", err)
	}

	queued := 0
	for i := range list {
		if _, err := s.jobs.Enqueue(ctx, queue.Sync, jobFor(&list[i]), queue.WithDelay(0)); err != nil {
			s.log.ErrorContext(ctx, "enqueue sync",
				slog.String("integration_id", list[i].ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		queued++
	}

	s.log.InfoContext(ctx, "scheduled syncs queued", slog.Int("count", queued), slog.Int("active", len(list)))
	return queued, nil
}

// EnqueueOne queues an immediate sync of a single integration.
func (s *Service) EnqueueOne(ctx context.Context, integrationID uuid.UUID) (*domain.Job, error) {
	integ, err := s.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("syncer.EnqueueOne: %w", err)
	}
	if !integ.Syncable() {
		return nil, fmt.Errorf("integration is %s: %w", integ.Status, domain.ErrConflict)
	}
	job, err := s.jobs.Enqueue(ctx, queue.Sync, jobFor(integ), queue.WithDelay(0))
	if err != nil {
		return nil, fmt.Errorf("syncer.EnqueueOne: %w", err)
	}
	return job, nil
}

func jobFor(i *domain.Integration) domain.SyncJob {
	return domain.SyncJob{TeamID: i.TeamID, IntegrationID: i.ID, IntegrationType: i.Type}
}
