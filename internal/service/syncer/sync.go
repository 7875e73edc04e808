package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

// HandleJob is the queue handler for sync jobs.
func (s *Service) HandleJob(ctx context.Context, job domain.Job) error {
	payload, err := queue.Decode[domain.SyncJob](job)
	if err != nil {
		return err
	}
	_, err = s.Sync(ctx, payload)
	return err
}

// Sync runs one sync of the integration in payload. Items that fail to
// extract or store are counted and skipped; errors that fail the whole run
// are returned, wrapped with queue.Permanent when retrying cannot help.
func (s *Service) Sync(ctx context.Context, payload domain.SyncJob) (domain.SyncStats, error) {
	var stats domain.SyncStats
	log := s.log.With(
		slog.String("integration_id", payload.IntegrationID.String()),
		slog.String("provider", payload.IntegrationType.String()),
	)

	integ, err := s.integrations.GetByID(ctx, payload.IntegrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return stats, queue.Permanent(fmt.Errorf("syncer.Sync: %w", err))
		}
		return stats, fmt.Errorf("syncer.Sync load: %w", err)
	}
	if !integ.Syncable() {
		log.InfoContext(ctx, "sync skipped", slog.String("status", integ.Status.String()))
		return stats, nil
	}

	adapter, err := s.registry.Get(integ.Type)
	if err != nil {
		return stats, queue.Permanent(fmt.Errorf("syncer.Sync: %w", err))
	}

	creds, err := s.credentials.DecryptCredentials(integ.Credentials)
	if err != nil {
		return stats, queue.Permanent(fmt.Errorf("syncer.Sync: %w", err))
	}

	creds, err = s.refresh(ctx, adapter, integ, creds)
	if err != nil {
		return stats, err
	}

	cursor := ""
	for page := 0; page < s.maxPages; page++ {
		p, err := adapter.Fetch(ctx, creds, integ.Settings, cursor)
		if err != nil {
			var apiErr *domain.ProviderAPIError
			if errors.As(err, &apiErr) && !apiErr.Retryable() {
				return stats, queue.Permanent(fmt.Errorf("syncer.Sync fetch: %w", err))
			}
			return stats, fmt.Errorf("syncer.Sync fetch: %w", err)
		}

		for _, raw := range p.Items {
			stats.Fetched++
			s.store(ctx, log, adapter, integ, raw, &stats)
		}

		if p.Next == "" {
			break
		}
		cursor = p.Next
	}

	if err := s.integrations.MarkSynced(ctx, integ.ID, s.now()); err != nil {
		return stats, fmt.Errorf("syncer.Sync mark synced: %w", err)
	}

	s.notifier.Publish(integ.TeamID, domain.Event{
		Type: domain.EventSyncCompleted,
		Data: map[string]any{
			"integrationId": integ.ID,
			"provider":      integ.Type,
			"stats":         stats,
		},
	})

	log.InfoContext(ctx, "sync completed",
		slog.String("team_id", integ.TeamID.String()),
		slog.Int("fetched", stats.Fetched),
		slog.Int("created", stats.Created),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (s *Service) store(ctx context.Context, log *slog.Logger, adapter provider.Adapter, integ *domain.Integration, raw json.RawMessage, stats *domain.SyncStats) {
	draft, err := adapter.Extract(raw, integ.Settings)
	if err != nil {
		if errors.Is(err, provider.ErrSkip) {
			stats.Skipped++
			return
		}
		stats.Failed++
		log.WarnContext(ctx, "extract item", slog.String("error", err.Error()))
		return
	}

	_, inserted, err := s.memories.Upsert(ctx, integ.TeamID, draft)
	if err != nil {
		stats.Failed++
		log.WarnContext(ctx, "store item", slog.String("error", err.Error()))
		return
	}
	if inserted {
		stats.Created++
	} else {
		stats.Updated++
	}
}

// refresh renews expired tokens for adapters that support it and persists
// the new credentials before they are used.
func (s *Service) refresh(ctx context.Context, adapter provider.Adapter, integ *domain.Integration, creds domain.Credentials) (domain.Credentials, error) {
	refresher, ok := adapter.(provider.Refresher)
	if !ok || !creds.Expired(s.now()) {
		return creds, nil
	}

	fresh, err := refresher.Refresh(ctx, creds)
	if err != nil {
		// A rejected refresh token (invalid_grant, revoked consent) needs the
		// user to reconnect; retrying cannot help.
		var apiErr *domain.ProviderAPIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return creds, queue.Permanent(fmt.Errorf("syncer.refresh: %w", err))
		}
		return creds, fmt.Errorf("syncer.refresh: %w", err)
	}

	blob, err := s.credentials.Encrypt(fresh)
	if err != nil {
		return creds, fmt.Errorf("syncer.refresh encrypt: %w", err)
	}
	if err := s.integrations.UpdateCredentials(ctx, integ.ID, blob); err != nil {
		return creds, fmt.Errorf("syncer.refresh store: %w", err)
	}

	s.log.InfoContext(ctx, "access token refreshed", slog.String("integration_id", integ.ID.String()))
	return *fresh, nil
}
