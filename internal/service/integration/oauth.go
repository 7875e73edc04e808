package integration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

// AuthURL returns the provider's consent URL carrying a state that binds the
// flow to the caller and their team.
func (s *Service) AuthURL(ctx context.Context, typ domain.IntegrationType) (string, error) {
	c, err := managerFromCtx(ctx)
	if err != nil {
		return "", err
	}

	adapter, err := s.registry.Get(typ)
	if err != nil {
		return "", err
	}

	state, err := s.states.Encode(oauth.State{TeamID: c.teamID, UserID: c.userID})
	if err != nil {
		return "", fmt.Errorf("integration.AuthURL encode state: %w", err)
	}
	return adapter.AuthURL(state), nil
}

// HandleCallback completes the OAuth handshake. The state must have been
// issued to the caller in their current team; this is checked before the
// provider is contacted. On success the credentials are encrypted, the
// integration is stored as active and a first sync is queued.
func (s *Service) HandleCallback(ctx context.Context, typ domain.IntegrationType, code, state string) (*domain.Integration, error) {
	c, err := managerFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.states.Decode(state)
	if err != nil {
		return nil, err
	}
	if st.UserID != c.userID || st.TeamID != c.teamID {
		s.log.WarnContext(ctx, "oauth state mismatch",
			slog.String("user_id", c.userID.String()),
			slog.String("provider", typ.String()),
		)
		return nil, &domain.AuthorizationError{Reason: "oauth state was issued to another user or team"}
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.NewValidationError("code", "required")
	}

	adapter, err := s.registry.Get(typ)
	if err != nil {
		return nil, err
	}

	grant, err := adapter.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	blob, err := s.credentials.Encrypt(grant.Credentials)
	if err != nil {
		return nil, fmt.Errorf("integration.HandleCallback encrypt: %w", err)
	}

	integ, err := s.integrations.Upsert(ctx, &domain.Integration{
		TeamID:      c.teamID,
		Type:        typ,
		Credentials: blob,
		Settings:    grant.Settings,
		Status:      domain.IntegrationStatusActive,
		ExternalID:  provider.Ptr(grant.ExternalID),
	})
	if err != nil {
		return nil, fmt.Errorf("integration.HandleCallback upsert: %w", err)
	}

	s.log.InfoContext(ctx, "integration connected",
		slog.String("team_id", c.teamID.String()),
		slog.String("provider", typ.String()),
		slog.String("integration_id", integ.ID.String()),
	)
	s.record(ctx, c, domain.AuditActionConnect, &integ.ID, map[string]any{"provider": typ.String()})

	// The integration is usable even if the first sync could not be queued;
	// the scheduler or a manual sync picks it up.
	if _, err := s.jobs.Enqueue(ctx, queue.Sync, syncJob(integ)); err != nil {
		s.log.ErrorContext(ctx, "enqueue initial sync", slog.String("error", err.Error()))
	}

	return integ, nil
}

func syncJob(i *domain.Integration) domain.SyncJob {
	return domain.SyncJob{TeamID: i.TeamID, IntegrationID: i.ID, IntegrationType: i.Type}
}
