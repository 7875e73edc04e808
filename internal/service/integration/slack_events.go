package integration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/slack"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// VerifySlackRequest checks an Events API request signature.
func (s *Service) VerifySlackRequest(timestamp, signature string, body []byte) error {
	return slack.VerifySignature(s.signingSecret, timestamp, signature, body, s.now())
}

// HandleSlackEvent stores a message event for the integration whose Slack
// workspace sent it. Events for unknown or paused workspaces and messages
// that carry nothing worth keeping are ignored.
func (s *Service) HandleSlackEvent(ctx context.Context, env slack.Envelope) error {
	msg, ok := env.MessageEvent()
	if !ok {
		return nil
	}
	log := s.log.With(slog.String("slack_team", env.TeamID), slog.String("event_id", env.EventID))

	integ, err := s.integrations.GetByExternalID(ctx, domain.IntegrationSlack, env.TeamID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.WarnContext(ctx, "slack event for unknown workspace")
			return nil
		}
		return fmt.Errorf("integration.HandleSlackEvent: %w", err)
	}
	if integ.Status == domain.IntegrationStatusPaused {
		return nil
	}

	draft, err := slack.ExtractMessage(msg)
	if err != nil {
		if errors.Is(err, provider.ErrSkip) {
			return nil
		}
		return fmt.Errorf("integration.HandleSlackEvent: %w", err)
	}

	m, inserted, err := s.memories.Upsert(ctx, integ.TeamID, draft)
	if err != nil {
		return fmt.Errorf("integration.HandleSlackEvent: %w", err)
	}

	log.InfoContext(ctx, "slack message stored",
		slog.String("memory_id", m.ID.String()),
		slog.Bool("inserted", inserted),
	)
	return nil
}
