package syncer

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

// OnJobFailed runs after a sync job's last attempt. The integration moves to
// error and the team's owners and admins are emailed.
func (s *Service) OnJobFailed(ctx context.Context, job domain.Job, cause error) {
	payload, err := queue.Decode[domain.SyncJob](job)
	if err != nil {
		s.log.ErrorContext(ctx, "decode failed sync job", slog.String("job_id", job.ID.String()))
		return
	}
	log := s.log.With(
		slog.String("integration_id", payload.IntegrationID.String()),
		slog.String("team_id", payload.TeamID.String()),
	)

	if err := s.integrations.MarkError(ctx, payload.IntegrationID, cause.Error()); err != nil {
		log.ErrorContext(ctx, "mark integration error", slog.String("error", err.Error()))
	}

	admins, err := s.users.ListByTeamRoles(ctx, payload.TeamID, domain.RoleOwner, domain.RoleAdmin)
	if err != nil {
		log.ErrorContext(ctx, "list team admins", slog.String("error", err.Error()))
		return
	}

	to := make([]string, 0, len(admins))
	for _, u := range admins {
		if u.Email != "" {
			to = append(to, u.Email)
		}
	}
	if len(to) == 0 {
		return
	}

	if _, err := s.jobs.Enqueue(ctx, queue.Email, FailureEmail(to, payload.IntegrationType, cause)); err != nil {
		log.ErrorContext(ctx, "enqueue failure email", slog.String("error", err.Error()))
	}
}

// FailureEmail builds the notification sent when a sync gives up.
func FailureEmail(to []string, typ domain.IntegrationType, cause error) domain.EmailJob {
	return domain.EmailJob{
		To:      to,
		Subject: fmt.Sprintf("FlipFlop: %s sync failed", typ),
		HTML: fmt.Sprintf(
			"<p>The %s integration could not be synced and has been marked as failing.</p>"+
				"<p>Last error: <code>%s</code></p>"+
				"<p>Reconnect it or trigger a new sync from the integrations page.</p>",
			html.EscapeString(typ.String()), html.EscapeString(cause.Error())),
	}
}
