package integration

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

type integrationRepo interface {
	Upsert(ctx context.Context, i *domain.Integration) (*domain.Integration, error)
	GetByType(ctx context.Context, teamID uuid.UUID, typ domain.IntegrationType) (*domain.Integration, error)
	GetByExternalID(ctx context.Context, typ domain.IntegrationType, externalID string) (*domain.Integration, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]domain.Integration, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings map[string]any, status *domain.IntegrationStatus) (*domain.Integration, error)
	Delete(ctx context.Context, teamID uuid.UUID, typ domain.IntegrationType) error
}

type adapterRegistry interface {
	Get(typ domain.IntegrationType) (provider.Adapter, error)
	Types() []domain.IntegrationType
}

type stateCodec interface {
	Encode(s oauth.State) (string, error)
	Decode(state string) (oauth.State, error)
}

type credentialSealer interface {
	Encrypt(payload any) (string, error)
}

type jobEnqueuer interface {
	Enqueue(ctx context.Context, queueName string, payload any, opts ...queue.EnqueueOption) (*domain.Job, error)
}

type memoryWriter interface {
	Upsert(ctx context.Context, teamID uuid.UUID, draft domain.MemoryDraft) (*domain.Memory, bool, error)
}

type auditLog interface {
	Log(ctx context.Context, rec domain.AuditRecord) error
	ListByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]domain.AuditRecord, error)
}

// Service manages a team's integrations: the OAuth handshake, settings,
// manual syncs and inbound Slack events.
type Service struct {
	integrations  integrationRepo
	registry      adapterRegistry
	states        stateCodec
	credentials   credentialSealer
	jobs          jobEnqueuer
	memories      memoryWriter
	audit         auditLog
	signingSecret string
	now           func() time.Time
	log           *slog.Logger
}

// NewService creates a new integration service. slackSigningSecret verifies
// Events API requests.
func NewService(
	log *slog.Logger,
	integrations integrationRepo,
	registry adapterRegistry,
	states stateCodec,
	credentials credentialSealer,
	jobs jobEnqueuer,
	memories memoryWriter,
	audit auditLog,
	slackSigningSecret string,
) *Service {
	return &Service{
		integrations:  integrations,
		registry:      registry,
		states:        states,
		credentials:   credentials,
		jobs:          jobs,
		memories:      memories,
		audit:         audit,
		signingSecret: slackSigningSecret,
		now:           time.Now,
		log:           log.With("service", "integration"),
	}
}

type caller struct {
	userID uuid.UUID
	teamID uuid.UUID
	role   domain.Role
}

func callerFromCtx(ctx context.Context) (caller, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return caller{}, domain.ErrUnauthorized
	}
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return caller{}, domain.ErrUnauthorized
	}
	return caller{userID: userID, teamID: teamID, role: domain.Role(ctxutil.RoleFromCtx(ctx))}, nil
}

// managerFromCtx returns the caller when their role may manage integrations.
func managerFromCtx(ctx context.Context) (caller, error) {
	c, err := callerFromCtx(ctx)
	if err != nil {
		return caller{}, err
	}
	if !c.role.CanManageIntegrations() {
		return caller{}, &domain.AuthorizationError{Reason: "only team owners and admins can manage integrations"}
	}
	return c, nil
}

// record appends an audit entry for the caller. Failures are logged and do
// not fail the change that was already applied.
func (s *Service) record(ctx context.Context, c caller, action domain.AuditAction, entityID *uuid.UUID, changes map[string]any) {
	err := s.audit.Log(ctx, domain.AuditRecord{
		TeamID:     c.teamID,
		UserID:     &c.userID,
		EntityType: domain.AuditEntityIntegration,
		EntityID:   entityID,
		Action:     action,
		Changes:    changes,
	})
	if err != nil {
		s.log.WarnContext(ctx, "audit record failed",
			slog.String("team_id", c.teamID.String()),
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
	}
}
