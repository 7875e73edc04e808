// Package syncer runs integration syncs: it pages through a provider,
// extracts memories and upserts them, and reports failures to team admins.
package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

type integrationRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Integration, error)
	ListByStatus(ctx context.Context, status domain.IntegrationStatus) ([]domain.Integration, error)
	UpdateCredentials(ctx context.Context, id uuid.UUID, blob string) error
	MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkError(ctx context.Context, id uuid.UUID, msg string) error
}

type adapterRegistry interface {
	Get(typ domain.IntegrationType) (provider.Adapter, error)
}

type credentialStore interface {
	Encrypt(payload any) (string, error)
	DecryptCredentials(blob string) (domain.Credentials, error)
}

type memoryWriter interface {
	Upsert(ctx context.Context, teamID uuid.UUID, draft domain.MemoryDraft) (*domain.Memory, bool, error)
}

type userRepo interface {
	ListByTeamRoles(ctx context.Context, teamID uuid.UUID, roles ...domain.Role) ([]domain.User, error)
}

type jobEnqueuer interface {
	Enqueue(ctx context.Context, queueName string, payload any, opts ...queue.EnqueueOption) (*domain.Job, error)
}

type notifier interface {
	Publish(teamID uuid.UUID, event domain.Event)
}

// Service executes sync jobs.
type Service struct {
	integrations integrationRepo
	registry     adapterRegistry
	credentials  credentialStore
	memories     memoryWriter
	users        userRepo
	jobs         jobEnqueuer
	notifier     notifier
	maxPages     int
	now          func() time.Time
	log          *slog.Logger
}

// NewService creates a sync service. maxPages bounds the provider pages
// fetched per run.
func NewService(
	log *slog.Logger,
	integrations integrationRepo,
	registry adapterRegistry,
	credentials credentialStore,
	memories memoryWriter,
	users userRepo,
	jobs jobEnqueuer,
	notifier notifier,
	maxPages int,
) *Service {
	if maxPages <= 0 {
		maxPages = 10
	}
	return &Service{
		integrations: integrations,
		registry:     registry,
		credentials:  credentials,
		memories:     memories,
		users:        users,
		jobs:         jobs,
		notifier:     notifier,
		maxPages:     maxPages,
		now:          time.Now,
		log:          log.With("service", "syncer"),
	}
}
