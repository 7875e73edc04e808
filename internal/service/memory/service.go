package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

type memoryRepo interface {
	Insert(ctx context.Context, m *domain.Memory) (*domain.Memory, error)
	Upsert(ctx context.Context, m *domain.Memory) (*domain.Memory, bool, error)
	GetByID(ctx context.Context, teamID, id uuid.UUID) (*domain.Memory, error)
	Search(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error)
	Update(ctx context.Context, teamID, id uuid.UUID, typ *domain.MemoryType, metadata map[string]any) (*domain.Memory, error)
	Delete(ctx context.Context, teamID, id uuid.UUID) error
	Stats(ctx context.Context, teamID uuid.UUID, since time.Time) (domain.TeamStats, error)
}

type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type notifier interface {
	Publish(teamID uuid.UUID, event domain.Event)
}

// RecentWindow is the period counted as recent activity in team stats.
const RecentWindow = 7 * 24 * time.Hour

// Service stores, embeds and searches team memories.
type Service struct {
	memories memoryRepo
	embedder embedder
	notifier notifier
	now      func() time.Time
	log      *slog.Logger
}

// NewService creates a new memory service.
func NewService(log *slog.Logger, memories memoryRepo, embedder embedder, notifier notifier) *Service {
	return &Service{
		memories: memories,
		embedder: embedder,
		notifier: notifier,
		now:      time.Now,
		log:      log.With("service", "memory"),
	}
}

// Create embeds and inserts a new memory for the team, then notifies the
// team's subscribers. Nothing is written when embedding fails.
func (s *Service) Create(ctx context.Context, teamID uuid.UUID, createdBy *uuid.UUID, draft domain.MemoryDraft) (*domain.Memory, error) {
	m, err := s.prepare(ctx, teamID, draft)
	if err != nil {
		return nil, err
	}
	m.CreatedBy = createdBy

	created, err := s.memories.Insert(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("memory.Create insert: %w", err)
	}

	s.notifyCreated(created)
	s.log.InfoContext(ctx, "memory created",
		slog.String("team_id", teamID.String()),
		slog.String("memory_id", created.ID.String()),
		slog.String("source", created.Source),
	)
	return created, nil
}

// Upsert stores a draft, updating the existing memory with the same
// (team, source, sourceId) in place. Drafts without a sourceId are always
// inserted. inserted reports whether a new row was created.
func (s *Service) Upsert(ctx context.Context, teamID uuid.UUID, draft domain.MemoryDraft) (_ *domain.Memory, inserted bool, err error) {
	if draft.SourceID == nil {
		m, err := s.Create(ctx, teamID, nil, draft)
		return m, err == nil, err
	}

	m, err := s.prepare(ctx, teamID, draft)
	if err != nil {
		return nil, false, err
	}

	stored, inserted, err := s.memories.Upsert(ctx, m)
	if err != nil {
		return nil, false, fmt.Errorf("memory.Upsert: %w", err)
	}
	if inserted {
		s.notifyCreated(stored)
	}
	return stored, inserted, nil
}

func (s *Service) prepare(ctx context.Context, teamID uuid.UUID, draft domain.MemoryDraft) (*domain.Memory, error) {
	if draft.Type == "" {
		draft.Type = domain.MemoryTypeOther
	}
	if draft.Timestamp.IsZero() {
		draft.Timestamp = s.now()
	}
	if draft.Metadata == nil {
		draft.Metadata = map[string]any{}
	}

	vector, err := s.embedder.Embed(ctx, draft.Content)
	if err != nil {
		if !errors.Is(err, domain.ErrEmbedding) {
			err = fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
		}
		return nil, err
	}

	return &domain.Memory{
		TeamID:       teamID,
		Content:      draft.Content,
		Type:         draft.Type,
		Source:       draft.Source,
		SourceID:     draft.SourceID,
		SourceURL:    draft.SourceURL,
		Author:       draft.Author,
		Participants: draft.Participants,
		Timestamp:    draft.Timestamp,
		Metadata:     draft.Metadata,
		Embedding:    vector,
	}, nil
}

// notifyCreated publishes without blocking; the hub drops slow subscribers.
func (s *Service) notifyCreated(m *domain.Memory) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(m.TeamID, domain.Event{
		Type: domain.EventMemoryCreated,
		Data: ToView(m),
	})
}
