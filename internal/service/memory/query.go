package memory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

// Search returns the caller team's memories matching input.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]domain.Memory, error) {
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.SearchTeam(ctx, teamID, input.filter())
}

// SearchTeam runs a search scoped to teamID.
func (s *Service) SearchTeam(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error) {
	memories, err := s.memories.Search(ctx, teamID, filter)
	if err != nil {
		return nil, fmt.Errorf("memory.Search: %w", err)
	}
	return memories, nil
}

// Get returns one of the caller team's memories.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Memory, error) {
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	m, err := s.memories.GetByID(ctx, teamID, id)
	if err != nil {
		return nil, fmt.Errorf("memory.Get: %w", err)
	}
	return m, nil
}

// Patch updates a memory's type and/or metadata.
func (s *Service) Patch(ctx context.Context, input PatchInput) (*domain.Memory, error) {
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	m, err := s.memories.Update(ctx, teamID, input.ID, input.Type, input.Metadata)
	if err != nil {
		return nil, fmt.Errorf("memory.Patch: %w", err)
	}

	s.log.InfoContext(ctx, "memory updated",
		slog.String("team_id", teamID.String()),
		slog.String("memory_id", m.ID.String()),
	)
	return m, nil
}

// Delete removes one of the caller team's memories.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := s.memories.Delete(ctx, teamID, id); err != nil {
		return fmt.Errorf("memory.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "memory deleted",
		slog.String("team_id", teamID.String()),
		slog.String("memory_id", id.String()),
	)
	return nil
}

// Stats returns totals by type and source and the number of memories created
// within RecentWindow.
func (s *Service) Stats(ctx context.Context) (domain.TeamStats, error) {
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return domain.TeamStats{}, domain.ErrUnauthorized
	}

	stats, err := s.memories.Stats(ctx, teamID, s.now().Add(-RecentWindow))
	if err != nil {
		return domain.TeamStats{}, fmt.Errorf("memory.Stats: %w", err)
	}
	if stats.ByType == nil {
		stats.ByType = map[string]int{}
	}
	if stats.BySource == nil {
		stats.BySource = map[string]int{}
	}
	return stats, nil
}
