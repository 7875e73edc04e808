package memory

import (
	"context"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

// Capture stores a memory entered by the authenticated user or captured by
// the browser extension. A capture with a sourceId replaces an earlier
// capture of the same source in place.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (*domain.Memory, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	draft := input.draft()
	if draft.SourceID != nil {
		m, _, err := s.Upsert(ctx, teamID, draft)
		return m, err
	}
	return s.Create(ctx, teamID, &userID, draft)
}
