package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/auth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// Authenticate resolves a bearer token into the caller's identity. The token
// is either an extension session token or a JWT. Callers without a team
// membership are rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*auth.Identity, error) {
	var (
		userID uuid.UUID
		err    error
	)
	if auth.IsSessionToken(token) {
		userID, err = s.sessionUser(ctx, token)
	} else {
		userID, err = s.jwt.ValidateAccessToken(token)
		if err != nil {
			err = domain.ErrUnauthorized
		}
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "token for unknown user", slog.String("user_id", userID.String()))
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Authenticate get user: %w", err)
	}

	return &auth.Identity{UserID: user.ID, TeamID: user.TeamID, Role: user.Role}, nil
}

func (s *Service) sessionUser(ctx context.Context, token string) (uuid.UUID, error) {
	session, err := s.sessions.GetByHash(ctx, auth.HashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, domain.ErrUnauthorized
		}
		return uuid.Nil, fmt.Errorf("auth.Authenticate get session: %w", err)
	}
	if session.IsRevoked() || session.IsExpired(s.now()) {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return session.UserID, nil
}
