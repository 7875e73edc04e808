package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/auth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

// SessionResult carries a newly created extension session. Token is the raw
// value and is never stored.
type SessionResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateExtensionSession issues a long-lived bearer token for the browser
// extension on behalf of the authenticated user.
func (s *Service) CreateExtensionSession(ctx context.Context) (*SessionResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	raw, hash, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("auth.CreateExtensionSession generate: %w", err)
	}

	expiresAt := s.now().Add(s.cfg.SessionTTL)
	if _, err := s.sessions.Create(ctx, userID, hash, expiresAt); err != nil {
		return nil, fmt.Errorf("auth.CreateExtensionSession store: %w", err)
	}

	s.log.InfoContext(ctx, "extension session created", slog.String("user_id", userID.String()))
	return &SessionResult{Token: raw, ExpiresAt: expiresAt}, nil
}

// RevokeExtensionSession revokes one session of the caller by its raw token,
// or all of the caller's sessions when token is empty.
func (s *Service) RevokeExtensionSession(ctx context.Context, token string) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	token = strings.TrimSpace(token)
	if token == "" {
		n, err := s.sessions.RevokeAllByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("auth.RevokeExtensionSession: %w", err)
		}
		s.log.InfoContext(ctx, "extension sessions revoked",
			slog.String("user_id", userID.String()),
			slog.Int("count", n),
		)
		return nil
	}

	if !auth.IsSessionToken(token) {
		return domain.NewValidationError("token", "not an extension session token")
	}
	if err := s.sessions.RevokeByHash(ctx, userID, auth.HashToken(token)); err != nil {
		return fmt.Errorf("auth.RevokeExtensionSession: %w", err)
	}

	s.log.InfoContext(ctx, "extension session revoked", slog.String("user_id", userID.String()))
	return nil
}

// CleanupSessions deletes expired sessions and sessions revoked longer ago
// than the configured retention. This is a maintenance operation.
func (s *Service) CleanupSessions(ctx context.Context) (int, error) {
	count, err := s.sessions.DeleteStale(ctx, s.now().Add(-s.cfg.SessionRetention))
	if err != nil {
		s.log.ErrorContext(ctx, "session cleanup failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("auth.CleanupSessions: %w", err)
	}

	if count > 0 {
		s.log.InfoContext(ctx, "cleaned up extension sessions", slog.Int("count", count))
	}
	return count, nil
}
