package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/config"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// userRepo defines the user repository interface needed by auth service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// sessionRepo defines the extension session repository interface needed by auth service.
type sessionRepo interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.ExtensionSession, error)
	GetByHash(ctx context.Context, tokenHash string) (*domain.ExtensionSession, error)
	RevokeByHash(ctx context.Context, userID uuid.UUID, tokenHash string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)
}

// tokenValidator validates bearer JWTs issued by the identity provider.
type tokenValidator interface {
	ValidateAccessToken(token string) (uuid.UUID, error)
}

// Service implements authentication and extension session operations.
type Service struct {
	log      *slog.Logger
	users    userRepo
	sessions sessionRepo
	jwt      tokenValidator
	cfg      config.AuthConfig
	now      func() time.Time
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	sessions sessionRepo,
	jwt tokenValidator,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		users:    users,
		sessions: sessions,
		jwt:      jwt,
		cfg:      cfg,
		now:      time.Now,
	}
}
