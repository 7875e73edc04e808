package auth

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID uuid.UUID
	TeamID uuid.UUID
	Role   domain.Role
}
