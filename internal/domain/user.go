package domain

import (
	"time"

	"github.com/google/uuid"
)

// Team groups users and owns integrations and memories.
type Team struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// User represents an authenticated application user and their team membership.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	TeamID    uuid.UUID
	Role      Role
	CreatedAt time.Time
}

// ExtensionSession is a long-lived bearer session for the browser extension.
// Only the SHA-256 hash of the token is stored.
type ExtensionSession struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the session has been revoked.
func (s *ExtensionSession) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsExpired returns true if the session has expired relative to now.
func (s *ExtensionSession) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
