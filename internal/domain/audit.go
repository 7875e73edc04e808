package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntity is the kind of record an audit entry refers to.
type AuditEntity string

const (
	AuditEntityIntegration AuditEntity = "integration"
)

// AuditAction is what a team member did to the entity.
type AuditAction string

const (
	AuditActionConnect    AuditAction = "connect"
	AuditActionUpdate     AuditAction = "update"
	AuditActionDisconnect AuditAction = "disconnect"
)

// AuditRecord is one append-only entry of a team's audit log.
type AuditRecord struct {
	ID         uuid.UUID
	TeamID     uuid.UUID
	UserID     *uuid.UUID
	EntityType AuditEntity
	EntityID   *uuid.UUID
	Action     AuditAction
	Changes    map[string]any
	CreatedAt  time.Time
}
