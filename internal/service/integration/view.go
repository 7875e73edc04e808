package integration

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// View is the client representation of an integration. Credentials are
// never included.
type View struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	Status     string         `json:"status"`
	Settings   map[string]any `json:"settings"`
	ExternalID *string        `json:"externalId"`
	LastSyncAt *time.Time     `json:"lastSyncAt"`
	LastError  *string        `json:"lastError"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ToView converts an integration to its client representation.
func ToView(i *domain.Integration) View {
	settings := i.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	return View{
		ID:         i.ID,
		Type:       i.Type.String(),
		Status:     i.Status.String(),
		Settings:   settings,
		ExternalID: i.ExternalID,
		LastSyncAt: i.LastSyncAt,
		LastError:  i.LastError,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// ToViews converts a slice of integrations.
func ToViews(list []domain.Integration) []View {
	out := make([]View, len(list))
	for i := range list {
		out[i] = ToView(&list[i])
	}
	return out
}

// AuditView is the client representation of an audit record.
type AuditView struct {
	ID        uuid.UUID      `json:"id"`
	UserID    *uuid.UUID     `json:"userId"`
	Entity    string         `json:"entity"`
	EntityID  *uuid.UUID     `json:"entityId"`
	Action    string         `json:"action"`
	Changes   map[string]any `json:"changes"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ToAuditViews converts audit records.
func ToAuditViews(records []domain.AuditRecord) []AuditView {
	out := make([]AuditView, len(records))
	for i, r := range records {
		out[i] = AuditView{
			ID:        r.ID,
			UserID:    r.UserID,
			Entity:    string(r.EntityType),
			EntityID:  r.EntityID,
			Action:    string(r.Action),
			Changes:   r.Changes,
			CreatedAt: r.CreatedAt,
		}
	}
	return out
}
