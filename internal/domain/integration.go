package domain

import (
	"time"

	"github.com/google/uuid"
)

// Integration is a team's connection to an external provider.
// Credentials holds the encrypted blob and is never serialized to clients.
type Integration struct {
	ID          uuid.UUID
	TeamID      uuid.UUID
	Type        IntegrationType
	Credentials string
	Settings    map[string]any
	Status      IntegrationStatus
	ExternalID  *string
	LastSyncAt  *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Syncable reports whether a sync may be started for the integration.
func (i *Integration) Syncable() bool {
	return i.Status == IntegrationStatusActive || i.Status == IntegrationStatusError
}

// Credentials is the plaintext token set persisted (encrypted) per integration.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	// ExpiryDate is the absolute expiry in unix milliseconds.
	ExpiryDate int64  `json:"expiry_date,omitempty"`
	Scope      string `json:"scope,omitempty"`
	TokenType  string `json:"token_type,omitempty"`
}

// Expired reports whether the access token is past its expiry, with a small
// leeway so tokens are refreshed before the provider rejects them.
func (c *Credentials) Expired(now time.Time) bool {
	if c.ExpiryDate == 0 {
		return false
	}
	return now.Add(time.Minute).UnixMilli() >= c.ExpiryDate
}

// Grant is the result of a successful OAuth code exchange.
type Grant struct {
	Credentials Credentials
	// ExternalID identifies the provider workspace or account (Slack team id,
	// Notion workspace id), empty when the provider has none.
	ExternalID string
	Settings   map[string]any
}

// SyncStats summarizes one sync run.
type SyncStats struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
