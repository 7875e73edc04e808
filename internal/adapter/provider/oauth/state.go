// Package oauth holds what the provider adapters share: the OAuth state
// parameter and an HTTP client that retries rate-limited and failed calls.
package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// State identifies who started an OAuth flow.
type State struct {
	TeamID uuid.UUID `json:"teamId"`
	UserID uuid.UUID `json:"userId"`
}

// StateCodec encodes and decodes the OAuth state parameter. With an empty
// key the state is plain base64url JSON; with a key it carries an
// HMAC-SHA256 signature and unsigned or tampered states are rejected.
type StateCodec struct {
	key []byte
}

// NewStateCodec creates a codec. signingKey may be empty.
func NewStateCodec(signingKey string) *StateCodec {
	c := &StateCodec{}
	if signingKey != "" {
		c.key = []byte(signingKey)
	}
	return c
}

// Signed reports whether states carry a signature.
func (c *StateCodec) Signed() bool { return len(c.key) > 0 }

// Encode returns the state parameter for s.
func (c *StateCodec) Encode(s State) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	if !c.Signed() {
		return payload, nil
	}
	return payload + "." + c.sign(payload), nil
}

// Decode parses a state parameter. A malformed state is a ValidationError;
// a bad signature is an AuthorizationError.
func (c *StateCodec) Decode(state string) (State, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return State{}, domain.NewValidationError("state", "required")
	}

	payload := state
	if c.Signed() {
		var sig string
		var ok bool
		payload, sig, ok = strings.Cut(state, ".")
		if !ok || !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
			return State{}, &domain.AuthorizationError{Reason: "oauth state signature mismatch"}
		}
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(payload, "="))
	if err != nil {
		return State{}, domain.NewValidationError("state", "malformed")
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, domain.NewValidationError("state", "malformed")
	}
	if s.TeamID == uuid.Nil || s.UserID == uuid.Nil {
		return State{}, domain.NewValidationError("state", "missing team or user")
	}
	return s, nil
}

func (c *StateCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.key)
	_, _ = mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
