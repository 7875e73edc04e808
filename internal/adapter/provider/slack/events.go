package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// MaxRequestAge is how far a signed request's timestamp may drift from now.
const MaxRequestAge = 5 * time.Minute

// Envelope types of the Events API.
const (
	EnvelopeURLVerification = "url_verification"
	EnvelopeEventCallback   = "event_callback"
)

// Envelope is an Events API request body.
type Envelope struct {
	Type      string          `json:"type"`
	Token     string          `json:"token"`
	Challenge string          `json:"challenge"`
	TeamID    string          `json:"team_id"`
	EventID   string          `json:"event_id"`
	Event     json.RawMessage `json:"event"`
}

// ParseEnvelope decodes an Events API body.
func ParseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, domain.NewValidationError("body", "invalid slack event payload")
	}
	return env, nil
}

// MessageEvent returns the envelope's event as a message, reporting false
// for any other event type.
func (e Envelope) MessageEvent() (Message, bool) {
	if e.Type != EnvelopeEventCallback || len(e.Event) == 0 {
		return Message{}, false
	}
	var m Message
	if err := json.Unmarshal(e.Event, &m); err != nil || m.Type != "message" {
		return Message{}, false
	}
	return m, true
}

// VerifySignature checks the X-Slack-Signature header of a request using the
// app's signing secret, rejecting requests outside the replay window.
func VerifySignature(secret, timestamp, signature string, body []byte, now time.Time) error {
	if secret == "" {
		return errors.New("slack signing secret is not configured")
	}
	if timestamp == "" || signature == "" {
		return fmt.Errorf("slack signature: %w", domain.ErrUnauthorized)
	}

	secs, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("slack signature: invalid timestamp: %w", domain.ErrUnauthorized)
	}
	delta := now.Sub(time.Unix(secs, 0))
	if delta < 0 {
		delta = -delta
	}
	if delta > MaxRequestAge {
		return fmt.Errorf("slack signature: request outside replay window: %w", domain.ErrUnauthorized)
	}

	if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(Sign(secret, timestamp, body))) {
		return fmt.Errorf("slack signature: mismatch: %w", domain.ErrUnauthorized)
	}
	return nil
}

// Sign computes the v0 signature for a request body.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte("v0:" + timestamp + ":"))
	_, _ = mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}
