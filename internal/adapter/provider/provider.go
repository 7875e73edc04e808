// Package provider defines the contract every integration adapter implements
// and the helpers they share when normalizing provider items into memories.
package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// ErrSkip is returned by Extract when an item carries nothing worth storing.
var ErrSkip = errors.New("provider: item skipped")

// Page is one batch of raw provider items. Next is empty on the last page.
type Page struct {
	Items []json.RawMessage
	Next  string
}

// Adapter connects one external provider: the OAuth handshake and the
// fetch/extract phase of a sync.
type Adapter interface {
	Type() domain.IntegrationType
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*domain.Grant, error)
	Fetch(ctx context.Context, creds domain.Credentials, settings map[string]any, cursor string) (Page, error)
	Extract(raw json.RawMessage, settings map[string]any) (domain.MemoryDraft, error)
}

// Refresher is implemented by adapters whose access tokens expire.
type Refresher interface {
	Refresh(ctx context.Context, creds domain.Credentials) (*domain.Credentials, error)
}

// App is an adapter's OAuth application registration plus its sync page size.
type App struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	PageSize     int
}

// Limit returns the page size clamped to [1, max], defaulting to 50.
func (a App) Limit(max int) int {
	switch {
	case a.PageSize <= 0:
		return min(50, max)
	case a.PageSize > max:
		return max
	}
	return a.PageSize
}

// EncodeCursor serializes an adapter's paging position into an opaque string.
func EncodeCursor(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor restores a cursor produced by EncodeCursor. An empty cursor
// leaves v untouched.
func DecodeCursor(cursor string, v any) error {
	if cursor == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return fmt.Errorf("provider: decode cursor: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("provider: decode cursor: %w", err)
	}
	return nil
}

// Registry holds the configured adapters by integration type.
type Registry struct {
	adapters map[domain.IntegrationType]Adapter
}

// NewRegistry builds a registry from the given adapters. Later duplicates win.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.IntegrationType]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Type()] = a
	}
	return r
}

// Get returns the adapter for typ, or a ValidationError when the provider is
// unknown or not configured.
func (r *Registry) Get(typ domain.IntegrationType) (Adapter, error) {
	if !typ.IsValid() {
		return nil, domain.NewValidationError("provider", fmt.Sprintf("unknown provider %q", typ))
	}
	a, ok := r.adapters[typ]
	if !ok {
		return nil, domain.NewValidationError("provider", fmt.Sprintf("provider %q is not configured", typ))
	}
	return a, nil
}

// Types lists the configured providers in display order.
func (r *Registry) Types() []domain.IntegrationType {
	out := make([]domain.IntegrationType, 0, len(r.adapters))
	for _, t := range domain.IntegrationTypes {
		if _, ok := r.adapters[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

var (
	decisionKeywords   = []string{"decided", "agreed", "approved"}
	actionItemKeywords = []string{"todo", "action item", "assigned to"}
)

// Classify assigns a memory type from keywords. Decision wins over action item.
func Classify(text string) domain.MemoryType {
	lower := strings.ToLower(text)
	if containsAny(lower, decisionKeywords) {
		return domain.MemoryTypeDecision
	}
	if containsAny(lower, actionItemKeywords) {
		return domain.MemoryTypeActionItem
	}
	return domain.MemoryTypeDiscussion
}

// ContainsAny reports whether lower-cased text contains any of the keywords.
func ContainsAny(text string, keywords []string) bool {
	return containsAny(strings.ToLower(text), keywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// StringSetting reads a string setting, returning "" when absent.
func StringSetting(settings map[string]any, key string) string {
	s, _ := settings[key].(string)
	return strings.TrimSpace(s)
}

// StringsSetting reads a list-of-strings setting. JSON-decoded settings hold
// []any, values set in code may hold []string.
func StringsSetting(settings map[string]any, key string) []string {
	switch v := settings[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// Ptr returns a pointer to s, or nil when s is empty.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
