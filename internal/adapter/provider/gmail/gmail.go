// Package gmail implements the Gmail adapter. Messages are listed newest
// first, fetched in full, and kept only when they mention a configured
// keyword.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/google"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var (
	// Made variables for testing purposes
	apiBaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"
)

const (
	maxPageSize      = 100
	minContentLength = 20
	defaultQuery     = "newer_than:30d -category:promotions -category:social"
)

var scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
}

// DefaultKeywords are used when neither the integration settings nor the
// server config name any.
var DefaultKeywords = []string{"decision", "action item", "meeting", "agreed", "approved"}

// Adapter is the Gmail provider adapter. The OAuth flow comes from the
// shared Google implementation.
type Adapter struct {
	*google.OAuth
	app      provider.App
	client   *oauth.Client
	keywords []string
	log      *slog.Logger
}

// New creates a Gmail adapter. keywords overrides DefaultKeywords when non-empty.
func New(client *oauth.Client, logger *slog.Logger, app provider.App, keywords []string) *Adapter {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &Adapter{
		OAuth:    google.NewOAuth(client, logger, app.ClientID, app.ClientSecret, app.RedirectURI, scopes...),
		app:      app,
		client:   client,
		keywords: keywords,
		log:      logger.With("adapter", "gmail"),
	}
}

func (a *Adapter) Type() domain.IntegrationType { return domain.IntegrationGmail }

type listResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	NextPageToken string `json:"nextPageToken"`
}

// Fetch lists one page of message ids matching settings.query (or a recent
// mail default) and fetches each message in full.
func (a *Adapter) Fetch(ctx context.Context, creds domain.Credentials, settings map[string]any, cursor string) (provider.Page, error) {
	query := provider.StringSetting(settings, "query")
	if query == "" {
		query = defaultQuery
	}

	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(a.app.Limit(maxPageSize)))
	q.Set("q", query)
	if cursor != "" {
		q.Set("pageToken", cursor)
	}

	var list listResponse
	if err := a.client.JSON(ctx, oauth.Request{URL: apiBaseURL + "/messages?" + q.Encode(), Token: creds.AccessToken}, &list); err != nil {
		return provider.Page{}, fmt.Errorf("gmail.Fetch list: %w", err)
	}

	page := provider.Page{Items: make([]json.RawMessage, 0, len(list.Messages)), Next: list.NextPageToken}
	for _, m := range list.Messages {
		var raw json.RawMessage
		err := a.client.JSON(ctx, oauth.Request{
			URL:   apiBaseURL + "/messages/" + url.PathEscape(m.ID) + "?format=full",
			Token: creds.AccessToken,
		}, &raw)
		if err != nil {
			if ctx.Err() != nil {
				return provider.Page{}, ctx.Err()
			}
			// A single unreadable message must not abort the page.
			a.log.WarnContext(ctx, "gmail message fetch failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		page.Items = append(page.Items, raw)
	}
	return page, nil
}

type header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type part struct {
	MimeType string   `json:"mimeType"`
	Headers  []header `json:"headers"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
	Parts []part `json:"parts"`
}

type message struct {
	ID           string   `json:"id"`
	ThreadID     string   `json:"threadId"`
	Snippet      string   `json:"snippet"`
	InternalDate string   `json:"internalDate"`
	LabelIDs     []string `json:"labelIds"`
	Payload      part     `json:"payload"`
}

// Extract maps a message to a memory of subject plus plain-text body.
// Messages with none of the keywords (settings.keywords or the adapter
// defaults) or with too little text are skipped.
func (a *Adapter) Extract(raw json.RawMessage, settings map[string]any) (domain.MemoryDraft, error) {
	var m message
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.MemoryDraft{}, fmt.Errorf("gmail.Extract: %w", err)
	}

	subject := headerValue(m.Payload.Headers, "Subject")
	body := strings.TrimSpace(plainText(m.Payload))
	if body == "" {
		body = strings.TrimSpace(m.Snippet)
	}
	content := strings.TrimSpace(subject + "\n\n" + body)

	keywords := provider.StringsSetting(settings, "keywords")
	if len(keywords) == 0 {
		keywords = a.keywords
	}
	if utf8.RuneCountInString(content) < minContentLength || !provider.ContainsAny(content, keywords) {
		return domain.MemoryDraft{}, provider.ErrSkip
	}

	from := headerValue(m.Payload.Headers, "From")
	return domain.MemoryDraft{
		Content:      content,
		Type:         provider.Classify(content),
		Source:       string(domain.IntegrationGmail),
		SourceID:     provider.Ptr("gmail-" + m.ID),
		SourceURL:    provider.Ptr("https://mail.google.com/mail/u/0/#all/" + m.ID),
		Author:       provider.Ptr(from),
		Participants: addresses(headerValue(m.Payload.Headers, "To"), headerValue(m.Payload.Headers, "Cc")),
		Timestamp:    internalDate(m.InternalDate),
		Metadata:     map[string]any{"subject": subject, "threadId": m.ThreadID, "labels": m.LabelIDs},
	}, nil
}

func headerValue(headers []header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return strings.TrimSpace(h.Value)
		}
	}
	return ""
}

// plainText returns the first text/plain body found depth-first.
func plainText(p part) string {
	if strings.HasPrefix(p.MimeType, "text/plain") && p.Body.Data != "" {
		if b, err := decodeBody(p.Body.Data); err == nil {
			return b
		}
	}
	for _, child := range p.Parts {
		if t := plainText(child); t != "" {
			return t
		}
	}
	return ""
}

// decodeBody decodes Gmail's base64url body data, which may or may not be padded.
func decodeBody(data string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func addresses(fields ...string) []string {
	var out []string
	for _, f := range fields {
		if f == "" {
			continue
		}
		list, err := mail.ParseAddressList(f)
		if err != nil {
			continue
		}
		for _, addr := range list {
			out = append(out, addr.Address)
		}
	}
	return out
}

func internalDate(ms string) time.Time {
	v, err := strconv.ParseInt(ms, 10, 64)
	if err != nil || v <= 0 {
		return time.Now().UTC()
	}
	return time.UnixMilli(v).UTC()
}
