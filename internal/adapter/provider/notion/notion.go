// Package notion implements the Notion adapter: public integration OAuth,
// workspace search paging and page extraction.
package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var (
	// Made variables for testing purposes
	apiBaseURL = "https://api.notion.com/v1"
)

const (
	apiVersion  = "2022-06-28"
	maxPageSize = 100
)

// Adapter is the Notion provider adapter.
type Adapter struct {
	app    provider.App
	client *oauth.Client
	log    *slog.Logger
}

// New creates a Notion adapter.
func New(client *oauth.Client, logger *slog.Logger, app provider.App) *Adapter {
	return &Adapter{app: app, client: client, log: logger.With("adapter", "notion")}
}

func (a *Adapter) Type() domain.IntegrationType { return domain.IntegrationNotion }

// AuthURL returns the Notion consent URL.
func (a *Adapter) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", a.app.ClientID)
	q.Set("response_type", "code")
	q.Set("owner", "user")
	q.Set("redirect_uri", a.app.RedirectURI)
	q.Set("state", state)
	return apiBaseURL + "/oauth/authorize?" + q.Encode()
}

type tokenResponse struct {
	AccessToken   string `json:"access_token"`
	TokenType     string `json:"token_type"`
	BotID         string `json:"bot_id"`
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
}

// Exchange trades the code for a workspace token. Notion authenticates the
// client with HTTP basic auth.
func (a *Adapter) Exchange(ctx context.Context, code string) (*domain.Grant, error) {
	var tok tokenResponse
	err := a.client.Exchange(ctx, oauth.Request{
		Method:   http.MethodPost,
		URL:      apiBaseURL + "/oauth/token",
		Username: a.app.ClientID,
		Password: a.app.ClientSecret,
		Header:   map[string]string{"Notion-Version": apiVersion},
		Body: map[string]string{
			"grant_type":   "authorization_code",
			"code":         code,
			"redirect_uri": a.app.RedirectURI,
		},
	}, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, &domain.OAuthExchangeError{Provider: domain.IntegrationNotion, StatusCode: http.StatusOK,
			Payload: map[string]any{"error": "missing access_token"}}
	}

	return &domain.Grant{
		Credentials: domain.Credentials{AccessToken: tok.AccessToken, TokenType: tok.TokenType},
		ExternalID:  tok.WorkspaceID,
		Settings:    map[string]any{"workspaceName": tok.WorkspaceName},
	}, nil
}

type searchResponse struct {
	Results    []json.RawMessage `json:"results"`
	NextCursor *string           `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

// Fetch lists pages shared with the integration, most recently edited first.
func (a *Adapter) Fetch(ctx context.Context, creds domain.Credentials, _ map[string]any, cursor string) (provider.Page, error) {
	body := map[string]any{
		"filter":    map[string]string{"property": "object", "value": "page"},
		"sort":      map[string]string{"direction": "descending", "timestamp": "last_edited_time"},
		"page_size": a.app.Limit(maxPageSize),
	}
	if cursor != "" {
		body["start_cursor"] = cursor
	}

	var resp searchResponse
	err := a.client.JSON(ctx, oauth.Request{
		Method: http.MethodPost,
		URL:    apiBaseURL + "/search",
		Token:  creds.AccessToken,
		Header: map[string]string{"Notion-Version": apiVersion},
		Body:   body,
	}, &resp)
	if err != nil {
		return provider.Page{}, fmt.Errorf("notion.Fetch: %w", err)
	}

	page := provider.Page{Items: resp.Results}
	if resp.HasMore && resp.NextCursor != nil {
		page.Next = *resp.NextCursor
	}
	return page, nil
}

type richText struct {
	PlainText string `json:"plain_text"`
}

type property struct {
	Type     string     `json:"type"`
	Title    []richText `json:"title"`
	RichText []richText `json:"rich_text"`
}

type page struct {
	ID             string              `json:"id"`
	URL            string              `json:"url"`
	Archived       bool                `json:"archived"`
	InTrash        bool                `json:"in_trash"`
	CreatedTime    time.Time           `json:"created_time"`
	LastEditedTime time.Time           `json:"last_edited_time"`
	CreatedBy      struct{ ID string } `json:"created_by"`
	Properties     map[string]property `json:"properties"`
}

// Extract maps a page to a document memory built from its title and text
// properties. Archived and empty pages are skipped.
func (a *Adapter) Extract(raw json.RawMessage, _ map[string]any) (domain.MemoryDraft, error) {
	var p page
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.MemoryDraft{}, fmt.Errorf("notion.Extract: %w", err)
	}
	if p.Archived || p.InTrash {
		return domain.MemoryDraft{}, provider.ErrSkip
	}

	var title string
	names := make([]string, 0, len(p.Properties))
	for name := range p.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var texts []string
	for _, name := range names {
		prop := p.Properties[name]
		switch prop.Type {
		case "title":
			title = joinText(prop.Title)
		case "rich_text":
			if t := joinText(prop.RichText); t != "" {
				texts = append(texts, name+": "+t)
			}
		}
	}

	parts := make([]string, 0, len(texts)+1)
	if title != "" {
		parts = append(parts, title)
	}
	parts = append(parts, texts...)
	content := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if content == "" {
		return domain.MemoryDraft{}, provider.ErrSkip
	}

	ts := p.LastEditedTime
	if ts.IsZero() {
		ts = p.CreatedTime
	}

	return domain.MemoryDraft{
		Content:   content,
		Type:      domain.MemoryTypeDocument,
		Source:    string(domain.IntegrationNotion),
		SourceID:  provider.Ptr("notion-" + p.ID),
		SourceURL: provider.Ptr(p.URL),
		Author:    provider.Ptr(p.CreatedBy.ID),
		Timestamp: ts,
		Metadata:  map[string]any{"title": title, "pageId": p.ID},
	}, nil
}

func joinText(parts []richText) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.PlainText)
	}
	return strings.TrimSpace(b.String())
}
