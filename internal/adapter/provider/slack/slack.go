// Package slack implements the Slack adapter: OAuth v2 install, channel
// history paging, message extraction, and Events API request verification.
package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var (
	// Made variables for testing purposes
	authorizeURL = "https://slack.com/oauth/v2/authorize"
	apiBaseURL   = "https://slack.com/api"
)

const (
	scopes         = "channels:history,channels:read,groups:history,groups:read,users:read"
	minTextLength  = 10
	maxSlackPage   = 200
	channelsLimit  = 200
	settingChannel = "channels"
)

// Adapter is the Slack provider adapter.
type Adapter struct {
	app    provider.App
	client *oauth.Client
	log    *slog.Logger
}

// New creates a Slack adapter.
func New(client *oauth.Client, logger *slog.Logger, app provider.App) *Adapter {
	return &Adapter{
		app:    app,
		client: client,
		log:    logger.With("adapter", "slack"),
	}
}

func (a *Adapter) Type() domain.IntegrationType { return domain.IntegrationSlack }

// AuthURL returns the Slack install URL.
func (a *Adapter) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", a.app.ClientID)
	q.Set("scope", scopes)
	q.Set("redirect_uri", a.app.RedirectURI)
	q.Set("state", state)
	return authorizeURL + "?" + q.Encode()
}

// apiResponse is the envelope every Slack Web API method returns.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type accessResponse struct {
	apiResponse
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	BotUserID   string `json:"bot_user_id"`
	Team        struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
}

// Exchange completes the install. The Slack team id becomes the external id
// used to route Events API callbacks.
func (a *Adapter) Exchange(ctx context.Context, code string) (*domain.Grant, error) {
	form := url.Values{}
	form.Set("client_id", a.app.ClientID)
	form.Set("client_secret", a.app.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", a.app.RedirectURI)

	resp, err := a.client.Do(ctx, oauth.Request{Method: http.MethodPost, URL: apiBaseURL + "/oauth.v2.access", Form: form})
	if err != nil {
		return nil, &domain.ProviderAPIError{Provider: domain.IntegrationSlack, StatusCode: http.StatusBadGateway, Message: err.Error()}
	}

	var out accessResponse
	if !resp.OK() || json.Unmarshal(resp.Body, &out) != nil || !out.OK || out.AccessToken == "" {
		return nil, oauth.ExchangeFailed(domain.IntegrationSlack, resp.StatusCode, resp.Body)
	}

	return &domain.Grant{
		Credentials: domain.Credentials{
			AccessToken: out.AccessToken,
			Scope:       out.Scope,
			TokenType:   out.TokenType,
		},
		ExternalID: out.Team.ID,
		Settings:   map[string]any{"teamName": out.Team.Name},
	}, nil
}

// cursor tracks the channel being paged and Slack's own cursor within it.
type cursor struct {
	Channels []string `json:"ch"`
	Index    int      `json:"i"`
	Next     string   `json:"c,omitempty"`
}

type historyResponse struct {
	apiResponse
	Messages         []map[string]any `json:"messages"`
	HasMore          bool             `json:"has_more"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

type channelsResponse struct {
	apiResponse
	Channels []struct {
		ID         string `json:"id"`
		IsMember   bool   `json:"is_member"`
		IsArchived bool   `json:"is_archived"`
	} `json:"channels"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

// Fetch pages through the history of the configured channels, or of every
// channel the app is a member of when none are configured. Messages are
// returned newest first with their channel id attached.
func (a *Adapter) Fetch(ctx context.Context, creds domain.Credentials, settings map[string]any, raw string) (provider.Page, error) {
	var cur cursor
	if err := provider.DecodeCursor(raw, &cur); err != nil {
		return provider.Page{}, err
	}
	if raw == "" {
		channels := provider.StringsSetting(settings, settingChannel)
		if len(channels) == 0 {
			listed, err := a.listChannels(ctx, creds.AccessToken)
			if err != nil {
				return provider.Page{}, err
			}
			channels = listed
		}
		cur.Channels = channels
	}
	if cur.Index >= len(cur.Channels) {
		return provider.Page{}, nil
	}

	channel := cur.Channels[cur.Index]
	q := url.Values{}
	q.Set("channel", channel)
	q.Set("limit", strconv.Itoa(a.app.Limit(maxSlackPage)))
	if cur.Next != "" {
		q.Set("cursor", cur.Next)
	}

	var hist historyResponse
	if err := a.call(ctx, creds.AccessToken, "conversations.history", q, &hist); err != nil {
		return provider.Page{}, fmt.Errorf("slack.Fetch channel %s: %w", channel, err)
	}

	page := provider.Page{Items: make([]json.RawMessage, 0, len(hist.Messages))}
	for _, m := range hist.Messages {
		m["channel"] = channel
		item, err := json.Marshal(m)
		if err != nil {
			continue
		}
		page.Items = append(page.Items, item)
	}

	next := cursor{Channels: cur.Channels, Index: cur.Index}
	if hist.HasMore && hist.ResponseMetadata.NextCursor != "" {
		next.Next = hist.ResponseMetadata.NextCursor
	} else {
		next.Index++
	}
	if next.Index < len(next.Channels) {
		page.Next = provider.EncodeCursor(next)
	}
	return page, nil
}

func (a *Adapter) listChannels(ctx context.Context, token string) ([]string, error) {
	var ids []string
	next := ""
	for {
		q := url.Values{}
		q.Set("types", "public_channel,private_channel")
		q.Set("exclude_archived", "true")
		q.Set("limit", strconv.Itoa(channelsLimit))
		if next != "" {
			q.Set("cursor", next)
		}

		var resp channelsResponse
		if err := a.call(ctx, token, "conversations.list", q, &resp); err != nil {
			return nil, fmt.Errorf("slack.listChannels: %w", err)
		}
		for _, ch := range resp.Channels {
			if ch.IsMember && !ch.IsArchived {
				ids = append(ids, ch.ID)
			}
		}
		next = resp.ResponseMetadata.NextCursor
		if next == "" {
			return ids, nil
		}
	}
}

// call invokes a Web API method. Slack reports most failures as HTTP 200
// with ok=false.
func (a *Adapter) call(ctx context.Context, token, method string, q url.Values, dst interface{ ok() (bool, string) }) error {
	if err := a.client.JSON(ctx, oauth.Request{URL: apiBaseURL + "/" + method + "?" + q.Encode(), Token: token}, dst); err != nil {
		return err
	}
	if ok, msg := dst.ok(); !ok {
		status := http.StatusBadRequest
		if msg == "ratelimited" {
			status = http.StatusTooManyRequests
		}
		return &domain.ProviderAPIError{Provider: domain.IntegrationSlack, StatusCode: status, Message: msg}
	}
	return nil
}

func (r *apiResponse) ok() (bool, string) { return r.OK, r.Error }

// Message is the subset of a Slack message (from history or an event) that
// extraction reads.
type Message struct {
	Type     string `json:"type"`
	Subtype  string `json:"subtype"`
	BotID    string `json:"bot_id"`
	Text     string `json:"text"`
	User     string `json:"user"`
	Ts       string `json:"ts"`
	ThreadTs string `json:"thread_ts"`
	Channel  string `json:"channel"`
}

// Extract maps a message to a memory. Subtyped messages (joins, bot posts,
// edits) and very short texts are skipped.
func (a *Adapter) Extract(raw json.RawMessage, _ map[string]any) (domain.MemoryDraft, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return domain.MemoryDraft{}, fmt.Errorf("slack.Extract: %w", err)
	}
	return ExtractMessage(m)
}

// ExtractMessage maps a decoded message to a memory.
func ExtractMessage(m Message) (domain.MemoryDraft, error) {
	text := strings.TrimSpace(m.Text)
	if m.Subtype != "" || m.BotID != "" || utf8.RuneCountInString(text) < minTextLength {
		return domain.MemoryDraft{}, provider.ErrSkip
	}
	if m.Channel == "" || m.Ts == "" {
		return domain.MemoryDraft{}, errors.New("slack.Extract: message without channel or ts")
	}

	metadata := map[string]any{"channel": m.Channel, "ts": m.Ts}
	if m.ThreadTs != "" {
		metadata["threadTs"] = m.ThreadTs
	}

	var participants []string
	if m.User != "" {
		participants = []string{m.User}
	}

	return domain.MemoryDraft{
		Content:      text,
		Type:         provider.Classify(text),
		Source:       string(domain.IntegrationSlack),
		SourceID:     provider.Ptr("slack-" + m.Channel + "-" + m.Ts),
		Author:       provider.Ptr(m.User),
		Participants: participants,
		Timestamp:    parseTs(m.Ts),
		Metadata:     metadata,
	}, nil
}

// parseTs converts a Slack "seconds.micros" timestamp.
func parseTs(ts string) time.Time {
	secs, frac, _ := strings.Cut(ts, ".")
	s, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Now().UTC()
	}
	var nanos int64
	if frac != "" {
		frac = (frac + "000000000")[:9]
		nanos, _ = strconv.ParseInt(frac, 10, 64)
	}
	return time.Unix(s, nanos).UTC()
}
