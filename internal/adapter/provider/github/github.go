// Package github implements the GitHub adapter: OAuth app flow, issue and
// pull request paging across repositories, and extraction.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var (
	// Made variables for testing purposes
	authorizeURL = "https://github.com/login/oauth/authorize"
	tokenURL     = "https://github.com/login/oauth/access_token"
	apiBaseURL   = "https://api.github.com"
)

const (
	scopes      = "repo read:org read:user"
	maxPageSize = 100
	maxRepos    = 100
)

var apiHeaders = map[string]string{
	"Accept":               "application/vnd.github+json",
	"X-GitHub-Api-Version": "2022-11-28",
}

// Adapter is the GitHub provider adapter.
type Adapter struct {
	app    provider.App
	client *oauth.Client
	log    *slog.Logger
}

// New creates a GitHub adapter.
func New(client *oauth.Client, logger *slog.Logger, app provider.App) *Adapter {
	return &Adapter{app: app, client: client, log: logger.With("adapter", "github")}
}

func (a *Adapter) Type() domain.IntegrationType { return domain.IntegrationGitHub }

// AuthURL returns the GitHub authorization URL.
func (a *Adapter) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", a.app.ClientID)
	q.Set("redirect_uri", a.app.RedirectURI)
	q.Set("scope", scopes)
	q.Set("state", state)
	return authorizeURL + "?" + q.Encode()
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades the code for a token. GitHub reports a bad code as a 200
// response carrying an error field.
func (a *Adapter) Exchange(ctx context.Context, code string) (*domain.Grant, error) {
	form := url.Values{}
	form.Set("client_id", a.app.ClientID)
	form.Set("client_secret", a.app.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", a.app.RedirectURI)

	resp, err := a.client.Do(ctx, oauth.Request{Method: http.MethodPost, URL: tokenURL, Form: form})
	if err != nil {
		return nil, &domain.ProviderAPIError{Provider: domain.IntegrationGitHub, StatusCode: http.StatusBadGateway, Message: err.Error()}
	}
	var tok tokenResponse
	if !resp.OK() || json.Unmarshal(resp.Body, &tok) != nil || tok.Error != "" || tok.AccessToken == "" {
		return nil, oauth.ExchangeFailed(domain.IntegrationGitHub, resp.StatusCode, resp.Body)
	}

	grant := &domain.Grant{Credentials: domain.Credentials{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Scope:       tok.Scope,
	}}

	var user struct {
		Login string `json:"login"`
	}
	if err := a.client.JSON(ctx, oauth.Request{URL: apiBaseURL + "/user", Token: tok.AccessToken, Header: apiHeaders}, &user); err != nil {
		a.log.WarnContext(ctx, "github user lookup failed", slog.String("error", err.Error()))
	} else {
		grant.ExternalID = user.Login
	}
	return grant, nil
}

// cursor tracks the repository being paged and GitHub's 1-based page number.
type cursor struct {
	Repos []string `json:"r"`
	Index int      `json:"i"`
	Page  int      `json:"p"`
}

type repo struct {
	FullName string `json:"full_name"`
	Archived bool   `json:"archived"`
}

// Fetch pages through issues and pull requests of the configured repos
// (settings.repos as "owner/name"), or of the user's most recently updated
// non-archived repos, most recently updated first.
func (a *Adapter) Fetch(ctx context.Context, creds domain.Credentials, settings map[string]any, raw string) (provider.Page, error) {
	var cur cursor
	if err := provider.DecodeCursor(raw, &cur); err != nil {
		return provider.Page{}, err
	}
	if raw == "" {
		repos := provider.StringsSetting(settings, "repos")
		if len(repos) == 0 {
			listed, err := a.listRepos(ctx, creds.AccessToken)
			if err != nil {
				return provider.Page{}, err
			}
			repos = listed
		}
		cur = cursor{Repos: repos, Page: 1}
	}
	if cur.Index >= len(cur.Repos) {
		return provider.Page{}, nil
	}

	repoName := cur.Repos[cur.Index]
	limit := a.app.Limit(maxPageSize)
	q := url.Values{}
	q.Set("state", "all")
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("per_page", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(cur.Page))

	var issues []map[string]any
	err := a.client.JSON(ctx, oauth.Request{
		URL:    apiBaseURL + "/repos/" + repoName + "/issues?" + q.Encode(),
		Token:  creds.AccessToken,
		Header: apiHeaders,
	}, &issues)
	if err != nil {
		return provider.Page{}, fmt.Errorf("github.Fetch %s: %w", repoName, err)
	}

	page := provider.Page{Items: make([]json.RawMessage, 0, len(issues))}
	for _, issue := range issues {
		issue["repository"] = repoName
		item, err := json.Marshal(issue)
		if err != nil {
			continue
		}
		page.Items = append(page.Items, item)
	}

	next := cursor{Repos: cur.Repos, Index: cur.Index, Page: cur.Page + 1}
	if len(issues) < limit {
		next.Index++
		next.Page = 1
	}
	if next.Index < len(next.Repos) {
		page.Next = provider.EncodeCursor(next)
	}
	return page, nil
}

func (a *Adapter) listRepos(ctx context.Context, token string) ([]string, error) {
	var repos []repo
	err := a.client.JSON(ctx, oauth.Request{
		URL:    apiBaseURL + "/user/repos?sort=updated&per_page=" + strconv.Itoa(maxRepos),
		Token:  token,
		Header: apiHeaders,
	}, &repos)
	if err != nil {
		return nil, fmt.Errorf("github.listRepos: %w", err)
	}

	names := make([]string, 0, len(repos))
	for _, r := range repos {
		if r.Archived {
			continue
		}
		names = append(names, r.FullName)
	}
	return names, nil
}

type issue struct {
	ID         int64     `json:"id"`
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	State      string    `json:"state"`
	HTMLURL    string    `json:"html_url"`
	UpdatedAt  time.Time `json:"updated_at"`
	Repository string    `json:"repository"`
	User       struct {
		Login string `json:"login"`
	} `json:"user"`
	Assignees []struct {
		Login string `json:"login"`
	} `json:"assignees"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	PullRequest *struct {
		MergedAt *time.Time `json:"merged_at"`
	} `json:"pull_request"`
}

// Extract maps an issue or pull request to a memory. A merged pull request
// is a decision and an open issue defaults to an action item; otherwise the
// keyword classifier decides.
func (a *Adapter) Extract(raw json.RawMessage, _ map[string]any) (domain.MemoryDraft, error) {
	var is issue
	if err := json.Unmarshal(raw, &is); err != nil {
		return domain.MemoryDraft{}, fmt.Errorf("github.Extract: %w", err)
	}
	title := strings.TrimSpace(is.Title)
	if title == "" {
		return domain.MemoryDraft{}, provider.ErrSkip
	}

	content := title
	if body := strings.TrimSpace(is.Body); body != "" {
		content += "\n\n" + body
	}

	kind := "issue"
	typ := provider.Classify(content)
	switch {
	case is.PullRequest != nil:
		kind = "pull_request"
		if is.PullRequest.MergedAt != nil {
			typ = domain.MemoryTypeDecision
		}
	case is.State == "open" && typ == domain.MemoryTypeDiscussion:
		typ = domain.MemoryTypeActionItem
	}

	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.Name)
	}
	participants := make([]string, 0, len(is.Assignees)+1)
	if is.User.Login != "" {
		participants = append(participants, is.User.Login)
	}
	for _, as := range is.Assignees {
		if as.Login != "" && as.Login != is.User.Login {
			participants = append(participants, as.Login)
		}
	}

	return domain.MemoryDraft{
		Content:      content,
		Type:         typ,
		Source:       string(domain.IntegrationGitHub),
		SourceID:     provider.Ptr("gh-" + strconv.FormatInt(is.ID, 10)),
		SourceURL:    provider.Ptr(is.HTMLURL),
		Author:       provider.Ptr(is.User.Login),
		Participants: participants,
		Timestamp:    is.UpdatedAt,
		Metadata: map[string]any{
			"repository": is.Repository,
			"number":     is.Number,
			"state":      is.State,
			"kind":       kind,
			"labels":     labels,
		},
	}, nil
}
