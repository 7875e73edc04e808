// Package google implements the Google OAuth flow shared by the Gmail and
// Calendar adapters: consent URL, code exchange, token refresh and the
// account lookup used as the integration's external id.
package google

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var (
	// Made variables for testing purposes
	authURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenURL    = "https://oauth2.googleapis.com/token"
	userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// OAuth runs the Google authorization-code flow for one set of scopes.
type OAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	client       *oauth.Client
	log          *slog.Logger
	now          func() time.Time
}

// NewOAuth creates a Google OAuth flow. Parameters come from the provider's
// config section; scopes are requested with offline access so a refresh
// token is issued.
func NewOAuth(client *oauth.Client, logger *slog.Logger, clientID, clientSecret, redirectURI string, scopes ...string) *OAuth {
	return &OAuth{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		scopes:       scopes,
		client:       client,
		log:          logger.With("adapter", "google_oauth", "provider", string(client.Provider())),
		now:          time.Now,
	}
}

// tokenResponse represents the response from Google's token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	Scope        string `json:"scope"`
}

// userinfoResponse represents the response from Google's userinfo endpoint.
type userinfoResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthURL returns the consent screen URL.
func (o *OAuth) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", o.clientID)
	q.Set("redirect_uri", o.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(o.scopes, " "))
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)
	return authURL + "?" + q.Encode()
}

// Exchange trades an authorization code for tokens and resolves the account
// email, which becomes the external id.
func (o *OAuth) Exchange(ctx context.Context, code string) (*domain.Grant, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", o.clientID)
	form.Set("client_secret", o.clientSecret)
	form.Set("redirect_uri", o.redirectURI)

	var tok tokenResponse
	if err := o.client.Exchange(ctx, oauth.Request{Method: http.MethodPost, URL: tokenURL, Form: form}, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, &domain.OAuthExchangeError{
			Provider: o.client.Provider(), StatusCode: http.StatusOK,
			Payload: map[string]any{"error": "missing access_token"},
		}
	}

	grant := &domain.Grant{Credentials: o.credentials(tok, "")}

	// The account email is informational; a failed lookup does not fail the
	// connection.
	var info userinfoResponse
	if err := o.client.JSON(ctx, oauth.Request{URL: userinfoURL, Token: tok.AccessToken}, &info); err != nil {
		o.log.WarnContext(ctx, "google userinfo lookup failed", slog.String("error", err.Error()))
	} else {
		grant.ExternalID = info.Email
	}

	o.log.DebugContext(ctx, "google oauth success", slog.String("account", grant.ExternalID))
	return grant, nil
}

// Refresh obtains a new access token. Google omits the refresh token on
// refresh, so the existing one is kept.
func (o *OAuth) Refresh(ctx context.Context, creds domain.Credentials) (*domain.Credentials, error) {
	if creds.RefreshToken == "" {
		return nil, &domain.ProviderAPIError{
			Provider: o.client.Provider(), StatusCode: http.StatusUnauthorized,
			Message: "access token expired and no refresh token is stored",
		}
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", creds.RefreshToken)
	form.Set("client_id", o.clientID)
	form.Set("client_secret", o.clientSecret)

	var tok tokenResponse
	if err := o.client.JSON(ctx, oauth.Request{Method: http.MethodPost, URL: tokenURL, Form: form}, &tok); err != nil {
		return nil, err
	}
	out := o.credentials(tok, creds.RefreshToken)
	return &out, nil
}

func (o *OAuth) credentials(tok tokenResponse, fallbackRefresh string) domain.Credentials {
	c := domain.Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    tok.ExpiresIn,
		Scope:        tok.Scope,
		TokenType:    tok.TokenType,
	}
	if c.RefreshToken == "" {
		c.RefreshToken = fallbackRefresh
	}
	if tok.ExpiresIn > 0 {
		c.ExpiryDate = o.now().Add(time.Duration(tok.ExpiresIn) * time.Second).UnixMilli()
	}
	return c
}
