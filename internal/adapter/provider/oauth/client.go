package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// Request describes one provider HTTP call. Body is sent as JSON, Form as
// x-www-form-urlencoded; at most one should be set.
type Request struct {
	Method   string
	URL      string
	Token    string
	Header   map[string]string
	Body     any
	Form     url.Values
	Username string
	Password string
}

// Response is a fully read provider response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode <= 299 }

// Client performs provider calls, retrying network errors, 429 and 5xx with
// Retry-After aware exponential delays.
type Client struct {
	provider   domain.IntegrationType
	httpClient *http.Client
	log        *slog.Logger
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRetry sets the retry budget and the delay bounds.
func WithRetry(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.baseDelay = baseDelay
		c.maxDelay = maxDelay
	}
}

// NewClient creates a client for the given provider.
func NewClient(provider domain.IntegrationType, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c := &Client{
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", string(provider)),
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
		maxDelay:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider the client talks to.
func (c *Client) Provider() domain.IntegrationType { return c.provider }

// Do executes r and returns the response of the last attempt whatever its
// status. An error means no response was received.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	var body []byte
	contentType := ""
	switch {
	case r.Form != nil:
		body = []byte(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.Body != nil:
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", c.provider, err)
		}
		body = b
		contentType = "application/json"
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, r.URL, bytesReader(body))
		if err != nil {
			return nil, fmt.Errorf("%s: build request: %w", c.provider, err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}
		if r.Token != "" {
			req.Header.Set("Authorization", "Bearer "+r.Token)
		}
		if r.Username != "" {
			req.SetBasicAuth(r.Username, r.Password)
		}
		for k, v := range r.Header {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < c.maxRetries && ctx.Err() == nil {
				c.log.WarnContext(ctx, "provider request failed, retrying",
					slog.Int("attempt", attempt+1), slog.String("error", err.Error()))
				if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, "")); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, err
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%s: read response: %w", c.provider, readErr)
		}

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if retryable && attempt < c.maxRetries {
			c.log.WarnContext(ctx, "provider request throttled or failed, retrying",
				slog.Int("attempt", attempt+1), slog.Int("status", resp.StatusCode))
			if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, resp.Header.Get("Retry-After"))); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
	}
}

// JSON executes r and decodes a 2xx body into dst. Any other outcome is a
// *domain.ProviderAPIError.
func (c *Client) JSON(ctx context.Context, r Request, dst any) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return &domain.ProviderAPIError{Provider: c.provider, StatusCode: http.StatusBadGateway, Message: err.Error()}
	}
	if !resp.OK() {
		return &domain.ProviderAPIError{Provider: c.provider, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if dst == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, dst); err != nil {
		return &domain.ProviderAPIError{Provider: c.provider, StatusCode: resp.StatusCode, Message: "invalid json response"}
	}
	return nil
}

// Exchange executes a token request and decodes a 2xx body into dst.
// A non-2xx response becomes a *domain.OAuthExchangeError carrying the
// provider's payload.
func (c *Client) Exchange(ctx context.Context, r Request, dst any) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		c.log.ErrorContext(ctx, "oauth token exchange failed", slog.String("error", err.Error()))
		return &domain.ProviderAPIError{Provider: c.provider, StatusCode: http.StatusBadGateway, Message: err.Error()}
	}
	if !resp.OK() {
		c.log.ErrorContext(ctx, "oauth token exchange rejected", slog.Int("status", resp.StatusCode))
		return ExchangeFailed(c.provider, resp.StatusCode, resp.Body)
	}
	if err := json.Unmarshal(resp.Body, dst); err != nil {
		return ExchangeFailed(c.provider, resp.StatusCode, resp.Body)
	}
	return nil
}

// ExchangeFailed builds an OAuthExchangeError from a raw provider body.
func ExchangeFailed(provider domain.IntegrationType, status int, body []byte) *domain.OAuthExchangeError {
	payload := map[string]any{}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		payload = map[string]any{"error": strings.TrimSpace(string(body))}
	}
	return &domain.OAuthExchangeError{Provider: provider, StatusCode: status, Payload: payload}
}

// errorMessage extracts a human readable message from common error shapes.
func errorMessage(body []byte) string {
	var parsed map[string]any
	if json.Unmarshal(body, &parsed) == nil {
		for _, key := range []string{"message", "error_description", "error"} {
			switch v := parsed[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if msg, ok := v["message"].(string); ok && msg != "" {
					return msg
				}
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func (c *Client) retryDelay(attempt int, retryAfterHeader string) time.Duration {
	if retryAfter := parseRetryAfterSeconds(retryAfterHeader); retryAfter > 0 {
		if retryAfter > c.maxDelay {
			return c.maxDelay
		}
		return retryAfter
	}
	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.maxDelay {
			return c.maxDelay
		}
	}
	return delay
}

func parseRetryAfterSeconds(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func bytesReader(b []byte) io.Reader {
	if b == nil {
		return nil
	}
	return bytes.NewReader(b)
}
