package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/slack"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// slackEventTimeout bounds the asynchronous processing of one event.
const slackEventTimeout = 30 * time.Second

type slackEventService interface {
	VerifySlackRequest(timestamp, signature string, body []byte) error
	HandleSlackEvent(ctx context.Context, env slack.Envelope) error
}

// SlackHandler serves the Slack Events API webhook.
type SlackHandler struct {
	svc      slackEventService
	dispatch func(func())
	log      *slog.Logger

	inflight sync.WaitGroup
}

// NewSlackHandler creates a SlackHandler. Events are processed after the
// request is acknowledged.
func NewSlackHandler(svc slackEventService, logger *slog.Logger) *SlackHandler {
	return &SlackHandler{
		svc:      svc,
		dispatch: func(f func()) { go f() },
		log:      logger.With("handler", "slack"),
	}
}

// Webhook handles POST /integrations/slack/webhook. A url_verification
// challenge is echoed before the signature check; every other request must
// carry a valid signature and is acknowledged immediately.
func (h *SlackHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		handleError(w, r, h.log, domain.NewValidationError("body", "unreadable body"))
		return
	}

	env, err := slack.ParseEnvelope(body)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if env.Type == slack.EnvelopeURLVerification {
		writeJSON(w, http.StatusOK, map[string]string{"challenge": env.Challenge})
		return
	}

	err = h.svc.VerifySlackRequest(r.Header.Get("X-Slack-Request-Timestamp"), r.Header.Get("X-Slack-Signature"), body)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	h.inflight.Add(1)
	h.dispatch(func() {
		defer h.inflight.Done()
		ctx, cancel := context.WithTimeout(ctx, slackEventTimeout)
		defer cancel()
		if err := h.svc.HandleSlackEvent(ctx, env); err != nil {
			h.log.ErrorContext(ctx, "handle slack event",
				slog.String("event_id", env.EventID),
				slog.String("error", err.Error()),
			)
		}
	})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Wait blocks until every acknowledged event has been processed or ctx is
// done. Call it after the HTTP server has stopped accepting requests.
func (h *SlackHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
