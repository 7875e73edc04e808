package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flipflop-backend/internal/service/auth"
)

type sessionService interface {
	CreateExtensionSession(ctx context.Context) (*auth.SessionResult, error)
	RevokeExtensionSession(ctx context.Context, token string) error
}

// SessionHandler serves /extension/session endpoints.
type SessionHandler struct {
	svc sessionService
	log *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, log: logger.With("handler", "session")}
}

type revokeSessionRequest struct {
	Token string `json:"token"`
}

// Create handles POST /extension/session. The token is returned once.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CreateExtensionSession(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// Revoke handles DELETE /extension/session. Without a token in the body all
// of the caller's extension sessions are revoked.
func (h *SessionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	var req revokeSessionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if err := h.svc.RevokeExtensionSession(r.Context(), req.Token); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
