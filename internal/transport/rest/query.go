package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/service/query"
)

type queryService interface {
	Ask(ctx context.Context, input query.Input) (*query.Result, error)
}

// QueryHandler serves POST /query.
type QueryHandler struct {
	svc queryService
	log *slog.Logger
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(svc queryService, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{svc: svc, log: logger.With("handler", "query")}
}

type queryRequest struct {
	Question string `json:"question"`
	Context  *struct {
		TimeRange *string `json:"timeRange"`
	} `json:"context"`
}

// Ask answers a question against the caller's team memories.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := query.Input{Question: req.Question}
	if req.Context != nil && req.Context.TimeRange != nil {
		tr := domain.TimeRange(*req.Context.TimeRange)
		input.TimeRange = &tr
	}

	result, err := h.svc.Ask(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
