package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

type jobAdmin interface {
	Stats(ctx context.Context) ([]domain.JobStats, error)
	RetryFailed(ctx context.Context) (int, error)
}

// AdminHandler serves admin REST endpoints. Routes are mounted behind an
// owner-only role check.
type AdminHandler struct {
	jobs jobAdmin
	log  *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(jobs jobAdmin, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		jobs: jobs,
		log:  logger.With("handler", "admin"),
	}
}

// JobStats returns per-queue job counts.
// GET /admin/jobs/stats
func (h *AdminHandler) JobStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.jobs.Stats(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if stats == nil {
		stats = []domain.JobStats{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"queues": stats})
}

// RetryFailed moves every failed job back to pending.
// POST /admin/jobs/retry-failed
func (h *AdminHandler) RetryFailed(w http.ResponseWriter, r *http.Request) {
	n, err := h.jobs.RetryFailed(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	h.log.InfoContext(r.Context(), "failed jobs requeued", slog.Int("count", n))
	writeJSON(w, http.StatusOK, map[string]int{"retried": n})
}
