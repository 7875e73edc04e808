package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// queueStats reports per-queue job counts.
type queueStats interface {
	Stats(ctx context.Context) ([]domain.JobStats, error)
}

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusDown     = "down"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db      dbPinger
	queue   queueStats
	version string
}

// NewHealthHandler creates a HealthHandler. queue may be nil, in which case
// /health reports the database only.
func NewHealthHandler(db dbPinger, queue queueStats, version string) *HealthHandler {
	return &HealthHandler{db: db, queue: queue, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Pending int    `json:"pending,omitempty"`
	Failed  int    `json:"failed,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    statusOK,
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings DB: 200 if OK, 503 if not.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    statusDown,
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    statusOK,
		Timestamp: time.Now(),
	})
}

// Health is the full health check. A database failure is fatal (503); failed
// jobs or an unreadable queue only degrade the report.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overall := statusOK

	start := time.Now()
	err := h.db.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		components["database"] = CompStatus{Status: statusDown}
		overall = statusDown
	} else {
		components["database"] = CompStatus{Status: statusOK, Latency: latency.String()}
	}

	if h.queue != nil && overall != statusDown {
		comp := h.queueStatus(ctx)
		components["queue"] = comp
		if comp.Status != statusOK {
			overall = statusDegraded
		}
	}

	status := http.StatusOK
	if overall == statusDown {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) queueStatus(ctx context.Context) CompStatus {
	stats, err := h.queue.Stats(ctx)
	if err != nil {
		return CompStatus{Status: statusDown}
	}
	comp := CompStatus{Status: statusOK}
	for _, s := range stats {
		comp.Pending += s.Pending
		comp.Failed += s.Failed
	}
	if comp.Failed > 0 {
		comp.Status = statusDegraded
	}
	return comp
}
