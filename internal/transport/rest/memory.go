package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/service/memory"
)

type memoryService interface {
	Capture(ctx context.Context, input memory.CaptureInput) (*domain.Memory, error)
	Search(ctx context.Context, input memory.SearchInput) ([]domain.Memory, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Memory, error)
	Patch(ctx context.Context, input memory.PatchInput) (*domain.Memory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (domain.TeamStats, error)
}

// MemoryHandler serves /memories endpoints.
type MemoryHandler struct {
	svc memoryService
	log *slog.Logger
}

// NewMemoryHandler creates a MemoryHandler.
func NewMemoryHandler(svc memoryService, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{svc: svc, log: logger.With("handler", "memory")}
}

type captureRequest struct {
	Content      string         `json:"content"`
	Type         *string        `json:"type"`
	Source       string         `json:"source"`
	SourceID     *string        `json:"sourceId"`
	SourceURL    *string        `json:"sourceUrl"`
	Author       *string        `json:"author"`
	Participants []string       `json:"participants"`
	Timestamp    *time.Time     `json:"timestamp"`
	Metadata     map[string]any `json:"metadata"`
}

type patchMemoryRequest struct {
	Type     *string        `json:"type"`
	Metadata map[string]any `json:"metadata"`
}

type memoryListResponse struct {
	Memories []memory.View `json:"memories"`
	Count    int           `json:"count"`
}

// Search handles GET /memories?q=&type=&source=&from=&to=&limit=.
func (h *MemoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	input, err := parseSearch(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	list, err := h.svc.Search(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, memoryListResponse{Memories: memory.ToViews(list), Count: len(list)})
}

func parseSearch(r *http.Request) (memory.SearchInput, error) {
	q := r.URL.Query()
	input := memory.SearchInput{Query: q.Get("q")}
	var errs []domain.FieldError

	if v := q.Get("type"); v != "" {
		t := domain.MemoryType(v)
		input.Type = &t
	}
	if v := q.Get("source"); v != "" {
		input.Source = &v
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &input.From}, {"to", &input.To}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: p.name, Message: "must be an RFC 3339 timestamp"})
			continue
		}
		*p.dst = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be an integer"})
		}
		input.Limit = n
	}

	if len(errs) > 0 {
		return input, domain.NewValidationErrors(errs)
	}
	return input, nil
}

// Capture handles POST /memories.
func (h *MemoryHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := memory.CaptureInput{
		Content:      req.Content,
		Source:       req.Source,
		SourceID:     req.SourceID,
		SourceURL:    req.SourceURL,
		Author:       req.Author,
		Participants: req.Participants,
		Timestamp:    req.Timestamp,
		Metadata:     req.Metadata,
	}
	if req.Type != nil {
		t := domain.MemoryType(*req.Type)
		input.Type = &t
	}

	m, err := h.svc.Capture(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, memory.ToView(m))
}

// Stats handles GET /memories/stats.
func (h *MemoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get handles GET /memories/{id}.
func (h *MemoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, memory.ToView(m))
}

// Patch handles PATCH /memories/{id}.
func (h *MemoryHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var req patchMemoryRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := memory.PatchInput{ID: id, Metadata: req.Metadata}
	if req.Type != nil {
		t := domain.MemoryType(*req.Type)
		input.Type = &t
	}

	m, err := h.svc.Patch(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, memory.ToView(m))
}

// Delete handles DELETE /memories/{id}.
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MemoryHandler) id(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, domain.NewValidationError("id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
