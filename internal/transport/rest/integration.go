package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/service/integration"
)

type integrationService interface {
	List(ctx context.Context) ([]domain.Integration, error)
	Available() []domain.IntegrationType
	AuthURL(ctx context.Context, typ domain.IntegrationType) (string, error)
	HandleCallback(ctx context.Context, typ domain.IntegrationType, code, state string) (*domain.Integration, error)
	Update(ctx context.Context, typ domain.IntegrationType, input integration.UpdateInput) (*domain.Integration, error)
	Delete(ctx context.Context, typ domain.IntegrationType) error
	TriggerSync(ctx context.Context, typ domain.IntegrationType) (*domain.Job, error)
	AuditLog(ctx context.Context, limit int) ([]domain.AuditRecord, error)
}

// IntegrationHandler serves /integrations endpoints.
type IntegrationHandler struct {
	svc integrationService
	log *slog.Logger
}

// NewIntegrationHandler creates an IntegrationHandler.
func NewIntegrationHandler(svc integrationService, logger *slog.Logger) *IntegrationHandler {
	return &IntegrationHandler{svc: svc, log: logger.With("handler", "integration")}
}

type integrationListResponse struct {
	Integrations []integration.View `json:"integrations"`
	Available    []string           `json:"available"`
}

type callbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

type updateIntegrationRequest struct {
	Settings map[string]any `json:"settings"`
	Status   *string        `json:"status"`
}

// List handles GET /integrations.
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	available := h.svc.Available()
	names := make([]string, len(available))
	for i, t := range available {
		names[i] = t.String()
	}
	writeJSON(w, http.StatusOK, integrationListResponse{Integrations: integration.ToViews(list), Available: names})
}

// AuthURL handles GET /integrations/{provider}/auth.
func (h *IntegrationHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	typ, ok := h.provider(w, r)
	if !ok {
		return
	}
	url, err := h.svc.AuthURL(r.Context(), typ)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"authUrl": url})
}

// Callback handles POST /integrations/{provider}/callback.
func (h *IntegrationHandler) Callback(w http.ResponseWriter, r *http.Request) {
	typ, ok := h.provider(w, r)
	if !ok {
		return
	}
	var req callbackRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	integ, err := h.svc.HandleCallback(r.Context(), typ, req.Code, req.State)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, integration.ToView(integ))
}

// Update handles PATCH /integrations/{provider}.
func (h *IntegrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	typ, ok := h.provider(w, r)
	if !ok {
		return
	}
	var req updateIntegrationRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := integration.UpdateInput{Settings: req.Settings}
	if req.Status != nil {
		status := domain.IntegrationStatus(*req.Status)
		input.Status = &status
	}

	integ, err := h.svc.Update(r.Context(), typ, input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, integration.ToView(integ))
}

// Delete handles DELETE /integrations/{provider}.
func (h *IntegrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	typ, ok := h.provider(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), typ); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync handles POST /integrations/{provider}/sync.
func (h *IntegrationHandler) Sync(w http.ResponseWriter, r *http.Request) {
	typ, ok := h.provider(w, r)
	if !ok {
		return
	}
	job, err := h.svc.TriggerSync(r.Context(), typ)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "jobId": job.ID.String()})
}

// Audit handles GET /integrations/audit?limit=N.
func (h *IntegrationHandler) Audit(w http.ResponseWriter, r *http.Request) {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			handleError(w, r, h.log, domain.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := h.svc.AuditLog(r.Context(), limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": integration.ToAuditViews(records)})
}

func (h *IntegrationHandler) provider(w http.ResponseWriter, r *http.Request) (domain.IntegrationType, bool) {
	typ := domain.IntegrationType(r.PathValue("provider"))
	if !typ.IsValid() {
		handleError(w, r, h.log, domain.NewValidationError("provider", fmt.Sprintf("unknown provider %q", typ)))
		return "", false
	}
	return typ, true
}
