package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/service/meeting"
)

type meetingService interface {
	AppendCaptions(ctx context.Context, input meeting.CaptionsInput) (*domain.Meeting, error)
	End(ctx context.Context, meetingID string) (*domain.Meeting, error)
}

// MeetingHandler serves /meetings endpoints.
type MeetingHandler struct {
	svc meetingService
	log *slog.Logger
}

// NewMeetingHandler creates a MeetingHandler.
func NewMeetingHandler(svc meetingService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{svc: svc, log: logger.With("handler", "meeting")}
}

type captionsRequest struct {
	Title        *string           `json:"title"`
	Participants []string          `json:"participants"`
	Captions     []meeting.Caption `json:"captions"`
}

// Captions handles POST /meetings/{id}/captions.
func (h *MeetingHandler) Captions(w http.ResponseWriter, r *http.Request) {
	var req captionsRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	m, err := h.svc.AppendCaptions(r.Context(), meeting.CaptionsInput{
		MeetingID:    r.PathValue("id"),
		Title:        req.Title,
		Participants: req.Participants,
		Captions:     req.Captions,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, meeting.ToView(m))
}

// End handles POST /meetings/{id}/end.
func (h *MeetingHandler) End(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.End(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, meeting.ToView(m))
}
