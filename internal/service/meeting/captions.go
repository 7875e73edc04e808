package meeting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

// AppendCaptions adds captions to the caller's meeting, creating it on the
// first batch. Returns domain.ErrConflict once the meeting has ended.
func (s *Service) AppendCaptions(ctx context.Context, input CaptionsInput) (*domain.Meeting, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	m, err := s.meetings.AppendTranscript(ctx, &domain.Meeting{
		ID:           input.MeetingID,
		TeamID:       teamID,
		UserID:       userID,
		Title:        input.Title,
		Participants: input.participants(),
	}, input.lines())
	if err != nil {
		return nil, fmt.Errorf("meeting.AppendCaptions: %w", err)
	}
	return m, nil
}

// End stops recording and queues the meeting for summarization.
func (s *Service) End(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if errs := validateMeetingID(meetingID); errs != nil {
		return nil, &domain.ValidationError{Errors: errs}
	}

	// The status change and the summary job commit together, so a failed
	// enqueue leaves the meeting recording and End can be retried.
	var m *domain.Meeting
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.meetings.End(ctx, teamID, meetingID)
		if err != nil {
			return err
		}
		_, err = s.jobs.Enqueue(ctx, queue.Meeting, domain.MeetingJob{
			MeetingID:  m.ID,
			TeamID:     teamID,
			Transcript: m.Transcript,
		})
		if err != nil {
			return fmt.Errorf("enqueue: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("meeting.End: %w", err)
	}

	s.log.InfoContext(ctx, "meeting ended",
		slog.String("team_id", teamID.String()),
		slog.String("meeting_id", m.ID),
		slog.Int("transcript_length", len(m.Transcript)),
	)
	return m, nil
}
