package meeting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

// maxTranscriptRunes caps the transcript sent to the model; later text is cut.
const maxTranscriptRunes = 30000

const summaryPrompt = `You summarize team meetings. Write a concise summary of the transcript.
List the decisions made and the action items with their owners when they are named.
Use plain text with short sections "Summary", "Decisions" and "Action items".
Do not invent anything that is not in the transcript.`

// HandleJob summarizes a finished meeting into a memory and marks it done.
func (s *Service) HandleJob(ctx context.Context, job domain.Job) error {
	payload, err := queue.Decode[domain.MeetingJob](job)
	if err != nil {
		return err
	}
	log := s.log.With(slog.String("meeting_id", payload.MeetingID), slog.String("team_id", payload.TeamID.String()))

	m, err := s.meetings.Get(ctx, payload.TeamID, payload.MeetingID)
	if err != nil {
		return fmt.Errorf("meeting.HandleJob load: %w", err)
	}

	transcript := strings.TrimSpace(payload.Transcript)
	if transcript == "" {
		transcript = strings.TrimSpace(m.Transcript)
	}
	if transcript == "" {
		log.InfoContext(ctx, "empty transcript, nothing to summarize")
		return s.setStatus(ctx, m, domain.MeetingStatusDone)
	}

	summary, err := s.completer.Complete(ctx, summaryPrompt, clip(transcript, maxTranscriptRunes))
	if err != nil {
		return fmt.Errorf("meeting.HandleJob summarize: %w", err)
	}

	metadata := map[string]any{"transcriptLength": utf8.RuneCountInString(transcript)}
	if m.Title != nil {
		metadata["title"] = *m.Title
	}
	if m.EndedAt != nil {
		metadata["endedAt"] = m.EndedAt
	}

	memory, _, err := s.memories.Upsert(ctx, payload.TeamID, domain.MemoryDraft{
		Content:      summary,
		Type:         domain.MemoryTypeMeeting,
		Source:       domain.SourceGoogleMeet,
		SourceID:     &m.ID,
		Participants: m.Participants,
		Timestamp:    m.StartedAt,
		Metadata:     metadata,
	})
	if err != nil {
		return fmt.Errorf("meeting.HandleJob store: %w", err)
	}

	if err := s.setStatus(ctx, m, domain.MeetingStatusDone); err != nil {
		return err
	}
	log.InfoContext(ctx, "meeting summarized", slog.String("memory_id", memory.ID.String()))
	return nil
}

// OnJobFailed marks the meeting failed once summarization will not be retried.
func (s *Service) OnJobFailed(ctx context.Context, job domain.Job, cause error) {
	payload, err := queue.Decode[domain.MeetingJob](job)
	if err != nil {
		s.log.ErrorContext(ctx, "decode failed meeting job", slog.String("job_id", job.ID.String()))
		return
	}
	if err := s.meetings.SetStatus(ctx, payload.TeamID, payload.MeetingID, domain.MeetingStatusFailed); err != nil {
		s.log.ErrorContext(ctx, "mark meeting failed",
			slog.String("meeting_id", payload.MeetingID),
			slog.String("error", err.Error()),
		)
		return
	}
	s.log.WarnContext(ctx, "meeting summary failed",
		slog.String("meeting_id", payload.MeetingID),
		slog.String("error", cause.Error()),
	)
}

func (s *Service) setStatus(ctx context.Context, m *domain.Meeting, status domain.MeetingStatus) error {
	if err := s.meetings.SetStatus(ctx, m.TeamID, m.ID, status); err != nil {
		return fmt.Errorf("meeting.setStatus: %w", err)
	}
	return nil
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
