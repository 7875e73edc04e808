package domain

import (
	"time"

	"github.com/google/uuid"
)

// MeetingStatus tracks a recorded meeting through summarization.
type MeetingStatus string

const (
	MeetingStatusRecording  MeetingStatus = "recording"
	MeetingStatusProcessing MeetingStatus = "processing"
	MeetingStatusDone       MeetingStatus = "done"
	MeetingStatusFailed     MeetingStatus = "failed"
)

// Meeting is a captioned call captured by the extension. ID is the
// extension-provided meeting identifier.
type Meeting struct {
	ID           string
	TeamID       uuid.UUID
	UserID       uuid.UUID
	Title        *string
	Participants []string
	Transcript   string
	Status       MeetingStatus
	StartedAt    time.Time
	EndedAt      *time.Time
}
