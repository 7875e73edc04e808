package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a queued job.
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusFailed  JobStatus = "failed"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRunning, JobStatusDone, JobStatusFailed:
		return true
	}
	return false
}

// Job is a row in the background job broker.
type Job struct {
	ID          uuid.UUID
	Queue       string
	Payload     json.RawMessage
	Status      JobStatus
	Attempts    int
	MaxAttempts int
	RunAt       time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Exhausted reports whether no attempts remain after the current one.
func (j *Job) Exhausted() bool {
	return j.Attempts >= j.MaxAttempts
}

// JobStats holds aggregate counts by status for one queue.
type JobStats struct {
	Queue   string `json:"queue"`
	Pending int    `json:"pending"`
	Running int    `json:"running"`
	Done    int    `json:"done"`
	Failed  int    `json:"failed"`
}

// SyncJob is the payload of a sync job.
type SyncJob struct {
	TeamID          uuid.UUID       `json:"teamId"`
	IntegrationID   uuid.UUID       `json:"integrationId"`
	IntegrationType IntegrationType `json:"integrationType"`
}

// EmailJob is the payload of an email job.
type EmailJob struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// MeetingJob is the payload of a meeting summarization job.
type MeetingJob struct {
	MeetingID  string    `json:"meetingId"`
	TeamID     uuid.UUID `json:"teamId"`
	Transcript string    `json:"transcript"`
}
