package domain

// Notification event types published to a team's live subscribers.
const (
	EventMemoryCreated = "memory.created"
	EventSyncCompleted = "sync.completed"
)

// Event is a team-scoped real-time notification.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
