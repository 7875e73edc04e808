package meeting

import (
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// View is the client representation of a meeting. The transcript is omitted.
type View struct {
	ID           string     `json:"id"`
	Title        *string    `json:"title"`
	Participants []string   `json:"participants"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      *time.Time `json:"endedAt"`
}

// ToView converts a meeting to its client representation.
func ToView(m *domain.Meeting) View {
	participants := m.Participants
	if participants == nil {
		participants = []string{}
	}
	return View{
		ID:           m.ID,
		Title:        m.Title,
		Participants: participants,
		Status:       string(m.Status),
		StartedAt:    m.StartedAt,
		EndedAt:      m.EndedAt,
	}
}
