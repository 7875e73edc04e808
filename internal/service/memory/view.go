package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// View is the client representation of a memory. The embedding is omitted.
type View struct {
	ID           uuid.UUID      `json:"id"`
	TeamID       uuid.UUID      `json:"teamId"`
	Content      string         `json:"content"`
	Type         string         `json:"type"`
	Source       string         `json:"source"`
	SourceID     *string        `json:"sourceId"`
	SourceURL    *string        `json:"sourceUrl"`
	Author       *string        `json:"author"`
	Participants []string       `json:"participants"`
	Timestamp    time.Time      `json:"timestamp"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ToView converts a memory to its client representation.
func ToView(m *domain.Memory) View {
	participants := m.Participants
	if participants == nil {
		participants = []string{}
	}
	return View{
		ID:           m.ID,
		TeamID:       m.TeamID,
		Content:      m.Content,
		Type:         string(m.Type),
		Source:       m.Source,
		SourceID:     m.SourceID,
		SourceURL:    m.SourceURL,
		Author:       m.Author,
		Participants: participants,
		Timestamp:    m.Timestamp,
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToViews converts a slice of memories.
func ToViews(ms []domain.Memory) []View {
	out := make([]View, len(ms))
	for i := range ms {
		out[i] = ToView(&ms[i])
	}
	return out
}
