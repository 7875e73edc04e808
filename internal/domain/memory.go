package domain

import (
	"time"

	"github.com/google/uuid"
)

// Memory is a unit of captured team knowledge.
type Memory struct {
	ID           uuid.UUID
	TeamID       uuid.UUID
	Content      string
	Type         MemoryType
	Source       string
	SourceID     *string
	SourceURL    *string
	Author       *string
	Participants []string
	Timestamp    time.Time
	Metadata     map[string]any
	Embedding    []float32
	CreatedBy    *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemoryDraft is a normalized item ready to be stored, produced by provider
// extraction or by direct capture.
type MemoryDraft struct {
	Content      string
	Type         MemoryType
	Source       string
	SourceID     *string
	SourceURL    *string
	Author       *string
	Participants []string
	Timestamp    time.Time
	Metadata     map[string]any
}

// MemoryFilter narrows a memory search. Zero values mean "no constraint".
type MemoryFilter struct {
	Query  string
	Type   *MemoryType
	Source *string
	From   *time.Time
	To     *time.Time
	Limit  int
}

const (
	DefaultMemoryLimit = 20
	MaxMemoryLimit     = 100
)

// NormalizedLimit clamps Limit to [1, MaxMemoryLimit], defaulting to DefaultMemoryLimit.
func (f MemoryFilter) NormalizedLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultMemoryLimit
	case f.Limit > MaxMemoryLimit:
		return MaxMemoryLimit
	}
	return f.Limit
}

// TeamStats aggregates a team's memories.
type TeamStats struct {
	Total          int            `json:"total"`
	ByType         map[string]int `json:"byType"`
	BySource       map[string]int `json:"bySource"`
	RecentActivity int            `json:"recentActivity"`
}
