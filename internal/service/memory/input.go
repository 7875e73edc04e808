package memory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// MaxContentLength bounds captured memory content, in characters.
const MaxContentLength = 50000

// CaptureInput holds a manually entered or web-captured memory.
type CaptureInput struct {
	Content      string
	Type         *domain.MemoryType
	Source       string
	SourceID     *string
	SourceURL    *string
	Author       *string
	Participants []string
	Timestamp    *time.Time
	Metadata     map[string]any
}

// Validate checks all fields and collects all errors.
func (i CaptureInput) Validate() error {
	var errs []domain.FieldError

	content := strings.TrimSpace(i.Content)
	if content == "" {
		errs = append(errs, domain.FieldError{Field: "content", Message: "required"})
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		errs = append(errs, domain.FieldError{Field: "content", Message: "max 50000 characters"})
	}

	if i.Type != nil && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid memory type"})
	}

	switch i.Source {
	case "", domain.SourceManual, domain.SourceWebCapture:
	default:
		errs = append(errs, domain.FieldError{Field: "source", Message: "must be manual or web_capture"})
	}

	if i.SourceID != nil && strings.TrimSpace(*i.SourceID) == "" {
		errs = append(errs, domain.FieldError{Field: "sourceId", Message: "must not be empty"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i CaptureInput) draft() domain.MemoryDraft {
	d := domain.MemoryDraft{
		Content:      strings.TrimSpace(i.Content),
		Type:         domain.MemoryTypeOther,
		Source:       i.Source,
		SourceID:     i.SourceID,
		SourceURL:    i.SourceURL,
		Author:       i.Author,
		Participants: i.Participants,
		Metadata:     i.Metadata,
	}
	if i.Type != nil {
		d.Type = *i.Type
	}
	if d.Source == "" {
		d.Source = domain.SourceManual
	}
	if i.Timestamp != nil {
		d.Timestamp = *i.Timestamp
	}
	return d
}

// PatchInput holds the patchable fields of a memory. Nil fields are unchanged.
type PatchInput struct {
	ID       uuid.UUID
	Type     *domain.MemoryType
	Metadata map[string]any
}

// Validate checks all fields and collects all errors.
func (i PatchInput) Validate() error {
	var errs []domain.FieldError

	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Type != nil && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid memory type"})
	}
	if i.Type == nil && i.Metadata == nil {
		errs = append(errs, domain.FieldError{Field: "body", Message: "type or metadata is required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SearchInput holds memory search parameters.
type SearchInput struct {
	Query  string
	Type   *domain.MemoryType
	Source *string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// Validate checks all fields and collects all errors.
func (i SearchInput) Validate() error {
	var errs []domain.FieldError

	if i.Type != nil && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "invalid memory type"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be positive"})
	}
	if i.From != nil && i.To != nil && i.From.After(*i.To) {
		errs = append(errs, domain.FieldError{Field: "from", Message: "must not be after to"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i SearchInput) filter() domain.MemoryFilter {
	return domain.MemoryFilter{
		Query:  strings.TrimSpace(i.Query),
		Type:   i.Type,
		Source: i.Source,
		From:   i.From,
		To:     i.To,
		Limit:  i.Limit,
	}
}
