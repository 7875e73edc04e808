package meeting

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

const (
	maxMeetingIDLength = 200
	maxCaptionsPerCall = 500
	maxTitleLength     = 500
)

// Caption is one line spoken in the meeting.
type Caption struct {
	Speaker   string     `json:"speaker"`
	Text      string     `json:"text"`
	Timestamp *time.Time `json:"timestamp"`
}

// CaptionsInput is a batch of captions for one meeting.
type CaptionsInput struct {
	MeetingID    string
	Title        *string
	Participants []string
	Captions     []Caption
}

// Validate checks all fields and collects all errors.
func (i CaptionsInput) Validate() error {
	var errs []domain.FieldError

	errs = append(errs, validateMeetingID(i.MeetingID)...)

	if i.Title != nil && utf8.RuneCountInString(*i.Title) > maxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	switch {
	case len(i.Captions) == 0:
		errs = append(errs, domain.FieldError{Field: "captions", Message: "required"})
	case len(i.Captions) > maxCaptionsPerCall:
		errs = append(errs, domain.FieldError{Field: "captions", Message: "too many captions in one request"})
	default:
		if i.lines() == "" {
			errs = append(errs, domain.FieldError{Field: "captions", Message: "all captions are empty"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateMeetingID(id string) []domain.FieldError {
	switch {
	case strings.TrimSpace(id) == "":
		return []domain.FieldError{{Field: "id", Message: "required"}}
	case len(id) > maxMeetingIDLength:
		return []domain.FieldError{{Field: "id", Message: "too long"}}
	}
	return nil
}

// lines renders the captions as transcript lines, dropping empty ones.
func (i CaptionsInput) lines() string {
	var b strings.Builder
	for _, c := range i.Captions {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if speaker := strings.TrimSpace(c.Speaker); speaker != "" {
			b.WriteString(speaker)
			b.WriteString(": ")
		}
		b.WriteString(text)
	}
	return b.String()
}

func (i CaptionsInput) participants() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p != "" && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range i.Participants {
		add(p)
	}
	for _, c := range i.Captions {
		add(c.Speaker)
	}
	return out
}
