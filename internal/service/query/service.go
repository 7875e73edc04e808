// Package query answers natural-language questions from a team's memories.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

type memorySearcher interface {
	SearchTeam(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error)
}

type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const (
	// NoResultsAnswer is returned without calling the LLM when no memory matches.
	NoResultsAnswer = "I couldn't find any relevant information in your team's memories to answer this question."

	systemPrompt = `You are FlipFlop, a team knowledge assistant. Answer the question using ONLY the numbered team memories provided.
Cite memories by their number, e.g. [1]. If the memories do not contain the answer, say so plainly.
Be concise.`

	searchLimit      = 20
	maxSources       = 5
	sourceContentLen = 200
	maxQuestionLen   = 2000
)

// Service answers questions against team memories.
type Service struct {
	memories memorySearcher
	llm      completer
	now      func() time.Time
	log      *slog.Logger
}

// NewService creates a new query service.
func NewService(log *slog.Logger, memories memorySearcher, llm completer) *Service {
	return &Service{
		memories: memories,
		llm:      llm,
		now:      time.Now,
		log:      log.With("service", "query"),
	}
}

// Input holds a question and its optional time scope.
type Input struct {
	Question  string
	TimeRange *domain.TimeRange
}

// Validate checks all fields and collects all errors.
func (i Input) Validate() error {
	var errs []domain.FieldError

	q := strings.TrimSpace(i.Question)
	if q == "" {
		errs = append(errs, domain.FieldError{Field: "question", Message: "required"})
	}
	if utf8.RuneCountInString(q) > maxQuestionLen {
		errs = append(errs, domain.FieldError{Field: "question", Message: "max 2000 characters"})
	}
	if i.TimeRange != nil && *i.TimeRange != "" && !i.TimeRange.IsValid() {
		errs = append(errs, domain.FieldError{Field: "context.timeRange", Message: "must be one of today, yesterday, last_week, last_month, all_time"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Source is a memory cited by an answer.
type Source struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	SourceURL *string   `json:"sourceUrl"`
	Author    *string   `json:"author"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the answer to a question.
type Result struct {
	Answer           string   `json:"answer"`
	Sources          []Source `json:"sources"`
	Confidence       float64  `json:"confidence"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
}

// Ask answers a question for the caller's team.
func (s *Service) Ask(ctx context.Context, input Input) (*Result, error) {
	teamID, ok := ctxutil.TeamIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.ProcessQuery(ctx, teamID, input)
}

// ProcessQuery retrieves the team's memories matching the question within the
// time range and, when any match, asks the LLM to answer from them.
func (s *Service) ProcessQuery(ctx context.Context, teamID uuid.UUID, input Input) (*Result, error) {
	start := s.now()

	if err := input.Validate(); err != nil {
		return nil, err
	}
	question := strings.TrimSpace(input.Question)

	filter := domain.MemoryFilter{Query: question, Limit: searchLimit}
	if input.TimeRange != nil {
		filter.From, filter.To = Bounds(*input.TimeRange, start)
	}

	memories, err := s.memories.SearchTeam(ctx, teamID, filter)
	if err != nil {
		return nil, fmt.Errorf("query.ProcessQuery search: %w", err)
	}

	if len(memories) == 0 {
		s.log.InfoContext(ctx, "query without matches", slog.String("team_id", teamID.String()))
		return &Result{
			Answer:           NoResultsAnswer,
			Sources:          []Source{},
			Confidence:       0,
			ProcessingTimeMs: s.now().Sub(start).Milliseconds(),
		}, nil
	}

	userPrompt := fmt.Sprintf("Team memories:\n%s\n\nQuestion: %s", BuildContext(memories), question)
	answer, err := s.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("query.ProcessQuery: %w", err)
	}

	res := &Result{
		Answer:           answer,
		Sources:          sources(memories),
		Confidence:       Confidence(len(memories)),
		ProcessingTimeMs: s.now().Sub(start).Milliseconds(),
	}

	s.log.InfoContext(ctx, "query answered",
		slog.String("team_id", teamID.String()),
		slog.Int("matches", len(memories)),
		slog.Int64("duration_ms", res.ProcessingTimeMs),
	)
	return res, nil
}

// Bounds converts a named range into [from, to] relative to now in now's
// location. all_time and unknown values are unbounded.
func Bounds(r domain.TimeRange, now time.Time) (from, to *time.Time) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var f, t time.Time
	switch r {
	case domain.TimeRangeToday:
		f, t = startOfDay, now
	case domain.TimeRangeYesterday:
		f = startOfDay.AddDate(0, 0, -1)
		t = startOfDay.Add(-time.Millisecond)
	case domain.TimeRangeLastWeek:
		f, t = now.Add(-7*24*time.Hour), now
	case domain.TimeRangeLastMonth:
		f, t = now.Add(-30*24*time.Hour), now
	default:
		return nil, nil
	}
	return &f, &t
}

// Confidence maps the number of matching memories to an answer confidence.
func Confidence(n int) float64 {
	switch {
	case n <= 0:
		return 0
	case n >= 5:
		return 0.9
	case n >= 3:
		return 0.75
	case n >= 2:
		return 0.6
	}
	return 0.4
}

// BuildContext renders memories as numbered context lines for the prompt.
func BuildContext(memories []domain.Memory) string {
	var b strings.Builder
	for i, m := range memories {
		author := "unknown"
		if m.Author != nil && *m.Author != "" {
			author = *m.Author
		}
		fmt.Fprintf(&b, "[%d] %s from %s by %s on %s: %s\n",
			i+1, m.Type, m.Source, author, m.Timestamp.Format("2006-01-02"), m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func sources(memories []domain.Memory) []Source {
	n := min(len(memories), maxSources)
	out := make([]Source, n)
	for i := range n {
		m := memories[i]
		out[i] = Source{
			ID:        m.ID,
			Content:   Truncate(m.Content, sourceContentLen),
			Type:      string(m.Type),
			Source:    m.Source,
			SourceURL: m.SourceURL,
			Author:    m.Author,
			Timestamp: m.Timestamp,
		}
	}
	return out
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
