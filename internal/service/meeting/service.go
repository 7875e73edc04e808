// Package meeting records meeting captions sent by the browser extension and
// turns finished meetings into summarized memories.
package meeting

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

type meetingRepo interface {
	AppendTranscript(ctx context.Context, m *domain.Meeting, text string) (*domain.Meeting, error)
	End(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error)
	Get(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error)
	SetStatus(ctx context.Context, teamID uuid.UUID, id string, status domain.MeetingStatus) error
}

type jobEnqueuer interface {
	Enqueue(ctx context.Context, queueName string, payload any, opts ...queue.EnqueueOption) (*domain.Job, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type memoryWriter interface {
	Upsert(ctx context.Context, teamID uuid.UUID, draft domain.MemoryDraft) (*domain.Memory, bool, error)
}

// Service manages meeting transcripts and their summaries.
type Service struct {
	meetings  meetingRepo
	jobs      jobEnqueuer
	tx        txManager
	completer completer
	memories  memoryWriter
	log       *slog.Logger
}

// NewService creates a new meeting service.
func NewService(
	log *slog.Logger,
	meetings meetingRepo,
	jobs jobEnqueuer,
	tx txManager,
	completer completer,
	memories memoryWriter,
) *Service {
	return &Service{
		meetings:  meetings,
		jobs:      jobs,
		tx:        tx,
		completer: completer,
		memories:  memories,
		log:       log.With("service", "meeting"),
	}
}
