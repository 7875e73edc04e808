package meeting

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ memoryWriter = &memoryWriterMock{}

type memoryWriterMock struct {
	UpsertFunc func(ctx context.Context, teamID uuid.UUID, draft domain.MemoryDraft) (*domain.Memory, bool, error)

	calls struct {
		Upsert []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			Draft  domain.MemoryDraft
		}
	}
	lockUpsert sync.RWMutex
}

func (mock *memoryWriterMock) Upsert(ctx context.Context, teamID uuid.UUID, draft domain.MemoryDraft) (*domain.Memory, bool, error) {
	if mock.UpsertFunc == nil {
		panic("memoryWriterMock.UpsertFunc: method is nil but memoryWriter.Upsert was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Draft  domain.MemoryDraft
	}{Ctx: ctx, TeamID: teamID, Draft: draft}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, teamID, draft)
}

func (mock *memoryWriterMock) UpsertCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Draft  domain.MemoryDraft
	} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
