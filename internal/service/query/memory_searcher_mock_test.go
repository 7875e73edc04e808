package query

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ memorySearcher = &memorySearcherMock{}

type memorySearcherMock struct {
	SearchTeamFunc func(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error)

	calls struct {
		SearchTeam []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			Filter domain.MemoryFilter
		}
	}
	lockSearchTeam sync.RWMutex
}

func (mock *memorySearcherMock) SearchTeam(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error) {
	if mock.SearchTeamFunc == nil {
		panic("memorySearcherMock.SearchTeamFunc: method is nil but memorySearcher.SearchTeam was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Filter domain.MemoryFilter
	}{Ctx: ctx, TeamID: teamID, Filter: filter}
	mock.lockSearchTeam.Lock()
	mock.calls.SearchTeam = append(mock.calls.SearchTeam, callInfo)
	mock.lockSearchTeam.Unlock()
	return mock.SearchTeamFunc(ctx, teamID, filter)
}

func (mock *memorySearcherMock) SearchTeamCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Filter domain.MemoryFilter
	} {
	mock.lockSearchTeam.RLock()
	calls := mock.calls.SearchTeam
	mock.lockSearchTeam.RUnlock()
	return calls
}
