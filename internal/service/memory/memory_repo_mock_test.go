package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ memoryRepo = &memoryRepoMock{}

type memoryRepoMock struct {
	InsertFunc  func(ctx context.Context, m *domain.Memory) (*domain.Memory, error)
	UpsertFunc  func(ctx context.Context, m *domain.Memory) (*domain.Memory, bool, error)
	GetByIDFunc func(ctx context.Context, teamID uuid.UUID, id uuid.UUID) (*domain.Memory, error)
	SearchFunc  func(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error)
	UpdateFunc  func(ctx context.Context, teamID uuid.UUID, id uuid.UUID, typ *domain.MemoryType, metadata map[string]any) (*domain.Memory, error)
	DeleteFunc  func(ctx context.Context, teamID uuid.UUID, id uuid.UUID) error
	StatsFunc   func(ctx context.Context, teamID uuid.UUID, since time.Time) (domain.TeamStats, error)

	calls struct {
		Insert []struct {
			Ctx context.Context
			M   *domain.Memory
		}
		Upsert []struct {
			Ctx context.Context
			M   *domain.Memory
		}
		GetByID []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			ID     uuid.UUID
		}
		Search []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			Filter domain.MemoryFilter
		}
		Update []struct {
			Ctx      context.Context
			TeamID   uuid.UUID
			ID       uuid.UUID
			Typ      *domain.MemoryType
			Metadata map[string]any
		}
		Delete []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			ID     uuid.UUID
		}
		Stats []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			Since  time.Time
		}
	}
	lockInsert  sync.RWMutex
	lockUpsert  sync.RWMutex
	lockGetByID sync.RWMutex
	lockSearch  sync.RWMutex
	lockUpdate  sync.RWMutex
	lockDelete  sync.RWMutex
	lockStats   sync.RWMutex
}

func (mock *memoryRepoMock) Insert(ctx context.Context, m *domain.Memory) (*domain.Memory, error) {
	if mock.InsertFunc == nil {
		panic("memoryRepoMock.InsertFunc: method is nil but memoryRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   *domain.Memory
	}{Ctx: ctx, M: m}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, m)
}

func (mock *memoryRepoMock) InsertCalls() []struct {
		Ctx context.Context
		M   *domain.Memory
	} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Upsert(ctx context.Context, m *domain.Memory) (*domain.Memory, bool, error) {
	if mock.UpsertFunc == nil {
		panic("memoryRepoMock.UpsertFunc: method is nil but memoryRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   *domain.Memory
	}{Ctx: ctx, M: m}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, m)
}

func (mock *memoryRepoMock) UpsertCalls() []struct {
		Ctx context.Context
		M   *domain.Memory
	} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

func (mock *memoryRepoMock) GetByID(ctx context.Context, teamID uuid.UUID, id uuid.UUID) (*domain.Memory, error) {
	if mock.GetByIDFunc == nil {
		panic("memoryRepoMock.GetByIDFunc: method is nil but memoryRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, TeamID: teamID, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, teamID, id)
}

func (mock *memoryRepoMock) GetByIDCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     uuid.UUID
	} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Search(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error) {
	if mock.SearchFunc == nil {
		panic("memoryRepoMock.SearchFunc: method is nil but memoryRepo.Search was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Filter domain.MemoryFilter
	}{Ctx: ctx, TeamID: teamID, Filter: filter}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, teamID, filter)
}

func (mock *memoryRepoMock) SearchCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Filter domain.MemoryFilter
	} {
	mock.lockSearch.RLock()
	calls := mock.calls.Search
	mock.lockSearch.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Update(ctx context.Context, teamID uuid.UUID, id uuid.UUID, typ *domain.MemoryType, metadata map[string]any) (*domain.Memory, error) {
	if mock.UpdateFunc == nil {
		panic("memoryRepoMock.UpdateFunc: method is nil but memoryRepo.Update was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		TeamID   uuid.UUID
		ID       uuid.UUID
		Typ      *domain.MemoryType
		Metadata map[string]any
	}{Ctx: ctx, TeamID: teamID, ID: id, Typ: typ, Metadata: metadata}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, teamID, id, typ, metadata)
}

func (mock *memoryRepoMock) UpdateCalls() []struct {
		Ctx      context.Context
		TeamID   uuid.UUID
		ID       uuid.UUID
		Typ      *domain.MemoryType
		Metadata map[string]any
	} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Delete(ctx context.Context, teamID uuid.UUID, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("memoryRepoMock.DeleteFunc: method is nil but memoryRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     uuid.UUID
	}{Ctx: ctx, TeamID: teamID, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, teamID, id)
}

func (mock *memoryRepoMock) DeleteCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     uuid.UUID
	} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Stats(ctx context.Context, teamID uuid.UUID, since time.Time) (domain.TeamStats, error) {
	if mock.StatsFunc == nil {
		panic("memoryRepoMock.StatsFunc: method is nil but memoryRepo.Stats was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Since  time.Time
	}{Ctx: ctx, TeamID: teamID, Since: since}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, callInfo)
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx, teamID, since)
}

func (mock *memoryRepoMock) StatsCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Since  time.Time
	} {
	mock.lockStats.RLock()
	calls := mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}
