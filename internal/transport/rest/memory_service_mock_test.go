package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/service/memory"
)

var _ memoryService = &memoryServiceMock{}

type memoryServiceMock struct {
	CaptureFunc func(ctx context.Context, input memory.CaptureInput) (*domain.Memory, error)
	SearchFunc  func(ctx context.Context, input memory.SearchInput) ([]domain.Memory, error)
	GetFunc     func(ctx context.Context, id uuid.UUID) (*domain.Memory, error)
	PatchFunc   func(ctx context.Context, input memory.PatchInput) (*domain.Memory, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error
	StatsFunc   func(ctx context.Context) (domain.TeamStats, error)

	calls struct {
		Capture []struct {
			Ctx   context.Context
			Input memory.CaptureInput
		}
		Search []struct {
			Ctx   context.Context
			Input memory.SearchInput
		}
		Get []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Patch []struct {
			Ctx   context.Context
			Input memory.PatchInput
		}
		Delete []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Stats []struct {
			Ctx context.Context
		}
	}
	lockCapture sync.RWMutex
	lockSearch  sync.RWMutex
	lockGet     sync.RWMutex
	lockPatch   sync.RWMutex
	lockDelete  sync.RWMutex
	lockStats   sync.RWMutex
}

func (mock *memoryServiceMock) Capture(ctx context.Context, input memory.CaptureInput) (*domain.Memory, error) {
	if mock.CaptureFunc == nil {
		panic("memoryServiceMock.CaptureFunc: method is nil but memoryService.Capture was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input memory.CaptureInput
	}{Ctx: ctx, Input: input}
	mock.lockCapture.Lock()
	mock.calls.Capture = append(mock.calls.Capture, callInfo)
	mock.lockCapture.Unlock()
	return mock.CaptureFunc(ctx, input)
}

func (mock *memoryServiceMock) CaptureCalls() []struct {
		Ctx   context.Context
		Input memory.CaptureInput
	} {
	mock.lockCapture.RLock()
	calls := mock.calls.Capture
	mock.lockCapture.RUnlock()
	return calls
}

func (mock *memoryServiceMock) Search(ctx context.Context, input memory.SearchInput) ([]domain.Memory, error) {
	if mock.SearchFunc == nil {
		panic("memoryServiceMock.SearchFunc: method is nil but memoryService.Search was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input memory.SearchInput
	}{Ctx: ctx, Input: input}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, input)
}

func (mock *memoryServiceMock) SearchCalls() []struct {
		Ctx   context.Context
		Input memory.SearchInput
	} {
	mock.lockSearch.RLock()
	calls := mock.calls.Search
	mock.lockSearch.RUnlock()
	return calls
}

func (mock *memoryServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.Memory, error) {
	if mock.GetFunc == nil {
		panic("memoryServiceMock.GetFunc: method is nil but memoryService.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, id)
}

func (mock *memoryServiceMock) GetCalls() []struct {
		Ctx context.Context
		ID  uuid.UUID
	} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *memoryServiceMock) Patch(ctx context.Context, input memory.PatchInput) (*domain.Memory, error) {
	if mock.PatchFunc == nil {
		panic("memoryServiceMock.PatchFunc: method is nil but memoryService.Patch was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input memory.PatchInput
	}{Ctx: ctx, Input: input}
	mock.lockPatch.Lock()
	mock.calls.Patch = append(mock.calls.Patch, callInfo)
	mock.lockPatch.Unlock()
	return mock.PatchFunc(ctx, input)
}

func (mock *memoryServiceMock) PatchCalls() []struct {
		Ctx   context.Context
		Input memory.PatchInput
	} {
	mock.lockPatch.RLock()
	calls := mock.calls.Patch
	mock.lockPatch.RUnlock()
	return calls
}

func (mock *memoryServiceMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("memoryServiceMock.DeleteFunc: method is nil but memoryService.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *memoryServiceMock) DeleteCalls() []struct {
		Ctx context.Context
		ID  uuid.UUID
	} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *memoryServiceMock) Stats(ctx context.Context) (domain.TeamStats, error) {
	if mock.StatsFunc == nil {
		panic("memoryServiceMock.StatsFunc: method is nil but memoryService.Stats was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, callInfo)
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *memoryServiceMock) StatsCalls() []struct {
		Ctx context.Context
	} {
	mock.lockStats.RLock()
	calls := mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}
