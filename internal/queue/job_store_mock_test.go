package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ jobStore = &jobStoreMock{}

type jobStoreMock struct {
	EnqueueFunc        func(ctx context.Context, queue string, payload json.RawMessage, maxAttempts int, runAt time.Time) (*domain.Job, error)
	ClaimFunc          func(ctx context.Context, queue string, limit int) ([]domain.Job, error)
	MarkDoneFunc       func(ctx context.Context, id uuid.UUID) error
	RescheduleFunc     func(ctx context.Context, id uuid.UUID, runAt time.Time, errMsg string) error
	MarkFailedFunc     func(ctx context.Context, id uuid.UUID, errMsg string) error
	ResetRunningFunc   func(ctx context.Context, staleBefore time.Time) (int, error)
	RetryAllFailedFunc func(ctx context.Context) (int, error)
	StatsFunc          func(ctx context.Context) ([]domain.JobStats, error)

	calls struct {
		Enqueue []struct {
			Ctx         context.Context
			Queue       string
			Payload     json.RawMessage
			MaxAttempts int
			RunAt       time.Time
		}
		Claim []struct {
			Ctx   context.Context
			Queue string
			Limit int
		}
		MarkDone []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Reschedule []struct {
			Ctx    context.Context
			ID     uuid.UUID
			RunAt  time.Time
			ErrMsg string
		}
		MarkFailed []struct {
			Ctx    context.Context
			ID     uuid.UUID
			ErrMsg string
		}
		ResetRunning []struct {
			Ctx         context.Context
			StaleBefore time.Time
		}
		RetryAllFailed []struct {
			Ctx context.Context
		}
		Stats []struct {
			Ctx context.Context
		}
	}
	lockEnqueue        sync.RWMutex
	lockClaim          sync.RWMutex
	lockMarkDone       sync.RWMutex
	lockReschedule     sync.RWMutex
	lockMarkFailed     sync.RWMutex
	lockResetRunning   sync.RWMutex
	lockRetryAllFailed sync.RWMutex
	lockStats          sync.RWMutex
}

func (mock *jobStoreMock) Enqueue(ctx context.Context, queue string, payload json.RawMessage, maxAttempts int, runAt time.Time) (*domain.Job, error) {
	if mock.EnqueueFunc == nil {
		panic("jobStoreMock.EnqueueFunc: method is nil but jobStore.Enqueue was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		Queue       string
		Payload     json.RawMessage
		MaxAttempts int
		RunAt       time.Time
	}{Ctx: ctx, Queue: queue, Payload: payload, MaxAttempts: maxAttempts, RunAt: runAt}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, queue, payload, maxAttempts, runAt)
}

func (mock *jobStoreMock) EnqueueCalls() []struct {
		Ctx         context.Context
		Queue       string
		Payload     json.RawMessage
		MaxAttempts int
		RunAt       time.Time
	} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}

func (mock *jobStoreMock) Claim(ctx context.Context, queue string, limit int) ([]domain.Job, error) {
	if mock.ClaimFunc == nil {
		panic("jobStoreMock.ClaimFunc: method is nil but jobStore.Claim was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Queue string
		Limit int
	}{Ctx: ctx, Queue: queue, Limit: limit}
	mock.lockClaim.Lock()
	mock.calls.Claim = append(mock.calls.Claim, callInfo)
	mock.lockClaim.Unlock()
	return mock.ClaimFunc(ctx, queue, limit)
}

func (mock *jobStoreMock) ClaimCalls() []struct {
		Ctx   context.Context
		Queue string
		Limit int
	} {
	mock.lockClaim.RLock()
	calls := mock.calls.Claim
	mock.lockClaim.RUnlock()
	return calls
}

func (mock *jobStoreMock) MarkDone(ctx context.Context, id uuid.UUID) error {
	if mock.MarkDoneFunc == nil {
		panic("jobStoreMock.MarkDoneFunc: method is nil but jobStore.MarkDone was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockMarkDone.Lock()
	mock.calls.MarkDone = append(mock.calls.MarkDone, callInfo)
	mock.lockMarkDone.Unlock()
	return mock.MarkDoneFunc(ctx, id)
}

func (mock *jobStoreMock) MarkDoneCalls() []struct {
		Ctx context.Context
		ID  uuid.UUID
	} {
	mock.lockMarkDone.RLock()
	calls := mock.calls.MarkDone
	mock.lockMarkDone.RUnlock()
	return calls
}

func (mock *jobStoreMock) Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, errMsg string) error {
	if mock.RescheduleFunc == nil {
		panic("jobStoreMock.RescheduleFunc: method is nil but jobStore.Reschedule was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		RunAt  time.Time
		ErrMsg string
	}{Ctx: ctx, ID: id, RunAt: runAt, ErrMsg: errMsg}
	mock.lockReschedule.Lock()
	mock.calls.Reschedule = append(mock.calls.Reschedule, callInfo)
	mock.lockReschedule.Unlock()
	return mock.RescheduleFunc(ctx, id, runAt, errMsg)
}

func (mock *jobStoreMock) RescheduleCalls() []struct {
		Ctx    context.Context
		ID     uuid.UUID
		RunAt  time.Time
		ErrMsg string
	} {
	mock.lockReschedule.RLock()
	calls := mock.calls.Reschedule
	mock.lockReschedule.RUnlock()
	return calls
}

func (mock *jobStoreMock) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	if mock.MarkFailedFunc == nil {
		panic("jobStoreMock.MarkFailedFunc: method is nil but jobStore.MarkFailed was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		ErrMsg string
	}{Ctx: ctx, ID: id, ErrMsg: errMsg}
	mock.lockMarkFailed.Lock()
	mock.calls.MarkFailed = append(mock.calls.MarkFailed, callInfo)
	mock.lockMarkFailed.Unlock()
	return mock.MarkFailedFunc(ctx, id, errMsg)
}

func (mock *jobStoreMock) MarkFailedCalls() []struct {
		Ctx    context.Context
		ID     uuid.UUID
		ErrMsg string
	} {
	mock.lockMarkFailed.RLock()
	calls := mock.calls.MarkFailed
	mock.lockMarkFailed.RUnlock()
	return calls
}

func (mock *jobStoreMock) ResetRunning(ctx context.Context, staleBefore time.Time) (int, error) {
	if mock.ResetRunningFunc == nil {
		panic("jobStoreMock.ResetRunningFunc: method is nil but jobStore.ResetRunning was just called")
	}
	callInfo := struct {
		Ctx         context.Context
		StaleBefore time.Time
	}{Ctx: ctx, StaleBefore: staleBefore}
	mock.lockResetRunning.Lock()
	mock.calls.ResetRunning = append(mock.calls.ResetRunning, callInfo)
	mock.lockResetRunning.Unlock()
	return mock.ResetRunningFunc(ctx, staleBefore)
}

func (mock *jobStoreMock) ResetRunningCalls() []struct {
		Ctx         context.Context
		StaleBefore time.Time
	} {
	mock.lockResetRunning.RLock()
	calls := mock.calls.ResetRunning
	mock.lockResetRunning.RUnlock()
	return calls
}

func (mock *jobStoreMock) RetryAllFailed(ctx context.Context) (int, error) {
	if mock.RetryAllFailedFunc == nil {
		panic("jobStoreMock.RetryAllFailedFunc: method is nil but jobStore.RetryAllFailed was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockRetryAllFailed.Lock()
	mock.calls.RetryAllFailed = append(mock.calls.RetryAllFailed, callInfo)
	mock.lockRetryAllFailed.Unlock()
	return mock.RetryAllFailedFunc(ctx)
}

func (mock *jobStoreMock) RetryAllFailedCalls() []struct {
		Ctx context.Context
	} {
	mock.lockRetryAllFailed.RLock()
	calls := mock.calls.RetryAllFailed
	mock.lockRetryAllFailed.RUnlock()
	return calls
}

func (mock *jobStoreMock) Stats(ctx context.Context) ([]domain.JobStats, error) {
	if mock.StatsFunc == nil {
		panic("jobStoreMock.StatsFunc: method is nil but jobStore.Stats was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, callInfo)
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *jobStoreMock) StatsCalls() []struct {
		Ctx context.Context
	} {
	mock.lockStats.RLock()
	calls := mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}
