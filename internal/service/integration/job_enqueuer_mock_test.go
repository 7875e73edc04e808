package integration

import (
	"context"
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/queue"
)

var _ jobEnqueuer = &jobEnqueuerMock{}

type jobEnqueuerMock struct {
	EnqueueFunc func(ctx context.Context, queueName string, payload any, opts ...queue.EnqueueOption) (*domain.Job, error)

	calls struct {
		Enqueue []struct {
			Ctx       context.Context
			QueueName string
			Payload   any
			Opts      []queue.EnqueueOption
		}
	}
	lockEnqueue sync.RWMutex
}

func (mock *jobEnqueuerMock) Enqueue(ctx context.Context, queueName string, payload any, opts ...queue.EnqueueOption) (*domain.Job, error) {
	if mock.EnqueueFunc == nil {
		panic("jobEnqueuerMock.EnqueueFunc: method is nil but jobEnqueuer.Enqueue was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		QueueName string
		Payload   any
		Opts      []queue.EnqueueOption
	}{Ctx: ctx, QueueName: queueName, Payload: payload, Opts: opts}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, queueName, payload, opts...)
}

func (mock *jobEnqueuerMock) EnqueueCalls() []struct {
		Ctx       context.Context
		QueueName string
		Payload   any
		Opts      []queue.EnqueueOption
	} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}
