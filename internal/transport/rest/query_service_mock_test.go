package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/service/query"
)

var _ queryService = &queryServiceMock{}

type queryServiceMock struct {
	AskFunc func(ctx context.Context, input query.Input) (*query.Result, error)

	calls struct {
		Ask []struct {
			Ctx   context.Context
			Input query.Input
		}
	}
	lockAsk sync.RWMutex
}

func (mock *queryServiceMock) Ask(ctx context.Context, input query.Input) (*query.Result, error) {
	if mock.AskFunc == nil {
		panic("queryServiceMock.AskFunc: method is nil but queryService.Ask was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input query.Input
	}{Ctx: ctx, Input: input}
	mock.lockAsk.Lock()
	mock.calls.Ask = append(mock.calls.Ask, callInfo)
	mock.lockAsk.Unlock()
	return mock.AskFunc(ctx, input)
}

func (mock *queryServiceMock) AskCalls() []struct {
		Ctx   context.Context
		Input query.Input
	} {
	mock.lockAsk.RLock()
	calls := mock.calls.Ask
	mock.lockAsk.RUnlock()
	return calls
}
