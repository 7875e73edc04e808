package syncer

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ provider.Adapter = &AdapterMock{}

type AdapterMock struct {
	TypeFunc     func() domain.IntegrationType
	AuthURLFunc  func(state string) string
	ExchangeFunc func(ctx context.Context, code string) (*domain.Grant, error)
	FetchFunc    func(ctx context.Context, creds domain.Credentials, settings map[string]any, cursor string) (provider.Page, error)
	ExtractFunc  func(raw json.RawMessage, settings map[string]any) (domain.MemoryDraft, error)

	calls struct {
		Type    []struct{}
		AuthURL []struct {
			State string
		}
		Exchange []struct {
			Ctx  context.Context
			Code string
		}
		Fetch []struct {
			Ctx      context.Context
			Creds    domain.Credentials
			Settings map[string]any
			Cursor   string
		}
		Extract []struct {
			Raw      json.RawMessage
			Settings map[string]any
		}
	}
	lockType     sync.RWMutex
	lockAuthURL  sync.RWMutex
	lockExchange sync.RWMutex
	lockFetch    sync.RWMutex
	lockExtract  sync.RWMutex
}

func (mock *AdapterMock) Type() domain.IntegrationType {
	if mock.TypeFunc == nil {
		panic("AdapterMock.TypeFunc: method is nil but Adapter.Type was just called")
	}
	callInfo := struct{}{}
	mock.lockType.Lock()
	mock.calls.Type = append(mock.calls.Type, callInfo)
	mock.lockType.Unlock()
	return mock.TypeFunc()
}

func (mock *AdapterMock) TypeCalls() []struct{} {
	mock.lockType.RLock()
	calls := mock.calls.Type
	mock.lockType.RUnlock()
	return calls
}

func (mock *AdapterMock) AuthURL(state string) string {
	if mock.AuthURLFunc == nil {
		panic("AdapterMock.AuthURLFunc: method is nil but Adapter.AuthURL was just called")
	}
	callInfo := struct {
		State string
	}{State: state}
	mock.lockAuthURL.Lock()
	mock.calls.AuthURL = append(mock.calls.AuthURL, callInfo)
	mock.lockAuthURL.Unlock()
	return mock.AuthURLFunc(state)
}

func (mock *AdapterMock) AuthURLCalls() []struct {
		State string
	} {
	mock.lockAuthURL.RLock()
	calls := mock.calls.AuthURL
	mock.lockAuthURL.RUnlock()
	return calls
}

func (mock *AdapterMock) Exchange(ctx context.Context, code string) (*domain.Grant, error) {
	if mock.ExchangeFunc == nil {
		panic("AdapterMock.ExchangeFunc: method is nil but Adapter.Exchange was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Code string
	}{Ctx: ctx, Code: code}
	mock.lockExchange.Lock()
	mock.calls.Exchange = append(mock.calls.Exchange, callInfo)
	mock.lockExchange.Unlock()
	return mock.ExchangeFunc(ctx, code)
}

func (mock *AdapterMock) ExchangeCalls() []struct {
		Ctx  context.Context
		Code string
	} {
	mock.lockExchange.RLock()
	calls := mock.calls.Exchange
	mock.lockExchange.RUnlock()
	return calls
}

func (mock *AdapterMock) Fetch(ctx context.Context, creds domain.Credentials, settings map[string]any, cursor string) (provider.Page, error) {
	if mock.FetchFunc == nil {
		panic("AdapterMock.FetchFunc: method is nil but Adapter.Fetch was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Creds    domain.Credentials
		Settings map[string]any
		Cursor   string
	}{Ctx: ctx, Creds: creds, Settings: settings, Cursor: cursor}
	mock.lockFetch.Lock()
	mock.calls.Fetch = append(mock.calls.Fetch, callInfo)
	mock.lockFetch.Unlock()
	return mock.FetchFunc(ctx, creds, settings, cursor)
}

func (mock *AdapterMock) FetchCalls() []struct {
		Ctx      context.Context
		Creds    domain.Credentials
		Settings map[string]any
		Cursor   string
	} {
	mock.lockFetch.RLock()
	calls := mock.calls.Fetch
	mock.lockFetch.RUnlock()
	return calls
}

func (mock *AdapterMock) Extract(raw json.RawMessage, settings map[string]any) (domain.MemoryDraft, error) {
	if mock.ExtractFunc == nil {
		panic("AdapterMock.ExtractFunc: method is nil but Adapter.Extract was just called")
	}
	callInfo := struct {
		Raw      json.RawMessage
		Settings map[string]any
	}{Raw: raw, Settings: settings}
	mock.lockExtract.Lock()
	mock.calls.Extract = append(mock.calls.Extract, callInfo)
	mock.lockExtract.Unlock()
	return mock.ExtractFunc(raw, settings)
}

func (mock *AdapterMock) ExtractCalls() []struct {
		Raw      json.RawMessage
		Settings map[string]any
	} {
	mock.lockExtract.RLock()
	calls := mock.calls.Extract
	mock.lockExtract.RUnlock()
	return calls
}
