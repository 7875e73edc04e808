package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/service/auth"
)

var _ sessionService = &sessionServiceMock{}

type sessionServiceMock struct {
	CreateExtensionSessionFunc func(ctx context.Context) (*auth.SessionResult, error)
	RevokeExtensionSessionFunc func(ctx context.Context, token string) error

	calls struct {
		CreateExtensionSession []struct {
			Ctx context.Context
		}
		RevokeExtensionSession []struct {
			Ctx   context.Context
			Token string
		}
	}
	lockCreateExtensionSession sync.RWMutex
	lockRevokeExtensionSession sync.RWMutex
}

func (mock *sessionServiceMock) CreateExtensionSession(ctx context.Context) (*auth.SessionResult, error) {
	if mock.CreateExtensionSessionFunc == nil {
		panic("sessionServiceMock.CreateExtensionSessionFunc: method is nil but sessionService.CreateExtensionSession was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockCreateExtensionSession.Lock()
	mock.calls.CreateExtensionSession = append(mock.calls.CreateExtensionSession, callInfo)
	mock.lockCreateExtensionSession.Unlock()
	return mock.CreateExtensionSessionFunc(ctx)
}

func (mock *sessionServiceMock) CreateExtensionSessionCalls() []struct {
		Ctx context.Context
	} {
	mock.lockCreateExtensionSession.RLock()
	calls := mock.calls.CreateExtensionSession
	mock.lockCreateExtensionSession.RUnlock()
	return calls
}

func (mock *sessionServiceMock) RevokeExtensionSession(ctx context.Context, token string) error {
	if mock.RevokeExtensionSessionFunc == nil {
		panic("sessionServiceMock.RevokeExtensionSessionFunc: method is nil but sessionService.RevokeExtensionSession was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{Ctx: ctx, Token: token}
	mock.lockRevokeExtensionSession.Lock()
	mock.calls.RevokeExtensionSession = append(mock.calls.RevokeExtensionSession, callInfo)
	mock.lockRevokeExtensionSession.Unlock()
	return mock.RevokeExtensionSessionFunc(ctx, token)
}

func (mock *sessionServiceMock) RevokeExtensionSessionCalls() []struct {
		Ctx   context.Context
		Token string
	} {
	mock.lockRevokeExtensionSession.RLock()
	calls := mock.calls.RevokeExtensionSession
	mock.lockRevokeExtensionSession.RUnlock()
	return calls
}
