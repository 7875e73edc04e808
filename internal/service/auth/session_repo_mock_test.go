package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ sessionRepo = &sessionRepoMock{}

type sessionRepoMock struct {
	CreateFunc          func(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.ExtensionSession, error)
	GetByHashFunc       func(ctx context.Context, tokenHash string) (*domain.ExtensionSession, error)
	RevokeByHashFunc    func(ctx context.Context, userID uuid.UUID, tokenHash string) error
	RevokeAllByUserFunc func(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteStaleFunc     func(ctx context.Context, cutoff time.Time) (int, error)

	calls struct {
		Create []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			TokenHash string
			ExpiresAt time.Time
		}
		GetByHash []struct {
			Ctx       context.Context
			TokenHash string
		}
		RevokeByHash []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			TokenHash string
		}
		RevokeAllByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		DeleteStale []struct {
			Ctx    context.Context
			Cutoff time.Time
		}
	}
	lockCreate          sync.RWMutex
	lockGetByHash       sync.RWMutex
	lockRevokeByHash    sync.RWMutex
	lockRevokeAllByUser sync.RWMutex
	lockDeleteStale     sync.RWMutex
}

func (mock *sessionRepoMock) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.ExtensionSession, error) {
	if mock.CreateFunc == nil {
		panic("sessionRepoMock.CreateFunc: method is nil but sessionRepo.Create was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		TokenHash string
		ExpiresAt time.Time
	}{Ctx: ctx, UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, userID, tokenHash, expiresAt)
}

func (mock *sessionRepoMock) CreateCalls() []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		TokenHash string
		ExpiresAt time.Time
	} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *sessionRepoMock) GetByHash(ctx context.Context, tokenHash string) (*domain.ExtensionSession, error) {
	if mock.GetByHashFunc == nil {
		panic("sessionRepoMock.GetByHashFunc: method is nil but sessionRepo.GetByHash was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		TokenHash string
	}{Ctx: ctx, TokenHash: tokenHash}
	mock.lockGetByHash.Lock()
	mock.calls.GetByHash = append(mock.calls.GetByHash, callInfo)
	mock.lockGetByHash.Unlock()
	return mock.GetByHashFunc(ctx, tokenHash)
}

func (mock *sessionRepoMock) GetByHashCalls() []struct {
		Ctx       context.Context
		TokenHash string
	} {
	mock.lockGetByHash.RLock()
	calls := mock.calls.GetByHash
	mock.lockGetByHash.RUnlock()
	return calls
}

func (mock *sessionRepoMock) RevokeByHash(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	if mock.RevokeByHashFunc == nil {
		panic("sessionRepoMock.RevokeByHashFunc: method is nil but sessionRepo.RevokeByHash was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		TokenHash string
	}{Ctx: ctx, UserID: userID, TokenHash: tokenHash}
	mock.lockRevokeByHash.Lock()
	mock.calls.RevokeByHash = append(mock.calls.RevokeByHash, callInfo)
	mock.lockRevokeByHash.Unlock()
	return mock.RevokeByHashFunc(ctx, userID, tokenHash)
}

func (mock *sessionRepoMock) RevokeByHashCalls() []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		TokenHash string
	} {
	mock.lockRevokeByHash.RLock()
	calls := mock.calls.RevokeByHash
	mock.lockRevokeByHash.RUnlock()
	return calls
}

func (mock *sessionRepoMock) RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if mock.RevokeAllByUserFunc == nil {
		panic("sessionRepoMock.RevokeAllByUserFunc: method is nil but sessionRepo.RevokeAllByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockRevokeAllByUser.Lock()
	mock.calls.RevokeAllByUser = append(mock.calls.RevokeAllByUser, callInfo)
	mock.lockRevokeAllByUser.Unlock()
	return mock.RevokeAllByUserFunc(ctx, userID)
}

func (mock *sessionRepoMock) RevokeAllByUserCalls() []struct {
		Ctx    context.Context
		UserID uuid.UUID
	} {
	mock.lockRevokeAllByUser.RLock()
	calls := mock.calls.RevokeAllByUser
	mock.lockRevokeAllByUser.RUnlock()
	return calls
}

func (mock *sessionRepoMock) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	if mock.DeleteStaleFunc == nil {
		panic("sessionRepoMock.DeleteStaleFunc: method is nil but sessionRepo.DeleteStale was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Cutoff time.Time
	}{Ctx: ctx, Cutoff: cutoff}
	mock.lockDeleteStale.Lock()
	mock.calls.DeleteStale = append(mock.calls.DeleteStale, callInfo)
	mock.lockDeleteStale.Unlock()
	return mock.DeleteStaleFunc(ctx, cutoff)
}

func (mock *sessionRepoMock) DeleteStaleCalls() []struct {
		Ctx    context.Context
		Cutoff time.Time
	} {
	mock.lockDeleteStale.RLock()
	calls := mock.calls.DeleteStale
	mock.lockDeleteStale.RUnlock()
	return calls
}
