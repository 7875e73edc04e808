package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ integrationRepo = &integrationRepoMock{}

type integrationRepoMock struct {
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Integration, error)
	ListByStatusFunc      func(ctx context.Context, status domain.IntegrationStatus) ([]domain.Integration, error)
	UpdateCredentialsFunc func(ctx context.Context, id uuid.UUID, blob string) error
	MarkSyncedFunc        func(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkErrorFunc         func(ctx context.Context, id uuid.UUID, msg string) error

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		ListByStatus []struct {
			Ctx    context.Context
			Status domain.IntegrationStatus
		}
		UpdateCredentials []struct {
			Ctx  context.Context
			ID   uuid.UUID
			Blob string
		}
		MarkSynced []struct {
			Ctx context.Context
			ID  uuid.UUID
			At  time.Time
		}
		MarkError []struct {
			Ctx context.Context
			ID  uuid.UUID
			Msg string
		}
	}
	lockGetByID           sync.RWMutex
	lockListByStatus      sync.RWMutex
	lockUpdateCredentials sync.RWMutex
	lockMarkSynced        sync.RWMutex
	lockMarkError         sync.RWMutex
}

func (mock *integrationRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Integration, error) {
	if mock.GetByIDFunc == nil {
		panic("integrationRepoMock.GetByIDFunc: method is nil but integrationRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *integrationRepoMock) GetByIDCalls() []struct {
		Ctx context.Context
		ID  uuid.UUID
	} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *integrationRepoMock) ListByStatus(ctx context.Context, status domain.IntegrationStatus) ([]domain.Integration, error) {
	if mock.ListByStatusFunc == nil {
		panic("integrationRepoMock.ListByStatusFunc: method is nil but integrationRepo.ListByStatus was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Status domain.IntegrationStatus
	}{Ctx: ctx, Status: status}
	mock.lockListByStatus.Lock()
	mock.calls.ListByStatus = append(mock.calls.ListByStatus, callInfo)
	mock.lockListByStatus.Unlock()
	return mock.ListByStatusFunc(ctx, status)
}

func (mock *integrationRepoMock) ListByStatusCalls() []struct {
		Ctx    context.Context
		Status domain.IntegrationStatus
	} {
	mock.lockListByStatus.RLock()
	calls := mock.calls.ListByStatus
	mock.lockListByStatus.RUnlock()
	return calls
}

func (mock *integrationRepoMock) UpdateCredentials(ctx context.Context, id uuid.UUID, blob string) error {
	if mock.UpdateCredentialsFunc == nil {
		panic("integrationRepoMock.UpdateCredentialsFunc: method is nil but integrationRepo.UpdateCredentials was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		ID   uuid.UUID
		Blob string
	}{Ctx: ctx, ID: id, Blob: blob}
	mock.lockUpdateCredentials.Lock()
	mock.calls.UpdateCredentials = append(mock.calls.UpdateCredentials, callInfo)
	mock.lockUpdateCredentials.Unlock()
	return mock.UpdateCredentialsFunc(ctx, id, blob)
}

func (mock *integrationRepoMock) UpdateCredentialsCalls() []struct {
		Ctx  context.Context
		ID   uuid.UUID
		Blob string
	} {
	mock.lockUpdateCredentials.RLock()
	calls := mock.calls.UpdateCredentials
	mock.lockUpdateCredentials.RUnlock()
	return calls
}

func (mock *integrationRepoMock) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	if mock.MarkSyncedFunc == nil {
		panic("integrationRepoMock.MarkSyncedFunc: method is nil but integrationRepo.MarkSynced was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}{Ctx: ctx, ID: id, At: at}
	mock.lockMarkSynced.Lock()
	mock.calls.MarkSynced = append(mock.calls.MarkSynced, callInfo)
	mock.lockMarkSynced.Unlock()
	return mock.MarkSyncedFunc(ctx, id, at)
}

func (mock *integrationRepoMock) MarkSyncedCalls() []struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	} {
	mock.lockMarkSynced.RLock()
	calls := mock.calls.MarkSynced
	mock.lockMarkSynced.RUnlock()
	return calls
}

func (mock *integrationRepoMock) MarkError(ctx context.Context, id uuid.UUID, msg string) error {
	if mock.MarkErrorFunc == nil {
		panic("integrationRepoMock.MarkErrorFunc: method is nil but integrationRepo.MarkError was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		Msg string
	}{Ctx: ctx, ID: id, Msg: msg}
	mock.lockMarkError.Lock()
	mock.calls.MarkError = append(mock.calls.MarkError, callInfo)
	mock.lockMarkError.Unlock()
	return mock.MarkErrorFunc(ctx, id, msg)
}

func (mock *integrationRepoMock) MarkErrorCalls() []struct {
		Ctx context.Context
		ID  uuid.UUID
		Msg string
	} {
	mock.lockMarkError.RLock()
	calls := mock.calls.MarkError
	mock.lockMarkError.RUnlock()
	return calls
}
