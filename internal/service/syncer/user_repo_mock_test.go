package syncer

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	ListByTeamRolesFunc func(ctx context.Context, teamID uuid.UUID, roles ...domain.Role) ([]domain.User, error)

	calls struct {
		ListByTeamRoles []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			Roles  []domain.Role
		}
	}
	lockListByTeamRoles sync.RWMutex
}

func (mock *userRepoMock) ListByTeamRoles(ctx context.Context, teamID uuid.UUID, roles ...domain.Role) ([]domain.User, error) {
	if mock.ListByTeamRolesFunc == nil {
		panic("userRepoMock.ListByTeamRolesFunc: method is nil but userRepo.ListByTeamRoles was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Roles  []domain.Role
	}{Ctx: ctx, TeamID: teamID, Roles: roles}
	mock.lockListByTeamRoles.Lock()
	mock.calls.ListByTeamRoles = append(mock.calls.ListByTeamRoles, callInfo)
	mock.lockListByTeamRoles.Unlock()
	return mock.ListByTeamRolesFunc(ctx, teamID, roles...)
}

func (mock *userRepoMock) ListByTeamRolesCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		Roles  []domain.Role
	} {
	mock.lockListByTeamRoles.RLock()
	calls := mock.calls.ListByTeamRoles
	mock.lockListByTeamRoles.RUnlock()
	return calls
}
