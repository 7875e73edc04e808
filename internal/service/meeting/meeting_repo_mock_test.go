package meeting

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ meetingRepo = &meetingRepoMock{}

type meetingRepoMock struct {
	AppendTranscriptFunc func(ctx context.Context, m *domain.Meeting, text string) (*domain.Meeting, error)
	EndFunc              func(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error)
	GetFunc              func(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error)
	SetStatusFunc        func(ctx context.Context, teamID uuid.UUID, id string, status domain.MeetingStatus) error

	calls struct {
		AppendTranscript []struct {
			Ctx  context.Context
			M    *domain.Meeting
			Text string
		}
		End []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			ID     string
		}
		Get []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			ID     string
		}
		SetStatus []struct {
			Ctx    context.Context
			TeamID uuid.UUID
			ID     string
			Status domain.MeetingStatus
		}
	}
	lockAppendTranscript sync.RWMutex
	lockEnd              sync.RWMutex
	lockGet              sync.RWMutex
	lockSetStatus        sync.RWMutex
}

func (mock *meetingRepoMock) AppendTranscript(ctx context.Context, m *domain.Meeting, text string) (*domain.Meeting, error) {
	if mock.AppendTranscriptFunc == nil {
		panic("meetingRepoMock.AppendTranscriptFunc: method is nil but meetingRepo.AppendTranscript was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		M    *domain.Meeting
		Text string
	}{Ctx: ctx, M: m, Text: text}
	mock.lockAppendTranscript.Lock()
	mock.calls.AppendTranscript = append(mock.calls.AppendTranscript, callInfo)
	mock.lockAppendTranscript.Unlock()
	return mock.AppendTranscriptFunc(ctx, m, text)
}

func (mock *meetingRepoMock) AppendTranscriptCalls() []struct {
		Ctx  context.Context
		M    *domain.Meeting
		Text string
	} {
	mock.lockAppendTranscript.RLock()
	calls := mock.calls.AppendTranscript
	mock.lockAppendTranscript.RUnlock()
	return calls
}

func (mock *meetingRepoMock) End(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error) {
	if mock.EndFunc == nil {
		panic("meetingRepoMock.EndFunc: method is nil but meetingRepo.End was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     string
	}{Ctx: ctx, TeamID: teamID, ID: id}
	mock.lockEnd.Lock()
	mock.calls.End = append(mock.calls.End, callInfo)
	mock.lockEnd.Unlock()
	return mock.EndFunc(ctx, teamID, id)
}

func (mock *meetingRepoMock) EndCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     string
	} {
	mock.lockEnd.RLock()
	calls := mock.calls.End
	mock.lockEnd.RUnlock()
	return calls
}

func (mock *meetingRepoMock) Get(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error) {
	if mock.GetFunc == nil {
		panic("meetingRepoMock.GetFunc: method is nil but meetingRepo.Get was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     string
	}{Ctx: ctx, TeamID: teamID, ID: id}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, teamID, id)
}

func (mock *meetingRepoMock) GetCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     string
	} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *meetingRepoMock) SetStatus(ctx context.Context, teamID uuid.UUID, id string, status domain.MeetingStatus) error {
	if mock.SetStatusFunc == nil {
		panic("meetingRepoMock.SetStatusFunc: method is nil but meetingRepo.SetStatus was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     string
		Status domain.MeetingStatus
	}{Ctx: ctx, TeamID: teamID, ID: id, Status: status}
	mock.lockSetStatus.Lock()
	mock.calls.SetStatus = append(mock.calls.SetStatus, callInfo)
	mock.lockSetStatus.Unlock()
	return mock.SetStatusFunc(ctx, teamID, id, status)
}

func (mock *meetingRepoMock) SetStatusCalls() []struct {
		Ctx    context.Context
		TeamID uuid.UUID
		ID     string
		Status domain.MeetingStatus
	} {
	mock.lockSetStatus.RLock()
	calls := mock.calls.SetStatus
	mock.lockSetStatus.RUnlock()
	return calls
}
