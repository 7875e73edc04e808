package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/internal/service/meeting"
)

var _ meetingService = &meetingServiceMock{}

type meetingServiceMock struct {
	AppendCaptionsFunc func(ctx context.Context, input meeting.CaptionsInput) (*domain.Meeting, error)
	EndFunc            func(ctx context.Context, meetingID string) (*domain.Meeting, error)

	calls struct {
		AppendCaptions []struct {
			Ctx   context.Context
			Input meeting.CaptionsInput
		}
		End []struct {
			Ctx       context.Context
			MeetingID string
		}
	}
	lockAppendCaptions sync.RWMutex
	lockEnd            sync.RWMutex
}

func (mock *meetingServiceMock) AppendCaptions(ctx context.Context, input meeting.CaptionsInput) (*domain.Meeting, error) {
	if mock.AppendCaptionsFunc == nil {
		panic("meetingServiceMock.AppendCaptionsFunc: method is nil but meetingService.AppendCaptions was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input meeting.CaptionsInput
	}{Ctx: ctx, Input: input}
	mock.lockAppendCaptions.Lock()
	mock.calls.AppendCaptions = append(mock.calls.AppendCaptions, callInfo)
	mock.lockAppendCaptions.Unlock()
	return mock.AppendCaptionsFunc(ctx, input)
}

func (mock *meetingServiceMock) AppendCaptionsCalls() []struct {
		Ctx   context.Context
		Input meeting.CaptionsInput
	} {
	mock.lockAppendCaptions.RLock()
	calls := mock.calls.AppendCaptions
	mock.lockAppendCaptions.RUnlock()
	return calls
}

func (mock *meetingServiceMock) End(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	if mock.EndFunc == nil {
		panic("meetingServiceMock.EndFunc: method is nil but meetingService.End was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		MeetingID string
	}{Ctx: ctx, MeetingID: meetingID}
	mock.lockEnd.Lock()
	mock.calls.End = append(mock.calls.End, callInfo)
	mock.lockEnd.Unlock()
	return mock.EndFunc(ctx, meetingID)
}

func (mock *meetingServiceMock) EndCalls() []struct {
		Ctx       context.Context
		MeetingID string
	} {
	mock.lockEnd.RLock()
	calls := mock.calls.End
	mock.lockEnd.RUnlock()
	return calls
}
