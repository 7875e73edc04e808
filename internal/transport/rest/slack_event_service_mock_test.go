package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/slack"
)

var _ slackEventService = &slackEventServiceMock{}

type slackEventServiceMock struct {
	VerifySlackRequestFunc func(timestamp string, signature string, body []byte) error
	HandleSlackEventFunc   func(ctx context.Context, env slack.Envelope) error

	calls struct {
		VerifySlackRequest []struct {
			Timestamp string
			Signature string
			Body      []byte
		}
		HandleSlackEvent []struct {
			Ctx context.Context
			Env slack.Envelope
		}
	}
	lockVerifySlackRequest sync.RWMutex
	lockHandleSlackEvent   sync.RWMutex
}

func (mock *slackEventServiceMock) VerifySlackRequest(timestamp string, signature string, body []byte) error {
	if mock.VerifySlackRequestFunc == nil {
		panic("slackEventServiceMock.VerifySlackRequestFunc: method is nil but slackEventService.VerifySlackRequest was just called")
	}
	callInfo := struct {
		Timestamp string
		Signature string
		Body      []byte
	}{Timestamp: timestamp, Signature: signature, Body: body}
	mock.lockVerifySlackRequest.Lock()
	mock.calls.VerifySlackRequest = append(mock.calls.VerifySlackRequest, callInfo)
	mock.lockVerifySlackRequest.Unlock()
	return mock.VerifySlackRequestFunc(timestamp, signature, body)
}

func (mock *slackEventServiceMock) VerifySlackRequestCalls() []struct {
		Timestamp string
		Signature string
		Body      []byte
	} {
	mock.lockVerifySlackRequest.RLock()
	calls := mock.calls.VerifySlackRequest
	mock.lockVerifySlackRequest.RUnlock()
	return calls
}

func (mock *slackEventServiceMock) HandleSlackEvent(ctx context.Context, env slack.Envelope) error {
	if mock.HandleSlackEventFunc == nil {
		panic("slackEventServiceMock.HandleSlackEventFunc: method is nil but slackEventService.HandleSlackEvent was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Env slack.Envelope
	}{Ctx: ctx, Env: env}
	mock.lockHandleSlackEvent.Lock()
	mock.calls.HandleSlackEvent = append(mock.calls.HandleSlackEvent, callInfo)
	mock.lockHandleSlackEvent.Unlock()
	return mock.HandleSlackEventFunc(ctx, env)
}

func (mock *slackEventServiceMock) HandleSlackEventCalls() []struct {
		Ctx context.Context
		Env slack.Envelope
	} {
	mock.lockHandleSlackEvent.RLock()
	calls := mock.calls.HandleSlackEvent
	mock.lockHandleSlackEvent.RUnlock()
	return calls
}
