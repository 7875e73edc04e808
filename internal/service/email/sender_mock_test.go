package email

import (
	"context"
	"sync"
)

var _ sender = &senderMock{}

type senderMock struct {
	SendFunc func(ctx context.Context, to []string, subject string, html string) error

	calls struct {
		Send []struct {
			Ctx     context.Context
			To      []string
			Subject string
			HTML    string
		}
	}
	lockSend sync.RWMutex
}

func (mock *senderMock) Send(ctx context.Context, to []string, subject string, html string) error {
	if mock.SendFunc == nil {
		panic("senderMock.SendFunc: method is nil but sender.Send was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		To      []string
		Subject string
		HTML    string
	}{Ctx: ctx, To: to, Subject: subject, HTML: html}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, to, subject, html)
}

func (mock *senderMock) SendCalls() []struct {
		Ctx     context.Context
		To      []string
		Subject string
		HTML    string
	} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
