package syncer

import (
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ notifier = &notifierMock{}

type notifierMock struct {
	PublishFunc func(teamID uuid.UUID, event domain.Event)

	calls struct {
		Publish []struct {
			TeamID uuid.UUID
			Event  domain.Event
		}
	}
	lockPublish sync.RWMutex
}

func (mock *notifierMock) Publish(teamID uuid.UUID, event domain.Event) {
	if mock.PublishFunc == nil {
		panic("notifierMock.PublishFunc: method is nil but notifier.Publish was just called")
	}
	callInfo := struct {
		TeamID uuid.UUID
		Event  domain.Event
	}{TeamID: teamID, Event: event}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	mock.PublishFunc(teamID, event)
}

func (mock *notifierMock) PublishCalls() []struct {
		TeamID uuid.UUID
		Event  domain.Event
	} {
	mock.lockPublish.RLock()
	calls := mock.calls.Publish
	mock.lockPublish.RUnlock()
	return calls
}
