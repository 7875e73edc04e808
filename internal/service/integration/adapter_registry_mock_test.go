package integration

import (
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ adapterRegistry = &adapterRegistryMock{}

type adapterRegistryMock struct {
	GetFunc   func(typ domain.IntegrationType) (provider.Adapter, error)
	TypesFunc func() []domain.IntegrationType

	calls struct {
		Get []struct {
			Typ domain.IntegrationType
		}
		Types []struct{}
	}
	lockGet   sync.RWMutex
	lockTypes sync.RWMutex
}

func (mock *adapterRegistryMock) Get(typ domain.IntegrationType) (provider.Adapter, error) {
	if mock.GetFunc == nil {
		panic("adapterRegistryMock.GetFunc: method is nil but adapterRegistry.Get was just called")
	}
	callInfo := struct {
		Typ domain.IntegrationType
	}{Typ: typ}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(typ)
}

func (mock *adapterRegistryMock) GetCalls() []struct {
		Typ domain.IntegrationType
	} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *adapterRegistryMock) Types() []domain.IntegrationType {
	if mock.TypesFunc == nil {
		panic("adapterRegistryMock.TypesFunc: method is nil but adapterRegistry.Types was just called")
	}
	callInfo := struct{}{}
	mock.lockTypes.Lock()
	mock.calls.Types = append(mock.calls.Types, callInfo)
	mock.lockTypes.Unlock()
	return mock.TypesFunc()
}

func (mock *adapterRegistryMock) TypesCalls() []struct{} {
	mock.lockTypes.RLock()
	calls := mock.calls.Types
	mock.lockTypes.RUnlock()
	return calls
}
