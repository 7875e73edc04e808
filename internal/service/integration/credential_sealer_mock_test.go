package integration

import (
	"sync"
)

var _ credentialSealer = &credentialSealerMock{}

type credentialSealerMock struct {
	EncryptFunc func(payload any) (string, error)

	calls struct {
		Encrypt []struct {
			Payload any
		}
	}
	lockEncrypt sync.RWMutex
}

func (mock *credentialSealerMock) Encrypt(payload any) (string, error) {
	if mock.EncryptFunc == nil {
		panic("credentialSealerMock.EncryptFunc: method is nil but credentialSealer.Encrypt was just called")
	}
	callInfo := struct {
		Payload any
	}{Payload: payload}
	mock.lockEncrypt.Lock()
	mock.calls.Encrypt = append(mock.calls.Encrypt, callInfo)
	mock.lockEncrypt.Unlock()
	return mock.EncryptFunc(payload)
}

func (mock *credentialSealerMock) EncryptCalls() []struct {
		Payload any
	} {
	mock.lockEncrypt.RLock()
	calls := mock.calls.Encrypt
	mock.lockEncrypt.RUnlock()
	return calls
}
