package syncer

import (
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var _ credentialStore = &credentialStoreMock{}

type credentialStoreMock struct {
	EncryptFunc            func(payload any) (string, error)
	DecryptCredentialsFunc func(blob string) (domain.Credentials, error)

	calls struct {
		Encrypt []struct {
			Payload any
		}
		DecryptCredentials []struct {
			Blob string
		}
	}
	lockEncrypt            sync.RWMutex
	lockDecryptCredentials sync.RWMutex
}

func (mock *credentialStoreMock) Encrypt(payload any) (string, error) {
	if mock.EncryptFunc == nil {
		panic("credentialStoreMock.EncryptFunc: method is nil but credentialStore.Encrypt was just called")
	}
	callInfo := struct {
		Payload any
	}{Payload: payload}
	mock.lockEncrypt.Lock()
	mock.calls.Encrypt = append(mock.calls.Encrypt, callInfo)
	mock.lockEncrypt.Unlock()
	return mock.EncryptFunc(payload)
}

func (mock *credentialStoreMock) EncryptCalls() []struct {
		Payload any
	} {
	mock.lockEncrypt.RLock()
	calls := mock.calls.Encrypt
	mock.lockEncrypt.RUnlock()
	return calls
}

func (mock *credentialStoreMock) DecryptCredentials(blob string) (domain.Credentials, error) {
	if mock.DecryptCredentialsFunc == nil {
		panic("credentialStoreMock.DecryptCredentialsFunc: method is nil but credentialStore.DecryptCredentials was just called")
	}
	callInfo := struct {
		Blob string
	}{Blob: blob}
	mock.lockDecryptCredentials.Lock()
	mock.calls.DecryptCredentials = append(mock.calls.DecryptCredentials, callInfo)
	mock.lockDecryptCredentials.Unlock()
	return mock.DecryptCredentialsFunc(blob)
}

func (mock *credentialStoreMock) DecryptCredentialsCalls() []struct {
		Blob string
	} {
	mock.lockDecryptCredentials.RLock()
	calls := mock.calls.DecryptCredentials
	mock.lockDecryptCredentials.RUnlock()
	return calls
}
