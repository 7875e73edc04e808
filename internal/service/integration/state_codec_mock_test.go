package integration

import (
	"sync"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
)

var _ stateCodec = &stateCodecMock{}

type stateCodecMock struct {
	EncodeFunc func(s oauth.State) (string, error)
	DecodeFunc func(state string) (oauth.State, error)

	calls struct {
		Encode []struct {
			S oauth.State
		}
		Decode []struct {
			State string
		}
	}
	lockEncode sync.RWMutex
	lockDecode sync.RWMutex
}

func (mock *stateCodecMock) Encode(s oauth.State) (string, error) {
	if mock.EncodeFunc == nil {
		panic("stateCodecMock.EncodeFunc: method is nil but stateCodec.Encode was just called")
	}
	callInfo := struct {
		S oauth.State
	}{S: s}
	mock.lockEncode.Lock()
	mock.calls.Encode = append(mock.calls.Encode, callInfo)
	mock.lockEncode.Unlock()
	return mock.EncodeFunc(s)
}

func (mock *stateCodecMock) EncodeCalls() []struct {
		S oauth.State
	} {
	mock.lockEncode.RLock()
	calls := mock.calls.Encode
	mock.lockEncode.RUnlock()
	return calls
}

func (mock *stateCodecMock) Decode(state string) (oauth.State, error) {
	if mock.DecodeFunc == nil {
		panic("stateCodecMock.DecodeFunc: method is nil but stateCodec.Decode was just called")
	}
	callInfo := struct {
		State string
	}{State: state}
	mock.lockDecode.Lock()
	mock.calls.Decode = append(mock.calls.Decode, callInfo)
	mock.lockDecode.Unlock()
	return mock.DecodeFunc(state)
}

func (mock *stateCodecMock) DecodeCalls() []struct {
		State string
	} {
	mock.lockDecode.RLock()
	calls := mock.calls.Decode
	mock.lockDecode.RUnlock()
	return calls
}
