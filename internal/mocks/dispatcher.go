package mocks

import (
	"github.com/stretchr/testify/mock"
)

type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) SendToUser(userID int64, event string, payload any) {
	m.Called(userID, event, payload)
}

func (m *Dispatcher) Broadcast(event string, payload any) {
	m.Called(event, payload)
}
