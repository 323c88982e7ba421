package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"companyapi/internal/broker"
)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, ev broker.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}
