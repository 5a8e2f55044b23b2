// Package mocks provides testify mocks for the engine's collaborator interfaces.
package mocks

import (
	"context"

	"github.com/alexgaganashvili/orca/pkg/auth"
	"github.com/alexgaganashvili/orca/pkg/events"
	"github.com/alexgaganashvili/orca/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a mock implementation of eventbus.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(ctx context.Context, identity auth.Identity, event *events.EventRecord) error {
	args := m.Called(ctx, identity, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// MockApplicationNotificationSource is a mock implementation of
// echo.ApplicationNotificationSource.
type MockApplicationNotificationSource struct {
	mock.Mock
}

func (m *MockApplicationNotificationSource) ApplicationNotifications(ctx context.Context, identity auth.Identity, application string) ([]*models.Notification, error) {
	args := m.Called(ctx, identity, application)

	if list := args.Get(0); list != nil {
		return list.([]*models.Notification), args.Error(1)
	}

	return nil, args.Error(1)
}
