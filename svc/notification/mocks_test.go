package notification_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/coachdesk/coachdesk/pkg/email"
	"github.com/coachdesk/coachdesk/svc/notification"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendGeneric(ctx context.Context, p notification.GenericPayload) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockNotifier) SendSignupCode(ctx context.Context, to, code, correlationID string) error {
	return m.Called(ctx, to, code, correlationID).Error(0)
}

func (m *MockNotifier) SendSignupSucceeded(ctx context.Context, to string) error {
	return m.Called(ctx, to).Error(0)
}

func (m *MockNotifier) SendPasswordRecovery(ctx context.Context, to, code, resetToken string) error {
	return m.Called(ctx, to, code, resetToken).Error(0)
}

func (m *MockNotifier) SendResetConfirmation(ctx context.Context, to string) error {
	return m.Called(ctx, to).Error(0)
}

func (m *MockNotifier) SendWelcome(ctx context.Context, to, name string) error {
	return m.Called(ctx, to, name).Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}
