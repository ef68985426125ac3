package notification

import "context"

// Notifier composes and delivers one kind of message per template.
// Retries may call a method more than once for the same job, so
// implementations must tolerate at-least-once delivery.
type Notifier interface {
	SendGeneric(ctx context.Context, p GenericPayload) error
	SendSignupCode(ctx context.Context, to, code, correlationID string) error
	SendSignupSucceeded(ctx context.Context, to string) error
	SendPasswordRecovery(ctx context.Context, to, code, resetToken string) error
	SendResetConfirmation(ctx context.Context, to string) error
	SendWelcome(ctx context.Context, to, name string) error
}
