package notification

import "errors"

var (
	// ErrHandlerNotFound is returned when no route is registered for a template.
	// It is a configuration defect, never a transient fault.
	ErrHandlerNotFound = errors.New("notification: no handler registered for template")

	// ErrInvalidPayload is returned when a payload does not match its template
	// or misses required fields.
	ErrInvalidPayload = errors.New("notification: invalid payload")

	// ErrInvalidEnvelope is returned when a job body is not a notification envelope.
	ErrInvalidEnvelope = errors.New("notification: invalid envelope")

	// ErrUndeliverable marks a delivery failure that will repeat on every attempt,
	// such as a rejected recipient.
	ErrUndeliverable = errors.New("notification: undeliverable")

	// ErrNilDependency is returned by constructors given a nil collaborator.
	ErrNilDependency = errors.New("notification: nil dependency")
)
