package queue

import "errors"

// Common errors
var (
	// ErrRepositoryNil is returned when a nil repository is provided
	ErrRepositoryNil = errors.New("repository cannot be nil")

	// ErrRegistryNil is returned when a nil queue registry is provided
	ErrRegistryNil = errors.New("queue registry cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload
	ErrPayloadNil = errors.New("payload cannot be nil")

	// ErrPayloadMarshal is returned when payload marshaling fails
	ErrPayloadMarshal = errors.New("failed to marshal payload to JSON")

	// ErrTaskCreate is returned when task creation in storage fails
	ErrTaskCreate = errors.New("failed to create task in storage")

	// ErrTaskNotFound is returned when a task does not exist in storage
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskNotProcessing is returned when a state transition requires a claimed task
	ErrTaskNotProcessing = errors.New("task is not in processing state")

	// ErrTaskLockLost is returned when a claimed task is now locked by another worker
	ErrTaskLockLost = errors.New("task is locked by another worker")

	// ErrNoTaskToClaim is returned by storage when no task is ready to run
	ErrNoTaskToClaim = errors.New("no task available to claim")

	// ErrHandlerNotFound is returned when no handler is registered for a task
	ErrHandlerNotFound = errors.New("no handler registered for task type")

	// ErrNoHandlers is returned when worker has no handlers registered
	ErrNoHandlers = errors.New("no task handlers registered")

	// ErrQueueNotFound is returned when a queue name is not in the registry
	ErrQueueNotFound = errors.New("queue not registered")

	// ErrQueueTerminal is returned when enqueueing onto or consuming from a terminal queue
	ErrQueueTerminal = errors.New("queue is terminal")

	// ErrInvalidMaxAttempts is returned when a max attempts override is out of range
	ErrInvalidMaxAttempts = errors.New("max attempts override out of range")

	// ErrInvalidQueue is returned when a queue definition is rejected by the registry
	ErrInvalidQueue = errors.New("invalid queue definition")

	// ErrDeadLetterNotFound is returned when a dead letter entry does not exist
	ErrDeadLetterNotFound = errors.New("dead letter not found")

	ErrWorkerStarted    = errors.New("worker already started")
	ErrWorkerNotStarted = errors.New("worker not started")

	// ErrDeadLetterRepositoryNil is returned when the worker has nowhere to put failed tasks
	ErrDeadLetterRepositoryNil = errors.New("dead letter repository cannot be nil")

	// ErrFailedToGetNextTask is returned when fetching next task fails
	ErrFailedToGetNextTask = errors.New("failed to get next task from storage")

	// ErrFailedToMoveToDLQ is returned when moving task to DLQ fails
	ErrFailedToMoveToDLQ = errors.New("failed to move task to dead letter queue")

	// ErrSkipTask is returned by a handler that intentionally ignores a task.
	// The task is acknowledged without being retried.
	ErrSkipTask = errors.New("task skipped by handler")
)

// nonRetryableError marks a handler error as permanent.
type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string { return e.err.Error() }
func (e *nonRetryableError) Unwrap() error { return e.err }

// NonRetryable wraps err so the worker moves the task to the dead letter queue
// right away instead of scheduling another attempt.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsRetryable reports whether a handler error should go through the retry policy.
func IsRetryable(err error) bool {
	var nr *nonRetryableError
	return !errors.As(err, &nr)
}
