package queue

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultQueueName is the default queue name used when no queue is specified
	DefaultQueueName = "default"

	// DeadLetterQueueName is the terminal queue receiving tasks that exhausted their attempts
	DeadLetterQueueName = "dead-letter"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
)

// Task represents a task in the queue.
// Completed tasks are removed from storage, so only pending and processing
// tasks are ever observed.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Queue       string     `json:"queue"`
	TaskName    string     `json:"task_name"`
	Payload     []byte     `json:"payload,omitempty"`
	Status      TaskStatus `json:"status"`
	Attempt     int        `json:"attempt"`      // attempts started so far
	MaxAttempts int        `json:"max_attempts"` // total attempts allowed, including the first
	ScheduledAt time.Time  `json:"scheduled_at"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LockedBy    *uuid.UUID `json:"locked_by,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DeadLetter is a task that exhausted its attempts (or failed permanently).
// The original task name and payload are kept verbatim so the task can be replayed.
type DeadLetter struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	Queue       string    `json:"queue"`
	OriginQueue string    `json:"origin_queue"`
	TaskName    string    `json:"task_name"`
	Payload     []byte    `json:"payload,omitempty"`
	Error       string    `json:"error"`
	Attempts    int       `json:"attempts"`
	FailedAt    time.Time `json:"failed_at"`
}

// newDeadLetter builds a dead letter record from a claimed task.
func newDeadLetter(task *Task, deadLetterQueue, reason string) *DeadLetter {
	return &DeadLetter{
		ID:          uuid.New(),
		TaskID:      task.ID,
		Queue:       deadLetterQueue,
		OriginQueue: task.Queue,
		TaskName:    task.TaskName,
		Payload:     task.Payload,
		Error:       reason,
		Attempts:    task.Attempt,
		FailedAt:    time.Now(),
	}
}
