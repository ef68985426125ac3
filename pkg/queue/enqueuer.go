package queue

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxAttemptsCeiling bounds WithMaxAttempts.
const MaxAttemptsCeiling = 25

// EnqueuerRepository persists new tasks.
type EnqueuerRepository interface {
	CreateTask(ctx context.Context, task *Task) error
}

// Enqueuer turns payloads into pending tasks on registered queues.
type Enqueuer struct {
	repo         EnqueuerRepository
	registry     *Registry
	defaultQueue string
}

type EnqueuerOption func(*Enqueuer)

// WithDefaultQueue replaces DefaultQueueName for calls without WithQueue.
func WithDefaultQueue(name string) EnqueuerOption {
	return func(e *Enqueuer) {
		if name != "" {
			e.defaultQueue = name
		}
	}
}

func NewEnqueuer(repo EnqueuerRepository, registry *Registry, opts ...EnqueuerOption) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}
	if registry == nil {
		return nil, ErrRegistryNil
	}
	e := &Enqueuer{repo: repo, registry: registry, defaultQueue: DefaultQueueName}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EnqueueOption overrides queue defaults for a single task.
type EnqueueOption func(*enqueueSpec)

type enqueueSpec struct {
	queue       string
	taskName    string
	maxAttempts int
	delay       time.Duration
	runAt       time.Time
	err         error
}

func WithQueue(name string) EnqueueOption {
	return func(s *enqueueSpec) {
		if name != "" {
			s.queue = name
		}
	}
}

// WithMaxAttempts overrides the queue policy. Zero keeps the policy; values
// outside 0..MaxAttemptsCeiling make Enqueue fail with ErrInvalidMaxAttempts.
func WithMaxAttempts(n int) EnqueueOption {
	return func(s *enqueueSpec) {
		if n < 0 || n > MaxAttemptsCeiling {
			s.err = fmt.Errorf("%w: got %d, allowed 1..%d", ErrInvalidMaxAttempts, n, MaxAttemptsCeiling)
			return
		}
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithDelay makes the task eligible after d. WithScheduledAt takes precedence.
func WithDelay(d time.Duration) EnqueueOption {
	return func(s *enqueueSpec) {
		if d > 0 {
			s.delay = d
		}
	}
}

func WithScheduledAt(at time.Time) EnqueueOption {
	return func(s *enqueueSpec) { s.runAt = at }
}

// WithTaskName routes the task to the handler registered under name instead
// of the payload's type name.
func WithTaskName(name string) EnqueueOption {
	return func(s *enqueueSpec) {
		if name != "" {
			s.taskName = name
		}
	}
}

// Enqueue stores payload as a new pending task and returns its ID. Identical
// payloads are not deduplicated. A json.RawMessage payload is stored verbatim.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) (uuid.UUID, error) {
	if payload == nil {
		return uuid.Nil, ErrPayloadNil
	}

	spec := enqueueSpec{queue: e.defaultQueue}
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.err != nil {
		return uuid.Nil, spec.err
	}

	q, err := e.registry.Get(spec.queue)
	if err != nil {
		return uuid.Nil, err
	}
	if q.Terminal() {
		return uuid.Nil, fmt.Errorf("%w: cannot enqueue onto %q", ErrQueueTerminal, q.Name())
	}

	body, err := encodePayload(payload)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	runAt := spec.runAt
	if runAt.IsZero() {
		runAt = now.Add(spec.delay)
	}

	task := &Task{
		ID:          uuid.New(),
		Queue:       q.Name(),
		TaskName:    cmp.Or(spec.taskName, qualifiedStructName(payload)),
		Payload:     body,
		Status:      TaskStatusPending,
		MaxAttempts: cmp.Or(spec.maxAttempts, q.Policy().MaxAttempts),
		ScheduledAt: runAt,
		CreatedAt:   now,
	}
	if err := e.repo.CreateTask(ctx, task); err != nil {
		return uuid.Nil, errors.Join(ErrTaskCreate,
			fmt.Errorf("task %q in queue %q: %w", task.TaskName, task.Queue, err))
	}
	return task.ID, nil
}

func encodePayload(payload any) ([]byte, error) {
	if raw, ok := payload.(json.RawMessage); ok {
		return raw, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Join(ErrPayloadMarshal, fmt.Errorf("payload of type %T: %w", payload, err))
	}
	return b, nil
}
