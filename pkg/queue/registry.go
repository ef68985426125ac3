package queue

import (
	"fmt"
	"slices"
)

// Queue is a named work queue with its own retry policy.
// A queue without a dead letter target is terminal: it accepts no new tasks
// and has no processors.
type Queue struct {
	name       string
	policy     RetryPolicy
	deadLetter string
	terminal   bool
}

// NewQueue defines a processing queue whose exhausted tasks go to deadLetter.
func NewQueue(name string, policy RetryPolicy, deadLetter string) *Queue {
	return &Queue{name: name, policy: policy, deadLetter: deadLetter}
}

// NewDeadLetterQueue defines a terminal queue.
func NewDeadLetterQueue(name string) *Queue {
	return &Queue{name: name, terminal: true}
}

func (q *Queue) Name() string        { return q.name }
func (q *Queue) Policy() RetryPolicy { return q.policy }
func (q *Queue) DeadLetter() string  { return q.deadLetter }
func (q *Queue) Terminal() bool      { return q.terminal }

// Registry maps queue names to queue definitions.
// It is built once at startup and never mutated, so it is safe to share
// between any number of enqueuers and workers.
type Registry struct {
	queues map[string]*Queue
	names  []string
}

// NewRegistry validates the queue set and returns an immutable registry.
func NewRegistry(queues ...*Queue) (*Registry, error) {
	r := &Registry{queues: make(map[string]*Queue, len(queues))}

	for _, q := range queues {
		if q == nil || q.name == "" {
			return nil, fmt.Errorf("%w: queue name is required", ErrInvalidQueue)
		}
		if _, exists := r.queues[q.name]; exists {
			return nil, fmt.Errorf("%w: duplicate queue %q", ErrInvalidQueue, q.name)
		}
		if !q.terminal {
			if q.policy.MaxAttempts < 1 {
				return nil, fmt.Errorf("%w: queue %q needs at least one attempt", ErrInvalidQueue, q.name)
			}
			if q.policy.Backoff == nil {
				return nil, fmt.Errorf("%w: queue %q has no backoff strategy", ErrInvalidQueue, q.name)
			}
		}
		r.queues[q.name] = q
		r.names = append(r.names, q.name)
	}

	// Dead letter targets must exist and be terminal
	for _, q := range r.queues {
		if q.terminal {
			continue
		}
		target, ok := r.queues[q.deadLetter]
		if !ok {
			return nil, fmt.Errorf("%w: queue %q references unknown dead letter queue %q", ErrInvalidQueue, q.name, q.deadLetter)
		}
		if !target.terminal {
			return nil, fmt.Errorf("%w: dead letter queue %q of %q is not terminal", ErrInvalidQueue, q.deadLetter, q.name)
		}
	}

	slices.Sort(r.names)
	return r, nil
}

// DefaultRegistry builds the standard pair of queues: DefaultQueueName with the
// given policy, backed by the terminal DeadLetterQueueName.
func DefaultRegistry(policy RetryPolicy) (*Registry, error) {
	return NewRegistry(
		NewQueue(DefaultQueueName, policy, DeadLetterQueueName),
		NewDeadLetterQueue(DeadLetterQueueName),
	)
}

// Get returns the queue registered under name.
func (r *Registry) Get(name string) (*Queue, error) {
	q, ok := r.queues[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrQueueNotFound, name)
	}
	return q, nil
}

// MustGet is like Get but panics for unknown names.
func (r *Registry) MustGet(name string) *Queue {
	q, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return q
}

// Names returns all registered queue names in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
