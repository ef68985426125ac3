package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

// Producer enqueues notification envelopes.
type Producer struct {
	enqueuer *queue.Enqueuer
	queue    string
}

// ProducerOption configures a Producer.
type ProducerOption func(*Producer)

// WithProducerQueue sends envelopes to the named queue instead of the
// enqueuer's default queue.
func WithProducerQueue(name string) ProducerOption {
	return func(p *Producer) { p.queue = name }
}

// NewProducer creates a Producer on top of enqueuer.
func NewProducer(enqueuer *queue.Enqueuer, opts ...ProducerOption) (*Producer, error) {
	if enqueuer == nil {
		return nil, fmt.Errorf("%w: enqueuer", ErrNilDependency)
	}
	p := &Producer{enqueuer: enqueuer}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Enqueue validates env and appends it to the queue. Every call creates a
// new task; identical envelopes are not deduplicated. opts override the
// queue defaults (delay, attempts) for this one task.
func (p *Producer) Enqueue(ctx context.Context, env Envelope, opts ...queue.EnqueueOption) (uuid.UUID, error) {
	if err := env.Validate(); err != nil {
		return uuid.Nil, err
	}

	base := make([]queue.EnqueueOption, 0, len(opts)+2)
	base = append(base, queue.WithTaskName(TaskName))
	if p.queue != "" {
		base = append(base, queue.WithQueue(p.queue))
	}
	return p.enqueuer.Enqueue(ctx, env, append(base, opts...)...)
}

// Send enqueues an email envelope for payload.
func (p *Producer) Send(ctx context.Context, payload Payload, opts ...queue.EnqueueOption) (uuid.UUID, error) {
	return p.Enqueue(ctx, NewEnvelope(payload), opts...)
}
