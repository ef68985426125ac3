package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coachdesk/coachdesk/pkg/logger"
	"github.com/coachdesk/coachdesk/pkg/queue"
)

// TaskName is the queue task name under which envelopes are enqueued and
// the name the Processor registers with the worker.
const TaskName = "notification"

// Processor is the queue handler for notification envelopes.
type Processor struct {
	dispatcher *Dispatcher
	kind       Kind
	logger     *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithProcessorLogger sets the logger; nil keeps the default.
func WithProcessorLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithKind changes the discriminator the Processor accepts. Jobs of any
// other kind are acknowledged without being dispatched.
func WithKind(k Kind) ProcessorOption {
	return func(p *Processor) {
		if k != "" {
			p.kind = k
		}
	}
}

// NewProcessor creates a handler that routes envelopes through d.
func NewProcessor(d *Dispatcher, opts ...ProcessorOption) (*Processor, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: dispatcher", ErrNilDependency)
	}
	p := &Processor{
		dispatcher: d,
		kind:       KindEmail,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name implements queue.Handler.
func (p *Processor) Name() string { return TaskName }

// Handle implements queue.Handler.
//
// A body of another kind returns queue.ErrSkipTask. Malformed bodies, unknown
// templates, invalid payloads and undeliverable messages are permanent and
// wrapped with queue.NonRetryable; any other delivery error goes back to the
// worker's retry policy.
func (p *Processor) Handle(ctx context.Context, raw json.RawMessage) error {
	info, _ := queue.TaskInfoFromContext(ctx)

	h, err := decodeHeader(raw)
	if err != nil {
		p.logger.ErrorContext(ctx, "malformed notification envelope",
			logger.TaskID(info.ID),
			logger.Attempt(info.Attempt),
			logger.Error(err))
		return queue.NonRetryable(err)
	}

	if h.Type != p.kind {
		p.logger.DebugContext(ctx, "skipping job of another kind",
			logger.TaskID(info.ID),
			slog.String("kind", string(h.Type)))
		return fmt.Errorf("%w: kind %q, processor handles %q", queue.ErrSkipTask, h.Type, p.kind)
	}

	start := time.Now()
	if err := p.dispatcher.DispatchRaw(ctx, h.Template, h.Payload); err != nil {
		permanent := isPermanent(err)
		p.logger.ErrorContext(ctx, "notification delivery failed",
			logger.TaskID(info.ID),
			logger.Queue(info.Queue),
			logger.Template(string(h.Template)),
			logger.Attempt(info.Attempt),
			slog.Int("max_attempts", info.MaxAttempts),
			slog.Bool("permanent", permanent),
			logger.Error(err))
		if permanent {
			return queue.NonRetryable(err)
		}
		return err
	}

	p.logger.InfoContext(ctx, "notification sent",
		logger.TaskID(info.ID),
		logger.Template(string(h.Template)),
		logger.Attempt(info.Attempt),
		logger.Duration(time.Since(start)))
	return nil
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrHandlerNotFound) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrInvalidEnvelope) ||
		errors.Is(err, ErrUndeliverable)
}
