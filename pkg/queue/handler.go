package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// Handler processes the payload of tasks whose TaskName equals Name.
type Handler interface {
	Name() string
	Handle(ctx context.Context, payload json.RawMessage) error
}

// TaskHandlerFunc handles a decoded payload of type T.
type TaskHandlerFunc[T any] func(ctx context.Context, payload T) error

// NewTaskHandler names the handler after T, the same name Enqueuer gives a
// T payload without WithTaskName.
func NewTaskHandler[T any](fn TaskHandlerFunc[T]) Handler {
	return NewNamedTaskHandler(qualifiedStructName(*new(T)), fn)
}

// NewNamedTaskHandler handles tasks enqueued with WithTaskName(name).
func NewNamedTaskHandler[T any](name string, fn TaskHandlerFunc[T]) Handler {
	return typedHandler[T]{name: name, fn: fn}
}

type typedHandler[T any] struct {
	name string
	fn   TaskHandlerFunc[T]
}

func (h typedHandler[T]) Name() string { return h.name }

// Handle decodes the payload into T. Decoding failures are permanent.
func (h typedHandler[T]) Handle(ctx context.Context, payload json.RawMessage) error {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return NonRetryable(fmt.Errorf("decode %s payload: %w", h.name, err))
	}
	return h.fn(ctx, v)
}

// qualifiedStructName returns "pkg.Type" for v, looking through pointers.
func qualifiedStructName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
