package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/coachdesk/coachdesk/pkg/binder"
)

// Context is the request context handed to every HandlerFunc. It carries the
// request's context.Context so it can be passed straight to queue and store
// calls.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

type requestContext struct {
	context.Context
	w http.ResponseWriter
	r *http.Request
}

// NewContext returns the default Context for w and r.
func NewContext(w http.ResponseWriter, r *http.Request) Context {
	return requestContext{Context: r.Context(), w: w, r: r}
}

func (c requestContext) Request() *http.Request              { return c.r }
func (c requestContext) ResponseWriter() http.ResponseWriter { return c.w }

// HandlerFunc handles a request already bound into R.
//
//	replay := func(ctx handler.Context, req ReplayRequest) handler.Response {
//		id, err := deadLetters.Replay(ctx, req.ID)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(map[string]any{"task_id": id}, handler.WithJSONStatus(http.StatusAccepted))
//	}
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response writes itself to the client. A Render error goes to the ErrorHandler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from r. Returning binder.ErrBinderNotApplicable skips the binder.
type Bind func(r *http.Request, v any) error

// ErrorHandler reports bind and render failures to the client.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc. The first decorator passed is the outermost.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapper[C, R])

type wrapper[C Context, R any] struct {
	binders    []Bind
	onError    ErrorHandler[C]
	newContext func(http.ResponseWriter, *http.Request) C
	decorators []Decorator[C, R]
}

// WithBinders appends binders. They run in order and each one only touches
// the fields tagged for it, e.g. binder.JSON() followed by binder.Query().
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(w *wrapper[C, R]) { w.binders = append(w.binders, binders...) }
}

// WithErrorHandler replaces the plain-text default error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(w *wrapper[C, R]) {
		if h != nil {
			w.onError = h
		}
	}
}

// WithContextFactory is required when C is not the default Context.
func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(w *wrapper[C, R]) {
		if f != nil {
			w.newContext = f
		}
	}
}

func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(w *wrapper[C, R]) { w.decorators = append(w.decorators, decorators...) }
}

func plainErrorHandler[C Context](ctx C, err error) {
	status, msg := http.StatusInternalServerError, err.Error()
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status, msg = httpErr.Code, httpErr.Key
	}
	http.Error(ctx.ResponseWriter(), msg, status)
}

func defaultContext[C Context](w http.ResponseWriter, r *http.Request) C {
	c, ok := NewContext(w, r).(C)
	if !ok {
		panic("handler: custom context type requires WithContextFactory")
	}
	return c
}

// Wrap adapts h to net/http: it builds the context, runs the binders, calls
// the decorated handler and renders the response.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	wr := &wrapper[C, R]{
		onError:    plainErrorHandler[C],
		newContext: defaultContext[C],
	}
	for _, opt := range opts {
		opt(wr)
	}
	for i := len(wr.decorators) - 1; i >= 0; i-- {
		h = wr.decorators[i](h)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := wr.newContext(w, r)

		var req R
		if err := wr.bind(r, &req); err != nil {
			wr.onError(ctx, err)
			return
		}

		resp := h(ctx, req)
		if resp == nil {
			wr.onError(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			wr.onError(ctx, err)
		}
	}
}

func (wr *wrapper[C, R]) bind(r *http.Request, req *R) error {
	for _, b := range wr.binders {
		if err := b(r, req); err != nil && !errors.Is(err, binder.ErrBinderNotApplicable) {
			return err
		}
	}
	return nil
}
