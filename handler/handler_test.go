package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/handler"
	"github.com/coachdesk/coachdesk/pkg/binder"
)

type enqueueRequest struct {
	Template string `json:"template" query:"-"`
	Queue    string `json:"-" query:"queue"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	echo := func(ctx handler.Context, req enqueueRequest) handler.Response {
		return handler.JSON(req, handler.WithJSONStatus(http.StatusAccepted))
	}

	t.Run("binders run in order", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo, handler.WithBinders[handler.Context, enqueueRequest](binder.JSON(), binder.Query()))

		req := httptest.NewRequest(http.MethodPost, "/notifications?queue=priority", strings.NewReader(`{"template":"welcome"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.JSONEq(t, `{"data":{"template":"welcome"}}`, w.Body.String())
	})

	t.Run("not applicable binders are skipped", func(t *testing.T) {
		t.Parallel()

		var got enqueueRequest
		h := handler.Wrap(func(ctx handler.Context, req enqueueRequest) handler.Response {
			got = req
			return handler.Empty()
		}, handler.WithBinders[handler.Context, enqueueRequest](binder.JSON(), binder.Query()))

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/notifications?queue=priority", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "priority", got.Queue)
	})

	t.Run("bind errors reach the error handler", func(t *testing.T) {
		t.Parallel()

		var handled error
		called := false
		h := handler.Wrap(func(ctx handler.Context, req enqueueRequest) handler.Response {
			called = true
			return handler.Empty()
		},
			handler.WithBinders[handler.Context, enqueueRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, enqueueRequest](func(ctx handler.Context, err error) {
				handled = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		req := httptest.NewRequest(http.MethodPost, "/notifications", strings.NewReader(`{"template":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.ErrorIs(t, handled, binder.ErrFailedToParseJSON)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response { return nil })
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), handler.ErrNilResponse.Error())
	})

	t.Run("default error handler uses http error status", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			return failingResponse{err: errors.Join(handler.ErrServiceUnavailable, errors.New("redis down"))}
		})
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "service_unavailable\n", w.Body.String())
	})

	t.Run("decorators wrap outermost first", func(t *testing.T) {
		t.Parallel()

		var order []string
		trace := func(name string) handler.Decorator[handler.Context, struct{}] {
			return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
				return func(ctx handler.Context, req struct{}) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}

		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			order = append(order, "handler")
			return handler.Empty()
		}, handler.WithDecorators(trace("outer"), trace("inner")))

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	})

	t.Run("custom context factory", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(ctx operatorContext, req struct{}) handler.Response {
			return handler.JSON(map[string]string{"operator": ctx.operator})
		}, handler.WithContextFactory[operatorContext, struct{}](func(w http.ResponseWriter, r *http.Request) operatorContext {
			return operatorContext{Context: handler.NewContext(w, r), operator: r.Header.Get("X-Operator")}
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Operator", "ops@coachdesk.io")
		w := httptest.NewRecorder()
		h(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"operator":"ops@coachdesk.io"}}`, w.Body.String())
	})
}

type operatorContext struct {
	handler.Context
	operator string
}

type failingResponse struct{ err error }

func (f failingResponse) Render(http.ResponseWriter, *http.Request) error { return f.err }
