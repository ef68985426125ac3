package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/httpserver"
)

func probe(t *testing.T, h http.Handler) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return rec.Code, body
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		code, body := probe(t, httpserver.HealthCheckHandler(nil, 0))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "alive", body["status"])
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		code, body := probe(t, httpserver.HealthCheckHandler(nil, time.Second,
			httpserver.Check{Name: "redis", Fn: ok},
			httpserver.Check{Name: "mongo", Fn: ok},
		))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, map[string]any{"redis": "ok", "mongo": "ok"}, body["checks"])
	})

	t.Run("one failing dependency", func(t *testing.T) {
		t.Parallel()
		code, body := probe(t, httpserver.HealthCheckHandler(nil, time.Second,
			httpserver.Check{Name: "redis", Fn: ok},
			httpserver.Check{Name: "mongo", Fn: func(context.Context) error { return errors.New("no primary") }},
		))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not_ready", body["status"])
		assert.Equal(t, map[string]any{"redis": "ok", "mongo": "no primary"}, body["checks"])
	})

	t.Run("checks are bounded by the timeout", func(t *testing.T) {
		t.Parallel()
		slow := func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}
		start := time.Now()
		code, _ := probe(t, httpserver.HealthCheckHandler(nil, 20*time.Millisecond,
			httpserver.Check{Name: "redis", Fn: slow},
		))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Less(t, time.Since(start), time.Second)
	})
}
