package operator

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/requestid"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := requestid.Middleware(accessLog(jsonLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/queues", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "/queues", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status_code"])
	assert.EqualValues(t, len("short and stout"), entry["bytes"])
	assert.Equal(t, rec.Header().Get(requestid.Header), entry["request_id"])
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := jsonLogger(&buf)
	h := accessLog(log)(recoverer(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"internal_server_error","message":"Internal Server Error"}}`, rec.Body.String())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var panicked, completed map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &panicked))
	require.NoError(t, json.Unmarshal(lines[1], &completed))
	assert.Equal(t, "handler panicked", panicked["msg"])
	assert.Equal(t, "boom", panicked["panic"])
	assert.NotEmpty(t, panicked["stack"])
	assert.Equal(t, "ERROR", completed["level"])
}
