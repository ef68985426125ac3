package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/handler"
	"github.com/coachdesk/coachdesk/pkg/binder"
	"github.com/coachdesk/coachdesk/pkg/requestid"
	"github.com/coachdesk/coachdesk/pkg/validator"
)

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
		level  string
	}{
		{"generic error", errors.New("storage offline"), http.StatusInternalServerError, "internal_error", "ERROR"},
		{"http error", handler.ErrNotFound, http.StatusNotFound, "not_found", "WARN"},
		{"validation error", fmt.Errorf("list: %w", validator.Apply(validator.RangeNum("limit", -1, 0, 500))), http.StatusUnprocessableEntity, "validation_error", "WARN"},
		{"malformed json", errors.Join(binder.ErrFailedToParseJSON, errors.New("eof")), http.StatusBadRequest, "bad_request", "WARN"},
		{"bad query", binder.ErrFailedToParseQuery, http.StatusBadRequest, "bad_request", "WARN"},
		{"bad path", binder.ErrFailedToParsePath, http.StatusBadRequest, "bad_request", "WARN"},
		{"wrong media type", binder.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "unsupported_media_type", "WARN"},
		{"missing media type", binder.ErrMissingContentType, http.StatusUnsupportedMediaType, "unsupported_media_type", "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			eh := handler.NewErrorHandler(slog.New(slog.NewJSONHandler(&logs, nil)))

			req := httptest.NewRequest(http.MethodPost, "/dead-letters/x/replay", nil)
			req = req.WithContext(requestid.WithContext(req.Context(), "req-1"))
			w := httptest.NewRecorder()
			eh(handler.NewContext(w, req), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body handler.JSONResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, float64(tt.status), entry["status_code"])
			assert.Equal(t, "/dead-letters/x/replay", entry["path"])
		})
	}
}

func TestNewErrorHandler_NilLogger(t *testing.T) {
	t.Parallel()

	eh := handler.NewErrorHandler(nil)
	w := httptest.NewRecorder()
	eh(handler.NewContext(w, httptest.NewRequest(http.MethodGet, "/", nil)), handler.ErrConflict)
	assert.Equal(t, http.StatusConflict, w.Code)
}
