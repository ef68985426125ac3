package handler_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/handler"
	"github.com/coachdesk/coachdesk/pkg/validator"
)

func render(t *testing.T, resp handler.Response) (*httptest.ResponseRecorder, handler.JSONResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	require.NoError(t, resp.Render(w, httptest.NewRequest(http.MethodGet, "/", nil)))

	var body handler.JSONResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("data", func(t *testing.T) {
		t.Parallel()

		w, body := render(t, handler.JSON(map[string]string{"task_id": "123"}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, map[string]any{"task_id": "123"}, body.Data)
		assert.Nil(t, body.Error)
	})

	t.Run("status and meta", func(t *testing.T) {
		t.Parallel()

		w, body := render(t, handler.JSON([]int{1, 2},
			handler.WithJSONStatus(http.StatusAccepted),
			handler.WithJSONMeta(map[string]any{"count": 2}),
		))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, []any{float64(1), float64(2)}, body.Data)
		assert.Equal(t, map[string]any{"count": float64(2)}, body.Meta)
	})

	t.Run("empty fields are omitted", func(t *testing.T) {
		t.Parallel()

		w, _ := render(t, handler.JSON(nil))
		assert.JSONEq(t, `{}`, w.Body.String())
	})

	t.Run("error value", func(t *testing.T) {
		t.Parallel()

		w, body := render(t, handler.JSON(errors.New("storage offline")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, "internal_error", body.Error.Code)
		assert.Equal(t, "storage offline", body.Error.Message)
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	valErr := validator.Apply(
		validator.MinNum("limit", 0, 1),
		validator.MaxNum("limit", 0, -1),
	)

	tests := []struct {
		name    string
		err     any
		opts    []handler.JSONOption
		status  int
		code    string
		message string
		details map[string][]string
	}{
		{
			name:    "plain error",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    "internal_error",
			message: "boom",
		},
		{
			name:    "bare http error",
			err:     handler.ErrNotFound,
			status:  http.StatusNotFound,
			code:    "not_found",
			message: "Not Found",
		},
		{
			name:    "wrapped http error keeps the cause",
			err:     fmt.Errorf("%w: dead letter 42", handler.ErrNotFound),
			status:  http.StatusNotFound,
			code:    "not_found",
			message: "not_found: dead letter 42",
		},
		{
			name:    "joined http error",
			err:     errors.Join(handler.NewHTTPError(http.StatusConflict, "already_replayed"), errors.New("gone")),
			status:  http.StatusConflict,
			code:    "already_replayed",
			message: "already_replayed\ngone",
		},
		{
			name:    "validation errors",
			err:     valErr,
			status:  http.StatusUnprocessableEntity,
			code:    "validation_error",
			message: valErr.Error(),
			details: map[string][]string{"limit": {"must be at least 1", "must be at most -1"}},
		},
		{
			name:    "error detail with status override",
			err:     &handler.ErrorDetail{Code: "queue_not_found", Message: "unknown queue"},
			opts:    []handler.JSONOption{handler.WithJSONStatus(http.StatusBadRequest)},
			status:  http.StatusBadRequest,
			code:    "queue_not_found",
			message: "unknown queue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, body := render(t, handler.JSONError(tt.err, tt.opts...))
			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Equal(t, tt.details, body.Error.Details)
			assert.Nil(t, body.Data)
		})
	}
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	w, _ := render(t, handler.Empty())
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Type"))

	w, _ = render(t, handler.EmptyWithStatus(http.StatusAccepted))
	assert.Equal(t, http.StatusAccepted, w.Code)
}
