package binder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/binder"
)

type deadLetterPath struct {
	ID       uuid.UUID `path:"id"`
	Queue    string    `path:"queue"`
	Internal string    `path:"-"`
	Limit    int       `query:"limit"`
}

func withRouteParams(params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	req := httptest.NewRequest(http.MethodGet, "/dead-letters", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPath(t *testing.T) {
	t.Parallel()

	t.Run("chi params", func(t *testing.T) {
		t.Parallel()

		id := uuid.New()
		req := withRouteParams(map[string]string{"id": id.String(), "queue": "default", "-": "ignored"})

		got := deadLetterPath{Internal: "keep"}
		require.NoError(t, binder.Path(chi.URLParam)(req, &got))
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "default", got.Queue)
		assert.Equal(t, "keep", got.Internal)
		assert.Zero(t, got.Limit)
	})

	t.Run("missing params keep zero values", func(t *testing.T) {
		t.Parallel()

		var got deadLetterPath
		require.NoError(t, binder.Path(chi.URLParam)(withRouteParams(nil), &got))
		assert.Equal(t, uuid.Nil, got.ID)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		t.Parallel()

		var got deadLetterPath
		err := binder.Path(chi.URLParam)(withRouteParams(map[string]string{"id": "nope"}), &got)
		assert.ErrorIs(t, err, binder.ErrFailedToParsePath)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()

		var got deadLetterPath
		err := binder.Path(nil)(withRouteParams(nil), &got)
		assert.ErrorIs(t, err, binder.ErrBinderNotApplicable)
	})

	t.Run("invalid targets", func(t *testing.T) {
		t.Parallel()

		bind := binder.Path(chi.URLParam)
		var notStruct string
		assert.ErrorIs(t, bind(withRouteParams(nil), &notStruct), binder.ErrFailedToParsePath)
		assert.ErrorIs(t, bind(withRouteParams(nil), deadLetterPath{}), binder.ErrFailedToParsePath)
		assert.ErrorIs(t, bind(withRouteParams(nil), (*deadLetterPath)(nil)), binder.ErrFailedToParsePath)
	})
}
