package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/coachdesk/coachdesk/pkg/binder"
	"github.com/coachdesk/coachdesk/pkg/logger"
	"github.com/coachdesk/coachdesk/pkg/requestid"
)

// NewErrorHandler returns the JSON ErrorHandler shared by every route. Binder
// failures become 400 or 415, the rest is rendered by JSONError. Each error is
// logged with the request ID at WARN for 4xx and ERROR otherwise.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		status, detail := describe(fromBinder(err))

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, "request error",
			logger.RequestID(requestid.FromContext(ctx)),
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		resp := newJSON(status, JSONResponse{Error: detail}, nil)
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.LogAttrs(ctx, slog.LevelError, "render error response",
				logger.RequestID(requestid.FromContext(ctx)),
				logger.Error(renderErr),
			)
		}
	}
}

func fromBinder(err error) error {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrUnsupportedMediaType):
		return errors.Join(ErrUnsupportedMediaType, err)
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath):
		return errors.Join(ErrBadRequest, err)
	}
	return err
}
