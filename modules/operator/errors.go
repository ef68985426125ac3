package operator

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/coachdesk/coachdesk/handler"
	"github.com/coachdesk/coachdesk/pkg/queue"
	"github.com/coachdesk/coachdesk/svc/notification"
)

var (
	// ErrNilDependency is returned by Router when a required service is missing.
	ErrNilDependency = errors.New("operator: nil dependency")

	errInvalidNotification = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_notification")
	errUnknownQueue        = handler.NewHTTPError(http.StatusBadRequest, "unknown_queue")
	errTerminalQueue       = handler.NewHTTPError(http.StatusBadRequest, "terminal_queue")
	errInvalidOverride     = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_override")
	errDeadLetterNotFound  = handler.NewHTTPError(http.StatusNotFound, "dead_letter_not_found")
)

// toHTTPError attaches an HTTP status to domain errors. Unknown errors are
// returned unchanged and render as 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, notification.ErrInvalidEnvelope),
		errors.Is(err, notification.ErrInvalidPayload),
		errors.Is(err, notification.ErrHandlerNotFound):
		return fmt.Errorf("%w: %w", errInvalidNotification, err)
	case errors.Is(err, queue.ErrQueueNotFound):
		return fmt.Errorf("%w: %w", errUnknownQueue, err)
	case errors.Is(err, queue.ErrInvalidMaxAttempts):
		return fmt.Errorf("%w: %w", errInvalidOverride, err)
	case errors.Is(err, queue.ErrQueueTerminal):
		return fmt.Errorf("%w: %w", errTerminalQueue, err)
	case errors.Is(err, queue.ErrDeadLetterNotFound):
		return fmt.Errorf("%w: %w", errDeadLetterNotFound, err)
	}
	return err
}

func isClientError(err error) bool {
	var httpErr handler.HTTPError
	return errors.As(err, &httpErr) && httpErr.Code < http.StatusInternalServerError
}
