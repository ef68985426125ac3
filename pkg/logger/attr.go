package logger

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Attribute keys shared by the worker, the dispatcher and the operator API.
const (
	KeyError        = "error"
	KeyTaskID       = "task_id"
	KeyTaskName     = "task_name"
	KeyQueue        = "queue"
	KeyAttempt      = "attempt"
	KeyTemplate     = "template"
	KeyChannel      = "channel"
	KeyDeadLetterID = "dead_letter_id"
	KeyRequestID    = "request_id"
	KeyDuration     = "duration"
	KeyComponent    = "component"
)

// Error is an empty Attr for a nil err, which slog handlers drop.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

func TaskID(id uuid.UUID) slog.Attr       { return optionalID(KeyTaskID, id) }
func DeadLetterID(id uuid.UUID) slog.Attr { return optionalID(KeyDeadLetterID, id) }

func TaskName(name string) slog.Attr { return slog.String(KeyTaskName, name) }
func Queue(name string) slog.Attr    { return slog.String(KeyQueue, name) }

// Attempt is 1-based.
func Attempt(n int) slog.Attr { return slog.Int(KeyAttempt, n) }

func Template(name string) slog.Attr { return slog.String(KeyTemplate, name) }

// Channel is the delivery channel of a notification, e.g. "email".
func Channel(name string) slog.Attr { return slog.String(KeyChannel, name) }

// RequestID is dropped when id is empty.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String(KeyRequestID, id)
}

func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }

func optionalID(key string, id uuid.UUID) slog.Attr {
	if id == uuid.Nil {
		return slog.Attr{}
	}
	return slog.String(key, id.String())
}
