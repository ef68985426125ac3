package queue

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// TaskInfo describes the task a handler is currently running.
type TaskInfo struct {
	ID          uuid.UUID
	Queue       string
	TaskName    string
	Attempt     int
	MaxAttempts int
}

type taskInfoKey struct{}

func withTaskInfo(ctx context.Context, task *Task) context.Context {
	return context.WithValue(ctx, taskInfoKey{}, TaskInfo{
		ID:          task.ID,
		Queue:       task.Queue,
		TaskName:    task.TaskName,
		Attempt:     task.Attempt,
		MaxAttempts: task.MaxAttempts,
	})
}

// TaskInfoFromContext returns the running task's metadata, if any.
func TaskInfoFromContext(ctx context.Context) (TaskInfo, bool) {
	if ctx == nil {
		return TaskInfo{}, false
	}
	info, ok := ctx.Value(taskInfoKey{}).(TaskInfo)
	return info, ok
}

// LoggerExtractor adds the running task to log records as a "task" group.
// Use with logger.WithContextExtractors.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		info, ok := TaskInfoFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.Group("task",
			slog.String("id", info.ID.String()),
			slog.String("queue", info.Queue),
			slog.Int("attempt", info.Attempt),
		), true
	}
}
