package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

// CreateTask stores the task as a Hash and adds it to the queue's ready set.
func (s *Store) CreateTask(ctx context.Context, task *queue.Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	id := task.ID.String()
	key := s.keys.task(id)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redisstore: create task check exists: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("task with ID %s already exists", id)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, taskToMap(task))
	pipe.ZAdd(ctx, s.keys.queue(task.Queue), redis.Z{Score: score(task.ScheduledAt), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisstore: create task: %w", err)
	}
	return nil
}

// ClaimTask claims the earliest ready task from the first queue that has one.
func (s *Store) ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*queue.Task, error) {
	now := time.Now()
	lockUntil := now.Add(lockDuration)

	for _, name := range queues {
		id, err := claimScript.Run(ctx, s.client,
			[]string{s.keys.queue(name), s.keys.processing(name)},
			strconv.FormatInt(now.UnixMicro(), 10),
			strconv.FormatInt(lockUntil.UnixMicro(), 10),
			workerID.String(),
			s.keys.taskPrefix(),
			lockUntil.UTC().Format(time.RFC3339Nano),
		).Text()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redisstore: claim task from %q: %w", name, err)
		}
		return s.getTask(ctx, id)
	}

	return nil, queue.ErrNoTaskToClaim
}

// CompleteTask deletes a processed task held by workerID.
func (s *Store) CompleteTask(ctx context.Context, workerID, taskID uuid.UUID) error {
	if err := s.runOwned(ctx, completeScript, workerID, taskID); err != nil {
		return fmt.Errorf("redisstore: complete task: %w", err)
	}
	return nil
}

// RetryTask records the error and puts the task back into the ready set at runAt.
func (s *Store) RetryTask(ctx context.Context, workerID, taskID uuid.UUID, errorMsg string, runAt time.Time) error {
	err := s.runOwned(ctx, retryScript, workerID, taskID,
		errorMsg,
		strconv.FormatInt(runAt.UnixMicro(), 10),
		formatTime(runAt),
	)
	if err != nil {
		return fmt.Errorf("redisstore: retry task: %w", err)
	}
	return nil
}

// RemoveTask deletes a task regardless of its state.
func (s *Store) RemoveTask(ctx context.Context, taskID uuid.UUID) error {
	id := taskID.String()
	q, err := s.client.HGet(ctx, s.keys.task(id), "queue").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", queue.ErrTaskNotFound, id)
		}
		return fmt.Errorf("redisstore: remove task get queue: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.task(id))
	pipe.ZRem(ctx, s.keys.queue(q), id)
	pipe.ZRem(ctx, s.keys.processing(q), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisstore: remove task: %w", err)
	}
	return nil
}

// ExtendLock pushes back the lock expiry of a task held by workerID.
func (s *Store) ExtendLock(ctx context.Context, workerID, taskID uuid.UUID, duration time.Duration) error {
	lockUntil := time.Now().Add(duration)
	err := s.runOwned(ctx, extendScript, workerID, taskID,
		strconv.FormatInt(lockUntil.UnixMicro(), 10),
		formatTime(lockUntil),
	)
	if err != nil {
		return fmt.Errorf("redisstore: extend lock: %w", err)
	}
	return nil
}

// GetTask returns a live task.
func (s *Store) GetTask(ctx context.Context, taskID uuid.UUID) (*queue.Task, error) {
	return s.getTask(ctx, taskID.String())
}

// CountTasks returns the number of pending and processing tasks in a queue.
func (s *Store) CountTasks(ctx context.Context, name string) (int64, error) {
	pipe := s.client.Pipeline()
	ready := pipe.ZCard(ctx, s.keys.queue(name))
	processing := pipe.ZCard(ctx, s.keys.processing(name))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redisstore: count tasks: %w", err)
	}
	return ready.Val() + processing.Val(), nil
}

// runOwned runs one of the lock-holder scripts and maps its error replies to
// queue.ErrTaskNotFound, queue.ErrTaskNotProcessing and queue.ErrTaskLockLost.
func (s *Store) runOwned(ctx context.Context, script *redis.Script, workerID, taskID uuid.UUID, extra ...any) error {
	id := taskID.String()
	args := append([]any{
		workerID.String(),
		s.keys.processingPrefix(),
		id,
		s.keys.queuePrefix(),
	}, extra...)

	err := script.Run(ctx, s.client, []string{s.keys.task(id)}, args...).Err()
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), "TASK_NOT_FOUND"):
		return fmt.Errorf("%w: %s", queue.ErrTaskNotFound, id)
	case strings.Contains(err.Error(), "TASK_NOT_PROCESSING"):
		return fmt.Errorf("%w: %s", queue.ErrTaskNotProcessing, id)
	case strings.Contains(err.Error(), "TASK_LOCK_LOST"):
		return fmt.Errorf("%w: %s", queue.ErrTaskLockLost, id)
	}
	return err
}

func (s *Store) getTask(ctx context.Context, id string) (*queue.Task, error) {
	vals, err := s.client.HGetAll(ctx, s.keys.task(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: get task: %w", err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: %s", queue.ErrTaskNotFound, id)
	}
	return mapToTask(vals)
}

// ── helpers ──

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func taskToMap(t *queue.Task) map[string]any {
	m := map[string]any{
		"id":           t.ID.String(),
		"queue":        t.Queue,
		"task_name":    t.TaskName,
		"payload":      string(t.Payload),
		"status":       string(t.Status),
		"attempt":      strconv.Itoa(t.Attempt),
		"max_attempts": strconv.Itoa(t.MaxAttempts),
		"scheduled_at": formatTime(t.ScheduledAt),
		"created_at":   formatTime(t.CreatedAt),
	}
	if t.Error != nil {
		m["error"] = *t.Error
	}
	if t.LockedBy != nil {
		m["locked_by"] = t.LockedBy.String()
	}
	if t.LockedUntil != nil {
		m["locked_until"] = formatTime(*t.LockedUntil)
	}
	return m
}

func mapToTask(m map[string]string) (*queue.Task, error) {
	id, err := uuid.Parse(m["id"])
	if err != nil {
		return nil, fmt.Errorf("redisstore: parse task id: %w", err)
	}
	attempt, _ := strconv.Atoi(m["attempt"])                          //nolint:errcheck // written by this package
	maxAttempts, _ := strconv.Atoi(m["max_attempts"])                 //nolint:errcheck // written by this package
	scheduledAt, _ := time.Parse(time.RFC3339Nano, m["scheduled_at"]) //nolint:errcheck // written by this package
	createdAt, _ := time.Parse(time.RFC3339Nano, m["created_at"])     //nolint:errcheck // written by this package

	t := &queue.Task{
		ID:          id,
		Queue:       m["queue"],
		TaskName:    m["task_name"],
		Payload:     []byte(m["payload"]),
		Status:      queue.TaskStatus(m["status"]),
		Attempt:     attempt,
		MaxAttempts: maxAttempts,
		ScheduledAt: scheduledAt,
		CreatedAt:   createdAt,
	}

	if v, ok := m["error"]; ok {
		t.Error = &v
	}
	if v := m["locked_by"]; v != "" {
		if workerID, err := uuid.Parse(v); err == nil {
			t.LockedBy = &workerID
		}
	}
	if v := m["locked_until"]; v != "" {
		if lockedUntil, err := time.Parse(time.RFC3339Nano, v); err == nil {
			t.LockedUntil = &lockedUntil
		}
	}
	return t, nil
}
