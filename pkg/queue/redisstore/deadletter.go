package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

// PushDeadLetter stores the entry as a Hash indexed by failure time.
func (s *Store) PushDeadLetter(ctx context.Context, entry *queue.DeadLetter) error {
	if entry == nil {
		return errors.New("dead letter cannot be nil")
	}

	id := entry.ID.String()
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.keys.deadLetter(id), deadLetterToMap(entry))
	pipe.ZAdd(ctx, s.keys.deadLetterIDs(), redis.Z{Score: score(entry.FailedAt), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisstore: push dead letter: %w", err)
	}
	return nil
}

// ListDeadLetters returns entries newest failure first, optionally filtered by origin queue.
func (s *Store) ListDeadLetters(ctx context.Context, originQueue string, limit int) ([]*queue.DeadLetter, error) {
	ids, err := s.client.ZRevRange(ctx, s.keys.deadLetterIDs(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: list dead letters: %w", err)
	}

	entries := make([]*queue.DeadLetter, 0, len(ids))
	for _, id := range ids {
		if limit > 0 && len(entries) >= limit {
			break
		}

		vals, err := s.client.HGetAll(ctx, s.keys.deadLetter(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("redisstore: get dead letter %s: %w", id, err)
		}
		if len(vals) == 0 {
			continue
		}

		e, err := mapToDeadLetter(vals)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed dead letter",
				slog.String("dead_letter_id", id),
				slog.String("error", err.Error()))
			continue
		}
		if originQueue != "" && e.OriginQueue != originQueue {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// GetDeadLetter retrieves a dead letter by ID.
func (s *Store) GetDeadLetter(ctx context.Context, id uuid.UUID) (*queue.DeadLetter, error) {
	vals, err := s.client.HGetAll(ctx, s.keys.deadLetter(id.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: get dead letter: %w", err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%w: %s", queue.ErrDeadLetterNotFound, id)
	}
	return mapToDeadLetter(vals)
}

// DeleteDeadLetter removes a dead letter.
func (s *Store) DeleteDeadLetter(ctx context.Context, id uuid.UUID) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.keys.deadLetter(id.String()))
	pipe.ZRem(ctx, s.keys.deadLetterIDs(), id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redisstore: delete dead letter: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: %s", queue.ErrDeadLetterNotFound, id)
	}
	return nil
}

// ── helpers ──

func deadLetterToMap(e *queue.DeadLetter) map[string]any {
	return map[string]any{
		"id":           e.ID.String(),
		"task_id":      e.TaskID.String(),
		"queue":        e.Queue,
		"origin_queue": e.OriginQueue,
		"task_name":    e.TaskName,
		"payload":      string(e.Payload),
		"error":        e.Error,
		"attempts":     strconv.Itoa(e.Attempts),
		"failed_at":    formatTime(e.FailedAt),
	}
}

func mapToDeadLetter(m map[string]string) (*queue.DeadLetter, error) {
	id, err := uuid.Parse(m["id"])
	if err != nil {
		return nil, fmt.Errorf("redisstore: parse dead letter id: %w", err)
	}
	taskID, _ := uuid.Parse(m["task_id"])                       //nolint:errcheck // written by this package
	attempts, _ := strconv.Atoi(m["attempts"])                  //nolint:errcheck // written by this package
	failedAt, _ := time.Parse(time.RFC3339Nano, m["failed_at"]) //nolint:errcheck // written by this package

	return &queue.DeadLetter{
		ID:          id,
		TaskID:      taskID,
		Queue:       m["queue"],
		OriginQueue: m["origin_queue"],
		TaskName:    m["task_name"],
		Payload:     []byte(m["payload"]),
		Error:       m["error"],
		Attempts:    attempts,
		FailedAt:    failedAt,
	}, nil
}
