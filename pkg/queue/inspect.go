package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// StatsRepository reports the number of live (pending or processing) tasks in a queue.
type StatsRepository interface {
	CountTasks(ctx context.Context, queue string) (int64, error)
}

// DeadLetters exposes the dead letter queue to operators: list, inspect and replay.
type DeadLetters struct {
	repo     DeadLetterRepository
	enqueuer *Enqueuer
}

// NewDeadLetters creates the dead letter service.
// Replays are enqueued through enqueuer, the same path producers use.
func NewDeadLetters(repo DeadLetterRepository, enqueuer *Enqueuer) (*DeadLetters, error) {
	if repo == nil {
		return nil, ErrDeadLetterRepositoryNil
	}
	if enqueuer == nil {
		return nil, fmt.Errorf("%w: enqueuer is required for replay", ErrRepositoryNil)
	}
	return &DeadLetters{repo: repo, enqueuer: enqueuer}, nil
}

// List returns up to limit dead letters that originated from queue.
// An empty queue name lists all of them.
func (d *DeadLetters) List(ctx context.Context, queue string, limit int) ([]*DeadLetter, error) {
	return d.repo.ListDeadLetters(ctx, queue, limit)
}

// Get returns a single dead letter.
func (d *DeadLetters) Get(ctx context.Context, id uuid.UUID) (*DeadLetter, error) {
	return d.repo.GetDeadLetter(ctx, id)
}

// Replay re-enqueues the dead letter's original payload onto its origin queue
// as a new task with a fresh attempt budget, then drops the entry.
func (d *DeadLetters) Replay(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	entry, err := d.repo.GetDeadLetter(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	taskID, err := d.enqueuer.Enqueue(ctx, json.RawMessage(entry.Payload),
		WithQueue(entry.OriginQueue),
		WithTaskName(entry.TaskName),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("replay dead letter %s: %w", id, err)
	}

	// The task is already enqueued; a failed delete leaves a stale entry, not a lost job
	if err := d.repo.DeleteDeadLetter(ctx, id); err != nil {
		return taskID, fmt.Errorf("delete replayed dead letter %s: %w", id, err)
	}

	return taskID, nil
}

// Discard drops a dead letter without replaying it.
func (d *DeadLetters) Discard(ctx context.Context, id uuid.UUID) error {
	return d.repo.DeleteDeadLetter(ctx, id)
}
