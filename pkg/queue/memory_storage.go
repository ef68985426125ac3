package queue

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps tasks and dead letters in process memory. It implements
// every repository interface of this package and backs tests and local runs.
//
// Expired locks are released lazily on the next claim, so a task abandoned by
// a crashed worker becomes claimable again with its attempt still counted.
type MemoryStorage struct {
	mu          sync.RWMutex
	tasks       map[uuid.UUID]*Task
	deadLetters map[uuid.UUID]*DeadLetter
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks:       make(map[uuid.UUID]*Task),
		deadLetters: make(map[uuid.UUID]*DeadLetter),
	}
}

// Close is a no-op kept so MemoryStorage can stand in for the Redis store.
func (ms *MemoryStorage) Close() error { return nil }

func (ms *MemoryStorage) CreateTask(_ context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, dup := ms.tasks[task.ID]; dup {
		return fmt.Errorf("task with ID %s already exists", task.ID)
	}
	stored := *task
	ms.tasks[task.ID] = &stored
	return nil
}

// ClaimTask locks the ready task with the earliest ScheduledAt, CreatedAt
// breaking ties. Tasks never retried therefore come out in FIFO order.
func (ms *MemoryStorage) ClaimTask(_ context.Context, workerID uuid.UUID, queues []string, lock time.Duration) (*Task, error) {
	now := time.Now()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	var next *Task
	for _, t := range ms.tasks {
		if !slices.Contains(queues, t.Queue) || !claimable(t, now) {
			continue
		}
		if next == nil || runsBefore(t, next) {
			next = t
		}
	}
	if next == nil {
		return nil, ErrNoTaskToClaim
	}

	until := now.Add(lock)
	owner := workerID
	next.Status = TaskStatusProcessing
	next.Attempt++
	next.LockedUntil = &until
	next.LockedBy = &owner

	claimed := *next
	return &claimed, nil
}

func claimable(t *Task, now time.Time) bool {
	switch t.Status {
	case TaskStatusPending:
		return !t.ScheduledAt.After(now)
	case TaskStatusProcessing:
		return t.LockedUntil != nil && t.LockedUntil.Before(now)
	}
	return false
}

func runsBefore(a, b *Task) bool {
	return cmp.Or(a.ScheduledAt.Compare(b.ScheduledAt), a.CreatedAt.Compare(b.CreatedAt)) < 0
}

func (ms *MemoryStorage) CompleteTask(_ context.Context, workerID, taskID uuid.UUID) error {
	return ms.withProcessing(workerID, taskID, func(t *Task) { delete(ms.tasks, t.ID) })
}

// RetryTask releases the lock and makes the task claimable again at runAt.
func (ms *MemoryStorage) RetryTask(_ context.Context, workerID, taskID uuid.UUID, errorMsg string, runAt time.Time) error {
	return ms.withProcessing(workerID, taskID, func(t *Task) {
		t.Status = TaskStatusPending
		t.Error = &errorMsg
		t.ScheduledAt = runAt
		t.LockedUntil, t.LockedBy = nil, nil
	})
}

func (ms *MemoryStorage) ExtendLock(_ context.Context, workerID, taskID uuid.UUID, d time.Duration) error {
	return ms.withProcessing(workerID, taskID, func(t *Task) {
		until := time.Now().Add(d)
		t.LockedUntil = &until
	})
}

// RemoveTask deletes a task in any state.
func (ms *MemoryStorage) RemoveTask(_ context.Context, taskID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.tasks[taskID]; !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	delete(ms.tasks, taskID)
	return nil
}

// withProcessing runs fn on a task that workerID still holds.
func (ms *MemoryStorage) withProcessing(workerID, taskID uuid.UUID, fn func(*Task)) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	t, ok := ms.tasks[taskID]
	switch {
	case !ok:
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	case t.Status != TaskStatusProcessing:
		return fmt.Errorf("%w: %s", ErrTaskNotProcessing, taskID)
	case t.LockedBy == nil || *t.LockedBy != workerID:
		return fmt.Errorf("%w: %s", ErrTaskLockLost, taskID)
	}
	fn(t)
	return nil
}

// GetTask returns a copy of a live task.
func (ms *MemoryStorage) GetTask(_ context.Context, taskID uuid.UUID) (*Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	t, ok := ms.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	c := *t
	return &c, nil
}

// CountTasks counts live tasks of queue, pending and processing alike.
func (ms *MemoryStorage) CountTasks(_ context.Context, queue string) (int64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var n int64
	for _, t := range ms.tasks {
		if t.Queue == queue {
			n++
		}
	}
	return n, nil
}

func (ms *MemoryStorage) PushDeadLetter(_ context.Context, entry *DeadLetter) error {
	if entry == nil {
		return errors.New("dead letter cannot be nil")
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	stored := *entry
	ms.deadLetters[entry.ID] = &stored
	return nil
}

// ListDeadLetters returns entries from queue (all when empty), newest
// failure first. A limit below 1 returns everything.
func (ms *MemoryStorage) ListDeadLetters(_ context.Context, queue string, limit int) ([]*DeadLetter, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var out []*DeadLetter
	for _, e := range slices.SortedFunc(maps.Values(ms.deadLetters), func(a, b *DeadLetter) int {
		return b.FailedAt.Compare(a.FailedAt)
	}) {
		if queue != "" && e.OriginQueue != queue {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		c := *e
		out = append(out, &c)
	}
	if out == nil {
		out = []*DeadLetter{}
	}
	return out, nil
}

func (ms *MemoryStorage) GetDeadLetter(_ context.Context, id uuid.UUID) (*DeadLetter, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	e, ok := ms.deadLetters[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeadLetterNotFound, id)
	}
	c := *e
	return &c, nil
}

func (ms *MemoryStorage) DeleteDeadLetter(_ context.Context, id uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.deadLetters[id]; !ok {
		return fmt.Errorf("%w: %s", ErrDeadLetterNotFound, id)
	}
	delete(ms.deadLetters, id)
	return nil
}
