package mongostore

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

type deadLetterModel struct {
	ID          string    `bson:"_id"`
	TaskID      string    `bson:"task_id"`
	Queue       string    `bson:"queue"`
	OriginQueue string    `bson:"origin_queue"`
	TaskName    string    `bson:"task_name"`
	Payload     []byte    `bson:"payload"`
	Error       string    `bson:"error"`
	Attempts    int       `bson:"attempts"`
	FailedAt    time.Time `bson:"failed_at"`
}

func toModel(e *queue.DeadLetter) *deadLetterModel {
	return &deadLetterModel{
		ID:          e.ID.String(),
		TaskID:      e.TaskID.String(),
		Queue:       e.Queue,
		OriginQueue: e.OriginQueue,
		TaskName:    e.TaskName,
		Payload:     e.Payload,
		Error:       e.Error,
		Attempts:    e.Attempts,
		FailedAt:    e.FailedAt.UTC(),
	}
}

func fromModel(m *deadLetterModel) (*queue.DeadLetter, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("mongostore: parse dead letter id %q: %w", m.ID, err)
	}
	taskID, err := uuid.Parse(m.TaskID)
	if err != nil {
		return nil, fmt.Errorf("mongostore: parse task id %q: %w", m.TaskID, err)
	}

	return &queue.DeadLetter{
		ID:          id,
		TaskID:      taskID,
		Queue:       m.Queue,
		OriginQueue: m.OriginQueue,
		TaskName:    m.TaskName,
		Payload:     m.Payload,
		Error:       m.Error,
		Attempts:    m.Attempts,
		FailedAt:    m.FailedAt,
	}, nil
}
