package operator

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

type taskResponse struct {
	TaskID uuid.UUID `json:"task_id"`
}

type queueStats struct {
	Name        string `json:"name"`
	Terminal    bool   `json:"terminal"`
	DeadLetter  string `json:"dead_letter,omitempty"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
	Tasks       int64  `json:"tasks"`
	DeadLetters int    `json:"dead_letters"`
}

type deadLetterView struct {
	ID          uuid.UUID       `json:"id"`
	TaskID      uuid.UUID       `json:"task_id"`
	Queue       string          `json:"queue"`
	OriginQueue string          `json:"origin_queue"`
	TaskName    string          `json:"task_name,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Error       string          `json:"error"`
	Attempts    int             `json:"attempts"`
	FailedAt    time.Time       `json:"failed_at"`
}

func newDeadLetterView(d *queue.DeadLetter) deadLetterView {
	return deadLetterView{
		ID:          d.ID,
		TaskID:      d.TaskID,
		Queue:       d.Queue,
		OriginQueue: d.OriginQueue,
		TaskName:    d.TaskName,
		Payload:     rawPayload(d.Payload),
		Error:       d.Error,
		Attempts:    d.Attempts,
		FailedAt:    d.FailedAt,
	}
}

// rawPayload keeps JSON payloads as-is and quotes anything else as a string.
func rawPayload(p []byte) json.RawMessage {
	if len(p) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(p) {
		return json.RawMessage(p)
	}
	quoted, _ := json.Marshal(string(p))
	return quoted
}
