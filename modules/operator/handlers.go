package operator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/coachdesk/coachdesk/handler"
	"github.com/coachdesk/coachdesk/pkg/async"
	"github.com/coachdesk/coachdesk/pkg/logger"
	"github.com/coachdesk/coachdesk/pkg/queue"
	"github.com/coachdesk/coachdesk/pkg/validator"
	"github.com/coachdesk/coachdesk/svc/notification"
)

const maxListLimit = 500

type service struct {
	producer    *notification.Producer
	deadLetters *queue.DeadLetters
	stats       queue.StatsRepository
	registry    *queue.Registry
	pageSize    int
	log         *slog.Logger
}

// enqueueRequest carries the envelope body plus per-task overrides from the query string.
type enqueueRequest struct {
	body        json.RawMessage
	Queue       string        `query:"queue"`
	Delay       time.Duration `query:"delay"`
	MaxAttempts int           `query:"max_attempts"`
}

// UnmarshalJSON keeps the raw body so envelope errors can be reported as 422.
func (r *enqueueRequest) UnmarshalJSON(data []byte) error {
	r.body = append(json.RawMessage(nil), data...)
	return nil
}

func (s *service) enqueue(ctx handler.Context, req enqueueRequest) handler.Response {
	if err := validator.Apply(
		validator.NonNegative("delay", req.Delay),
		validator.RangeNum("max_attempts", req.MaxAttempts, 0, queue.MaxAttemptsCeiling),
	); err != nil {
		return handler.JSONError(err)
	}

	if len(req.body) == 0 {
		return handler.JSONError(fmt.Errorf("%w: request body is required", handler.ErrBadRequest))
	}

	var env notification.Envelope
	if err := json.Unmarshal(req.body, &env); err != nil {
		return s.fail(ctx, err)
	}

	var opts []queue.EnqueueOption
	if req.Queue != "" {
		opts = append(opts, queue.WithQueue(req.Queue))
	}
	if req.Delay > 0 {
		opts = append(opts, queue.WithDelay(req.Delay))
	}
	if req.MaxAttempts > 0 {
		opts = append(opts, queue.WithMaxAttempts(req.MaxAttempts))
	}

	id, err := s.producer.Enqueue(ctx, env, opts...)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.log.InfoContext(ctx, "notification enqueued",
		logger.TaskID(id),
		logger.Template(string(env.Template)),
		logger.Channel(string(env.Type)),
	)
	return handler.JSON(taskResponse{TaskID: id}, handler.WithJSONStatus(http.StatusAccepted))
}

func (s *service) queues(ctx handler.Context, _ struct{}) handler.Response {
	stats, err := async.Map(ctx, s.registry.Names(), s.queueStats)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(stats)
}

func (s *service) queueStats(ctx context.Context, name string) (queueStats, error) {
	q, err := s.registry.Get(name)
	if err != nil {
		return queueStats{}, err
	}

	st := queueStats{Name: name, Terminal: q.Terminal()}
	if q.Terminal() {
		entries, err := s.deadLetters.List(ctx, "", 0)
		if err != nil {
			return queueStats{}, err
		}
		st.DeadLetters = len(entries)
		return st, nil
	}

	st.DeadLetter = q.DeadLetter()
	st.MaxAttempts = q.Policy().MaxAttempts
	if st.Tasks, err = s.stats.CountTasks(ctx, name); err != nil {
		return queueStats{}, err
	}
	entries, err := s.deadLetters.List(ctx, name, 0)
	if err != nil {
		return queueStats{}, err
	}
	st.DeadLetters = len(entries)
	return st, nil
}

type listRequest struct {
	Queue string `query:"queue"`
	Limit int    `query:"limit"`
}

func (s *service) listDeadLetters(ctx handler.Context, req listRequest) handler.Response {
	if err := validator.Apply(validator.RangeNum("limit", req.Limit, 0, maxListLimit)); err != nil {
		return handler.JSONError(err)
	}
	if req.Limit == 0 {
		req.Limit = s.pageSize
	}
	if req.Queue != "" {
		if _, err := s.registry.Get(req.Queue); err != nil {
			return s.fail(ctx, err)
		}
	}

	entries, err := s.deadLetters.List(ctx, req.Queue, req.Limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	views := make([]deadLetterView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newDeadLetterView(e))
	}
	return handler.JSON(views, handler.WithJSONMeta(map[string]any{
		"count": len(views),
		"limit": req.Limit,
	}))
}

type deadLetterRequest struct {
	ID uuid.UUID `path:"id"`
}

func (s *service) getDeadLetter(ctx handler.Context, req deadLetterRequest) handler.Response {
	entry, err := s.deadLetters.Get(ctx, req.ID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(newDeadLetterView(entry))
}

func (s *service) replayDeadLetter(ctx handler.Context, req deadLetterRequest) handler.Response {
	taskID, err := s.deadLetters.Replay(ctx, req.ID)
	if err != nil && taskID == uuid.Nil {
		return s.fail(ctx, err)
	}
	if err != nil {
		s.log.WarnContext(ctx, "replayed dead letter was not removed",
			logger.DeadLetterID(req.ID),
			logger.TaskID(taskID),
			logger.Error(err),
		)
	} else {
		s.log.InfoContext(ctx, "dead letter replayed",
			logger.DeadLetterID(req.ID),
			logger.TaskID(taskID),
		)
	}
	return handler.JSON(taskResponse{TaskID: taskID}, handler.WithJSONStatus(http.StatusAccepted))
}

func (s *service) discardDeadLetter(ctx handler.Context, req deadLetterRequest) handler.Response {
	if err := s.deadLetters.Discard(ctx, req.ID); err != nil {
		return s.fail(ctx, err)
	}
	s.log.InfoContext(ctx, "dead letter discarded", logger.DeadLetterID(req.ID))
	return handler.Empty()
}

// fail maps err onto an HTTP error response and logs server-side failures.
func (s *service) fail(ctx handler.Context, err error) handler.Response {
	mapped := toHTTPError(err)
	if !isClientError(mapped) {
		r := ctx.Request()
		s.log.ErrorContext(ctx, "operator request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	return handler.JSONError(mapped)
}
