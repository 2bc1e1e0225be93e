package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"laborhub/internal/domain"
)

const (
	TypeDeliverEffect = "effect:deliver"
	TypeCleanup       = "maintenance:cleanup"

	QueueEffects     = "effects"
	QueueMaintenance = "maintenance"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewEffectTask(e domain.Effect) (*asynq.Task, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeliverEffect, b), nil
}

type TaskQueueConfig struct {
	MaxRetry int
	Timeout  time.Duration
}

// TaskQueue hands effects to redis-backed workers so they survive restarts
// and failed deliveries are retried.
type TaskQueue struct {
	client Enqueuer
	cfg    TaskQueueConfig
	log    *zap.Logger
}

func NewTaskQueue(client Enqueuer, cfg TaskQueueConfig, log *zap.Logger) *TaskQueue {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetry < 0 {
		cfg.MaxRetry = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskQueue{client: client, cfg: cfg, log: log}
}

// Dispatch enqueues each effect as its own task. An effect that cannot be
// enqueued is logged and dropped, like a full in-process queue.
func (q *TaskQueue) Dispatch(effects ...domain.Effect) {
	for _, e := range effects {
		task, err := NewEffectTask(e)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), q.cfg.Timeout)
			_, err = q.client.EnqueueContext(ctx, task,
				asynq.Queue(QueueEffects),
				asynq.MaxRetry(q.cfg.MaxRetry),
				asynq.Timeout(q.cfg.Timeout),
			)
			cancel()
		}
		if err != nil {
			q.log.Warn("effect not enqueued, effect dropped",
				zap.String("kind", string(e.Kind)),
				zap.String("event", e.Event),
				zap.Int64("recipient_id", e.RecipientID),
				zap.Error(err),
			)
		}
	}
}

// TaskHandler serves the tasks this package enqueues.
type TaskHandler struct {
	deliverer *Deliverer
	cleanup   *CleanupService
}

func NewTaskHandler(deliverer *Deliverer, cleanup *CleanupService) *TaskHandler {
	return &TaskHandler{deliverer: deliverer, cleanup: cleanup}
}

func (h *TaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeDeliverEffect, h.HandleEffect)
	mux.HandleFunc(TypeCleanup, h.HandleCleanup)
}

// HandleEffect returns delivery errors so asynq retries them. A payload that
// does not decode is never retried.
func (h *TaskHandler) HandleEffect(ctx context.Context, t *asynq.Task) error {
	var e domain.Effect
	if err := json.Unmarshal(t.Payload(), &e); err != nil {
		return fmt.Errorf("decode effect: %v: %w", err, asynq.SkipRetry)
	}
	if err := h.deliverer.Deliver(ctx, e); err != nil {
		h.deliverer.logFailure(e, err)
		return err
	}
	return nil
}

func (h *TaskHandler) HandleCleanup(ctx context.Context, t *asynq.Task) error {
	var p cleanupPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode cleanup: %v: %w", err, asynq.SkipRetry)
	}
	return h.cleanup.RunOnce(ctx, p.config())
}
