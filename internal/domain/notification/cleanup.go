package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// HistoryPurger is implemented by the booking repository.
type HistoryPurger interface {
	DeleteTerminalBefore(ctx context.Context, before time.Time) (int64, error)
}

type CleanupConfig struct {
	NotificationRetention time.Duration
	HistoryRetention      time.Duration
	Interval              time.Duration
}

// CleanupService prunes read notifications and old finished bookings.
type CleanupService struct {
	notifications *Service
	bookings      HistoryPurger
	log           *zap.Logger
}

func NewCleanupService(notifications *Service, bookings HistoryPurger, log *zap.Logger) *CleanupService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupService{notifications: notifications, bookings: bookings, log: log}
}

// RunOnce runs every cleanup task. A failing task does not stop the others.
func (c *CleanupService) RunOnce(ctx context.Context, cfg CleanupConfig) error {
	start := time.Now()
	var firstErr error

	if cfg.NotificationRetention > 0 {
		n, err := c.notifications.DeleteOlderThan(ctx, cfg.NotificationRetention)
		if err != nil {
			c.log.Error("notification cleanup failed", zap.Error(err))
			firstErr = err
		} else {
			c.log.Info("old notifications deleted", zap.Int64("deleted", n))
		}
	}

	if cfg.HistoryRetention > 0 && c.bookings != nil {
		n, err := c.bookings.DeleteTerminalBefore(ctx, time.Now().UTC().Add(-cfg.HistoryRetention))
		if err != nil {
			c.log.Error("booking history cleanup failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		} else {
			c.log.Info("old bookings deleted", zap.Int64("deleted", n))
		}
	}

	c.log.Info("cleanup completed", zap.Duration("took", time.Since(start)))
	return firstErr
}

// CronRegistrar is satisfied by *asynq.Scheduler.
type CronRegistrar interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
}

type cleanupPayload struct {
	NotificationRetention time.Duration `json:"notification_retention"`
	HistoryRetention      time.Duration `json:"history_retention"`
}

func (p cleanupPayload) config() CleanupConfig {
	return CleanupConfig{
		NotificationRetention: p.NotificationRetention,
		HistoryRetention:      p.HistoryRetention,
	}
}

func NewCleanupTask(cfg CleanupConfig) (*asynq.Task, error) {
	b, err := json.Marshal(cleanupPayload{
		NotificationRetention: cfg.NotificationRetention,
		HistoryRetention:      cfg.HistoryRetention,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCleanup, b), nil
}

// RegisterPeriodic makes the redis scheduler enqueue a cleanup every
// cfg.Interval. Only one API instance runs the task per tick.
func RegisterPeriodic(s CronRegistrar, cfg CleanupConfig, log *zap.Logger) error {
	if cfg.Interval <= 0 {
		log.Info("scheduled cleanup disabled")
		return nil
	}
	task, err := NewCleanupTask(cfg)
	if err != nil {
		return err
	}
	id, err := s.Register(fmt.Sprintf("@every %s", cfg.Interval), task,
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Unique(cfg.Interval),
	)
	if err != nil {
		return fmt.Errorf("register cleanup: %w", err)
	}
	log.Info("periodic cleanup registered", zap.String("entry_id", id), zap.Duration("interval", cfg.Interval))
	return nil
}

// Schedule runs RunOnce every cfg.Interval until ctx is done. It is the
// in-process fallback for RegisterPeriodic.
func (c *CleanupService) Schedule(ctx context.Context, cfg CleanupConfig) {
	if cfg.Interval <= 0 {
		c.log.Info("scheduled cleanup disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = c.RunOnce(ctx, cfg)
			case <-ctx.Done():
				c.log.Info("scheduled cleanup stopped")
				return
			}
		}
	}()
	c.log.Info("scheduled cleanup started", zap.Duration("interval", cfg.Interval))
}
