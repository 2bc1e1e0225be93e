// Package scheduler runs background tasks on redis through asynq.
package scheduler

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int

	// Queues maps queue name to priority weight.
	Queues map[string]int
}

// Scheduler owns the asynq client, worker server and periodic scheduler for
// one process.
type Scheduler struct {
	client *asynq.Client
	server *asynq.Server
	cron   *asynq.Scheduler
	log    *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	opt := RedisOpt(cfg)
	sugar := log.Sugar()

	return &Scheduler{
		client: asynq.NewClient(opt),
		server: asynq.NewServer(opt, ServerConfig(cfg, sugar)),
		cron: asynq.NewScheduler(opt, &asynq.SchedulerOpts{
			Logger:   sugar,
			Location: time.UTC,
		}),
		log: log,
	}
}

func RedisOpt(cfg Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// ServerConfig fills in defaults: ten workers and a single default queue.
func ServerConfig(cfg Config, logger asynq.Logger) asynq.Config {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{"default": 1}
	}
	return asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      logger,
	}
}

// Client is used to enqueue tasks.
func (s *Scheduler) Client() *asynq.Client {
	return s.client
}

// Cron registers periodic tasks. Register before Start.
func (s *Scheduler) Cron() *asynq.Scheduler {
	return s.cron
}

// Start runs the workers and the periodic scheduler in the background.
func (s *Scheduler) Start(mux *asynq.ServeMux) error {
	if err := s.server.Start(mux); err != nil {
		return fmt.Errorf("start task server: %w", err)
	}
	if err := s.cron.Start(); err != nil {
		s.server.Shutdown()
		return fmt.Errorf("start task scheduler: %w", err)
	}
	s.log.Info("task workers started")
	return nil
}

// Shutdown stops scheduling, waits for running tasks and closes the client.
func (s *Scheduler) Shutdown() {
	s.cron.Shutdown()
	s.server.Shutdown()
	if err := s.client.Close(); err != nil {
		s.log.Warn("close task client", zap.Error(err))
	}
	s.log.Info("task workers stopped")
}
