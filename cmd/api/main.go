package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"laborhub/internal/config"
	"laborhub/internal/database"
	"laborhub/internal/domain/notification"
	"laborhub/internal/pkg/lock"
	"laborhub/internal/pkg/logger"
	"laborhub/internal/pkg/mq"
	"laborhub/internal/pkg/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var publisher notification.Publisher
	if cfg.RabbitURL != "" {
		p, err := mq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal("connect rabbitmq", zap.Error(err))
		}
		defer func() { _ = p.Close() }()
		publisher = p
	} else {
		zlog.Info("RABBIT_URL not set, domain events are not published")
	}

	var mailer notification.Mailer = notification.NewConsoleMailer(zlog)
	if cfg.SMTPHost != "" {
		mailer = notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	}

	var tasks *scheduler.Scheduler
	deps := appDeps{
		Config:    cfg,
		DB:        db,
		Locker:    newLocker(ctx, cfg, zlog),
		Mailer:    mailer,
		Publisher: publisher,
		Log:       zlog,
	}
	if cfg.RedisAddr != "" {
		tasks = scheduler.New(scheduler.Config{
			RedisAddr:     cfg.RedisAddr,
			RedisPassword: cfg.RedisPassword,
			RedisDB:       cfg.RedisDB,
			Concurrency:   cfg.TaskConcurrency,
			Queues: map[string]int{
				notification.QueueEffects:     6,
				notification.QueueMaintenance: 1,
			},
		}, zlog)
		deps.Tasks = tasks.Client()
	}

	a := newApp(deps)
	// runs before the publisher is closed so queued events still go out
	defer a.close()

	cleanupCfg := notification.CleanupConfig{
		NotificationRetention: cfg.NotificationRetention,
		HistoryRetention:      cfg.HistoryRetention,
		Interval:              cfg.CleanupInterval,
	}
	if tasks != nil {
		mux := asynq.NewServeMux()
		a.tasks.Register(mux)
		if err := notification.RegisterPeriodic(tasks.Cron(), cleanupCfg, zlog); err != nil {
			zlog.Fatal("register cleanup task", zap.Error(err))
		}
		if err := tasks.Start(mux); err != nil {
			zlog.Fatal("start task workers", zap.Error(err))
		}
		defer tasks.Shutdown()
	} else {
		a.cleanup.Schedule(ctx, cleanupCfg)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
}

// newLocker prefers redis so slot locks hold across instances.
func newLocker(ctx context.Context, cfg *config.Config, log *zap.Logger) lock.Locker {
	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set, using in-process locks")
		return lock.NewMemoryLocker(cfg.SlotLockWait)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	return lock.NewRedisLocker(client, cfg.SlotLockTTL, cfg.SlotLockWait)
}
