package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"laborhub/internal/config"
	"laborhub/internal/database"
	"laborhub/internal/domain/booking"
	"laborhub/internal/domain/notification"
	"laborhub/internal/pkg/logger"
)

// cleanup is meant for cron: one pass, then exit.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zlog := logger.Must(cfg.AppEnv)
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}

	// no pusher: nothing is broadcast from a batch job
	notifications := notification.NewService(notification.NewRepository(db), nil, zlog)
	svc := notification.NewCleanupService(notifications, booking.NewRepository(db), zlog)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := svc.RunOnce(ctx, notification.CleanupConfig{
		NotificationRetention: cfg.NotificationRetention,
		HistoryRetention:      cfg.HistoryRetention,
	}); err != nil {
		zlog.Fatal("cleanup failed", zap.Error(err))
	}
}
