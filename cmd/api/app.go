package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laborhub/internal/config"
	"laborhub/internal/domain"
	"laborhub/internal/domain/account"
	"laborhub/internal/domain/booking"
	"laborhub/internal/domain/notification"
	"laborhub/internal/domain/payment"
	"laborhub/internal/domain/review"
	"laborhub/internal/domain/subscription"
	"laborhub/internal/middleware"
	jwtsvc "laborhub/internal/pkg/jwt"
	"laborhub/internal/pkg/lock"
	"laborhub/internal/pkg/response"
)

type appDeps struct {
	Config    *config.Config
	DB        *gorm.DB
	Locker    lock.Locker
	Mailer    notification.Mailer
	Publisher notification.Publisher // nil disables event publishing

	// Tasks moves effect delivery to redis workers. Nil keeps it in process.
	Tasks notification.Enqueuer
	Log   *zap.Logger
}

type app struct {
	router     *gin.Engine
	tokens     *jwtsvc.Service
	dispatcher *notification.Dispatcher // nil when Tasks is set
	tasks      *notification.TaskHandler
	cleanup    *notification.CleanupService
}

func newApp(d appDeps) *app {
	cfg, db, zlog := d.Config, d.DB, d.Log

	// notifications
	hub := notification.NewHub(cfg.CORSAllowedOrigins, zlog)
	notificationService := notification.NewService(notification.NewRepository(db), hub, zlog)

	var (
		effects    domain.EffectSink
		dispatcher *notification.Dispatcher
	)
	if d.Tasks != nil {
		effects = notification.NewTaskQueue(d.Tasks, notification.TaskQueueConfig{
			MaxRetry: cfg.TaskMaxRetry,
			Timeout:  cfg.EffectTimeout,
		}, zlog)
	} else {
		dispatcher = notification.NewDispatcher(notificationService, d.Mailer, d.Publisher, notification.DispatcherConfig{
			QueueSize: cfg.DispatchQueueSize,
			Timeout:   cfg.EffectTimeout,
		}, zlog)
		effects = dispatcher
	}

	// accounts and subscriptions
	accountRepo := account.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	subscriptionService := subscription.NewService(
		subscription.NewRepository(db),
		bookingRepo,
		subscription.DefaultPlans(),
		cfg.DefaultCompanyFee,
		zlog,
	)

	// bookings
	bookingService := booking.NewService(booking.Deps{
		Repo:       bookingRepo,
		Accounts:   accountRepo,
		Quota:      subscriptionService,
		Validator:  booking.NewConflictValidator(accountRepo, bookingRepo, cfg.Location()),
		Locker:     d.Locker,
		Effects:    effects,
		Log:        zlog,
		AppBaseURL: cfg.AppBaseURL,
	})

	paymentService := payment.NewService(
		payment.NewRepository(db),
		bookingRepo,
		accountRepo,
		subscriptionService,
		bookingService,
		effects,
		zlog,
	)
	reviewService := review.NewService(review.NewReviewRepository(db), bookingRepo, effects, zlog)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	accountHandler := account.NewHandler(accountRepo)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(paymentService, zlog)
	notificationHandler := notification.NewHandler(notificationService)
	reviewHandler := review.NewHandler(reviewService)
	wsHandler := notification.NewWSHandler(hub, tokens)

	r := gin.New()
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.ErrorLogger(zlog))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", healthHandler(db))
	notification.RegisterWSRoutes(r, wsHandler)

	v1 := r.Group("/api/v1")
	{
		// public
		accountHandler.RegisterRoutes(v1)
		subscription.RegisterPublicRoutes(v1, subscriptionHandler)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(tokens))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			notification.RegisterRoutes(protected, notificationHandler)
			subscription.RegisterCustomerRoutes(protected, subscriptionHandler,
				middleware.CustomerOnly(), middleware.RequireSelf("customerId"))
		}
		reviewHandler.RegisterRoutes(v1, protected)

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalTokenAuth(cfg.InternalToken, zlog))
		{
			subscription.RegisterInternalRoutes(internal, subscriptionHandler)
			paymentHandler.RegisterInternalRoutes(internal)
			notification.RegisterInternalRoutes(internal, notificationHandler)
		}
	}

	cleanup := notification.NewCleanupService(notificationService, bookingRepo, zlog)
	deliverer := notification.NewDeliverer(notificationService, d.Mailer, d.Publisher, zlog)
	return &app{
		router:     r,
		tokens:     tokens,
		dispatcher: dispatcher,
		tasks:      notification.NewTaskHandler(deliverer, cleanup),
		cleanup:    cleanup,
	}
}

// close drains in-process effects. Redis workers are stopped by their owner.
func (a *app) close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
