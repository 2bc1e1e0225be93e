package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultJWTSecret = "change-me-jwt-secret"

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"laborhub.db"`

	JWTSecret     string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTTTL        time.Duration `envconfig:"JWT_TTL" default:"24h"`
	InternalToken string        `envconfig:"INTERNAL_TOKEN"`

	BookingTimezone   string  `envconfig:"BOOKING_TIMEZONE" default:"UTC"`
	DefaultCompanyFee float64 `envconfig:"DEFAULT_COMPANY_FEE" default:"1000"`
	AppBaseURL        string  `envconfig:"APP_BASE_URL" default:"http://localhost:3000"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SlotLockTTL   time.Duration `envconfig:"SLOT_LOCK_TTL" default:"5s"`
	SlotLockWait  time.Duration `envconfig:"SLOT_LOCK_WAIT" default:"2s"`

	RabbitURL      string `envconfig:"RABBIT_URL"`
	RabbitExchange string `envconfig:"RABBIT_EXCHANGE" default:"laborhub.events"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@laborhub.local"`

	DispatchQueueSize int           `envconfig:"DISPATCH_QUEUE_SIZE" default:"256"`
	EffectTimeout     time.Duration `envconfig:"EFFECT_TIMEOUT" default:"10s"`
	TaskConcurrency   int           `envconfig:"TASK_CONCURRENCY" default:"10"`
	TaskMaxRetry      int           `envconfig:"TASK_MAX_RETRY" default:"5"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	NotificationRetention time.Duration `envconfig:"NOTIFICATION_RETENTION" default:"720h"`
	HistoryRetention      time.Duration `envconfig:"HISTORY_RETENTION" default:"8760h"`
	CleanupInterval       time.Duration `envconfig:"CLEANUP_INTERVAL" default:"24h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.AppEnv == "" {
		cfg.AppEnv = "dev"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be > 0")
	}
	if c.DefaultCompanyFee < 0 {
		return errors.New("DEFAULT_COMPANY_FEE must be >= 0")
	}
	if c.DispatchQueueSize <= 0 {
		return errors.New("DISPATCH_QUEUE_SIZE must be > 0")
	}
	if c.TaskConcurrency <= 0 {
		return errors.New("TASK_CONCURRENCY must be > 0")
	}
	if c.TaskMaxRetry < 0 {
		return errors.New("TASK_MAX_RETRY must be >= 0")
	}
	if _, err := time.LoadLocation(c.BookingTimezone); err != nil {
		return fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", c.BookingTimezone, err)
	}

	if c.IsProduction() {
		if isEmptyOrDefault(c.JWTSecret, defaultJWTSecret) {
			return errors.New("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(c.InternalToken) == "" {
			return errors.New("in prod/release INTERNAL_TOKEN must be set")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return isProdLike(c.AppEnv)
}

// Location returns the zone booking dates and times are interpreted in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BookingTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
