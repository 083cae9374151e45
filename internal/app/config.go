package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/stockdesk/stockdesk/internal/platform/cache"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	RateLimit         int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	APIBaseURL     string        `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000/api"`
	APITimeout     time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	APIPerPage     int           `envconfig:"API_PER_PAGE" default:"10"`
	FormCloseDelay time.Duration `envconfig:"FORM_CLOSE_DELAY" default:"1s"`

	RedisAddr         string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	RedisDB           int           `envconfig:"REDIS_DB" default:"0"`
	SessionSecret     string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	PageMemoTTL       time.Duration `envconfig:"PAGE_MEMO_TTL" default:"30m"`
	SubmissionTTL     time.Duration `envconfig:"SUBMISSION_TTL" default:"10m"`
	DashboardCacheTTL time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"30s"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	CurrencyLabel     string `envconfig:"CURRENCY_LABEL" default:"$"`
	ReminderHour      int    `envconfig:"REMINDER_HOUR" default:"9"`
	WorkerConcurrency int    `envconfig:"WORKER_CONCURRENCY" default:"5"`
	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("api base url must be provided")
	}
	if cfg.APIPerPage <= 0 {
		return nil, errors.New("api per page must be positive")
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return nil, errors.New("reminder hour must be between 0 and 23")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Redis returns the connection settings shared by sessions, caches and the
// job queue.
func (c *Config) Redis() cache.Options {
	return cache.Options{Addr: c.RedisAddr, Password: c.RedisPassword, DB: c.RedisDB}
}
