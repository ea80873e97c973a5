// Package config loads onramp settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	UserID    string

	// Database. An empty DatabaseURL runs on the local SQLite file.
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string
	LocalMode      bool

	// Redis. Empty keeps banner dismissals in process memory.
	RedisURL string

	// RabbitMQ. Empty makes the worker drain the outbox without publishing.
	RabbitMQURL string

	// Payments. Empty StripeAPIKey selects the local simulator.
	StripeAPIKey            string
	PaymentTimeout          time.Duration
	PaymentMaxRetries       int
	PaymentBreakerThreshold int

	// Trial
	TrialDuration         time.Duration
	TrialReminderSchedule string
	TrialReminderDays     []int
	BannerSessionTTL      time.Duration

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		UserID:    getEnv("ONRAMP_USER_ID", ""),

		DatabaseURL:    databaseURL,
		DatabaseDriver: getEnv("DATABASE_DRIVER", defaultDriver(databaseURL)),
		SQLitePath:     getEnv("SQLITE_PATH", ""),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		StripeAPIKey:            getEnv("STRIPE_API_KEY", ""),
		PaymentTimeout:          getDurationEnv("PAYMENT_TIMEOUT", 10*time.Second),
		PaymentMaxRetries:       getIntEnv("PAYMENT_MAX_RETRIES", 3),
		PaymentBreakerThreshold: getIntEnv("PAYMENT_BREAKER_THRESHOLD", 5),

		TrialDuration:         getDurationEnv("TRIAL_DURATION", 48*time.Hour),
		TrialReminderSchedule: getEnv("TRIAL_REMINDER_SCHEDULE", "0 9 * * *"),
		BannerSessionTTL:      getDurationEnv("BANNER_SESSION_TTL", 12*time.Hour),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 7),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
	}
	cfg.LocalMode = cfg.DatabaseDriver == "sqlite"

	days, err := getIntListEnv("TRIAL_REMINDER_DAYS", []int{3, 1, 0})
	if err != nil {
		return nil, err
	}
	cfg.TrialReminderDays = days

	if cfg.TrialDuration <= 0 {
		return nil, fmt.Errorf("TRIAL_DURATION must be positive, got %s", cfg.TrialDuration)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// OutboxRetention is how long published messages are kept.
func (c *Config) OutboxRetention() time.Duration {
	return time.Duration(c.OutboxRetentionDays) * 24 * time.Hour
}

func defaultDriver(databaseURL string) string {
	if databaseURL == "" || strings.HasPrefix(databaseURL, "sqlite://") || strings.HasPrefix(databaseURL, "file:") {
		return "sqlite"
	}
	return "postgres"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getIntListEnv parses a comma separated list of non-negative ints. Unlike
// the scalar getters a malformed value is an error.
func getIntListEnv(key string, defaultValue []int) ([]int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s: invalid day %q", key, part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return defaultValue, nil
	}
	return out, nil
}
