package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all onramp environment variables.
func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "ONRAMP_USER_ID",
		"DATABASE_URL", "DATABASE_DRIVER", "SQLITE_PATH",
		"REDIS_URL", "RABBITMQ_URL",
		"STRIPE_API_KEY", "PAYMENT_TIMEOUT", "PAYMENT_MAX_RETRIES", "PAYMENT_BREAKER_THRESHOLD",
		"TRIAL_DURATION", "TRIAL_REMINDER_SCHEDULE", "TRIAL_REMINDER_DAYS", "BANNER_SESSION_TTL",
		"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_RETRIES",
		"OUTBOX_RETENTION_DAYS", "OUTBOX_CLEANUP_INTERVAL", "OUTBOX_PROCESSOR_ENABLED",
		"WORKER_HEALTH_ADDR",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	// Local mode is enabled by default when no DATABASE_URL is set
	assert.True(t, cfg.LocalMode)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.StripeAPIKey)

	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 3, cfg.PaymentMaxRetries)
	assert.Equal(t, 5, cfg.PaymentBreakerThreshold)

	assert.Equal(t, 48*time.Hour, cfg.TrialDuration)
	assert.Equal(t, "0 9 * * *", cfg.TrialReminderSchedule)
	assert.Equal(t, []int{3, 1, 0}, cfg.TrialReminderDays)
	assert.Equal(t, 12*time.Hour, cfg.BannerSessionTTL)

	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, 7*24*time.Hour, cfg.OutboxRetention())
	assert.True(t, cfg.OutboxProcessorEnabled)

	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("APP_ENV", "production")
	os.Setenv("DATABASE_URL", "postgres://onramp:secret@db:5432/onramp")
	os.Setenv("STRIPE_API_KEY", "sk_test_123")
	os.Setenv("TRIAL_DURATION", "72h")
	os.Setenv("TRIAL_REMINDER_DAYS", "7, 3,1")
	os.Setenv("PAYMENT_MAX_RETRIES", "4")
	os.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.False(t, cfg.LocalMode)
	assert.Equal(t, "sk_test_123", cfg.StripeAPIKey)
	assert.Equal(t, 72*time.Hour, cfg.TrialDuration)
	assert.Equal(t, []int{7, 3, 1}, cfg.TrialReminderDays)
	assert.Equal(t, 4, cfg.PaymentMaxRetries)
	assert.False(t, cfg.OutboxProcessorEnabled)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "unparsable int falls back", key: "OUTBOX_BATCH_SIZE", value: "lots"},
		{name: "unparsable duration falls back", key: "PAYMENT_TIMEOUT", value: "soon"},
		{name: "bad reminder day", key: "TRIAL_REMINDER_DAYS", value: "3,x", wantErr: true},
		{name: "negative reminder day", key: "TRIAL_REMINDER_DAYS", value: "-1", wantErr: true},
		{name: "zero trial", key: "TRIAL_DURATION", value: "0s", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()
			defer clearEnvVars()
			os.Setenv(tt.key, tt.value)

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 100, cfg.OutboxBatchSize)
			assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
		})
	}
}

func TestLoad_ExplicitDriver(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()
	os.Setenv("DATABASE_URL", "sqlite:///tmp/onramp.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.LocalMode)

	os.Setenv("DATABASE_DRIVER", "postgres")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.LocalMode)
}
