package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("text output with service attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Output: &buf, ServiceName: "onramp", ServiceVersion: "1.2.3"})

		logger.Info("step completed", "step", "billing")

		out := buf.String()
		assert.Contains(t, out, "step completed")
		assert.Contains(t, out, "step=billing")
		assert.Contains(t, out, "service=onramp")
		assert.Contains(t, out, "version=1.2.3")
	})

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Output: &buf, Format: LogFormatJSON})

		logger.Info("organization provisioned", "organization_id", "org-1")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "organization provisioned", entry["msg"])
		assert.Equal(t, "org-1", entry["organization_id"])
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Output: &buf, Level: "warn"})

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("copies context values", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Output: &buf}).With("component", "saga")

		ctx := WithCorrelationID(context.Background(), "corr-123")
		ctx = WithUserID(ctx, "user-9")
		ctx = WithOperation(ctx, "onboarding.complete")
		logger.InfoContext(ctx, "saved")

		out := buf.String()
		assert.Contains(t, out, "correlation_id=corr-123")
		assert.Contains(t, out, "user_id=user-9")
		assert.Contains(t, out, "operation=onboarding.complete")
		assert.Contains(t, out, "component=saga")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestCorrelationUUID(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "")
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", CorrelationUUID(ctx).String())

	assert.Equal(t, "00000000-0000-0000-0000-000000000000", CorrelationUUID(WithCorrelationID(context.Background(), "not-a-uuid")).String())
}
