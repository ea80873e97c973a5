package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ok(ctx context.Context) error   { return nil }
func fail(ctx context.Context) error { return errors.New("connection refused") }

func TestHealthRegistry_Check(t *testing.T) {
	t.Run("healthy when empty", func(t *testing.T) {
		assert.Equal(t, HealthStatusHealthy, NewHealthRegistry().Check(context.Background()).Status)
	})

	t.Run("degraded by optional dependency", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingChecker(ok, HealthStatusUnhealthy))
		r.Register("redis", PingChecker(fail, HealthStatusDegraded))

		report := r.Check(context.Background())

		assert.Equal(t, HealthStatusDegraded, report.Status)
		assert.Equal(t, "connection refused", report.Checks["redis"].Message)
		assert.Equal(t, []string{"database", "redis"}, r.Names())
	})

	t.Run("unhealthy wins", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", PingChecker(fail, HealthStatusUnhealthy))
		r.Register("redis", PingChecker(fail, HealthStatusDegraded))

		assert.Equal(t, HealthStatusUnhealthy, r.Check(context.Background()).Status)
	})
}
