package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name     string
		failWith observability.HealthStatus
		wantCode int
	}{
		{name: "degraded cache is still ready", failWith: observability.HealthStatusDegraded, wantCode: http.StatusOK},
		{name: "unhealthy database is not ready", failWith: observability.HealthStatusUnhealthy, wantCode: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := observability.NewHealthRegistry()
			health.Register("dependency", observability.PingChecker(func(context.Context) error {
				return assert.AnError
			}, tt.failWith))

			rec := httptest.NewRecorder()
			healthHandler(health, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var report observability.HealthReport
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, tt.failWith, report.Status)
		})
	}
}

func TestHealthHandler_HealthzWithoutProcessor(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(observability.NewHealthRegistry(), nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["outbox_enabled"])
}
