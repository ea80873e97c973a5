package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	assert.NotPanics(t, func() {
		m.Counter("x", 1)
		m.Gauge("x", 1)
		m.Histogram("x", 1)
	})
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counter per tag set", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricStepsCompleted, 1, T("step", "billing"))
		m.Counter(MetricStepsCompleted, 1, T("step", "billing"))
		m.Counter(MetricStepsCompleted, 1, T("step", "rate_card"))

		assert.Equal(t, int64(2), m.GetCounter(MetricStepsCompleted, T("step", "billing")))
		assert.Equal(t, int64(1), m.GetCounter(MetricStepsCompleted, T("step", "rate_card")))
		assert.Len(t, m.Counters(), 2)
	})

	t.Run("tag order does not matter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricSetupDeclines, 1, T("category", "fraud"), T("attempt", "2"))

		assert.Equal(t, int64(1), m.GetCounter(MetricSetupDeclines, T("attempt", "2"), T("category", "fraud")))
	})

	t.Run("gauge keeps the last value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge(MetricOutboxLagSeconds, 3)
		m.Gauge(MetricOutboxLagSeconds, 1.5)

		assert.Equal(t, 1.5, m.GetGauge(MetricOutboxLagSeconds))
	})

	t.Run("histogram keeps every value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Histogram("latency", 1)
		m.Histogram("latency", 2)

		assert.Equal(t, []float64{1, 2}, m.GetHistogram("latency"))
	})
}
