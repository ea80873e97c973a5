package observability

import (
	"sort"
	"strings"
	"sync"
)

// Metrics records application counters, gauges and histograms.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Histogram(name string, value float64, tags ...Tag)
}

// Tag is a metric label.
type Tag struct {
	Key   string
	Value string
}

// T creates a Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// Metric names.
const (
	MetricStepsCompleted        = "onramp.onboarding.steps_completed"
	MetricStepsSkipped          = "onramp.onboarding.steps_skipped"
	MetricOnboardingFinalized   = "onramp.onboarding.finalized"
	MetricOrganizationsCreated  = "onramp.organizations.created"
	MetricSetupIntentsRequested = "onramp.payment.setup_intents"
	MetricSetupDeclines         = "onramp.payment.declines"
	MetricAccessDenied          = "onramp.trial.access_denied"
	MetricRemindersDue          = "onramp.trial.reminders_due"
	MetricOutboxPublished       = "onramp.outbox.published"
	MetricOutboxFailed          = "onramp.outbox.failed"
	MetricOutboxDeadLettered    = "onramp.outbox.dead_lettered"
	MetricOutboxLagSeconds      = "onramp.outbox.lag_seconds"
)

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)     {}
func (NoopMetrics) Gauge(string, float64, ...Tag)     {}
func (NoopMetrics) Histogram(string, float64, ...Tag) {}

// InMemoryMetrics keeps metrics in memory for tests and the worker's
// stats log line.
type InMemoryMetrics struct {
	mu         sync.RWMutex
	counters   map[string]int64
	gauges     map[string]float64
	histograms map[string][]float64
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[seriesKey(name, tags)] += value
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[seriesKey(name, tags)] = value
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := seriesKey(name, tags)
	m.histograms[key] = append(m.histograms[key], value)
}

// GetCounter returns a counter's value.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

// GetGauge returns a gauge's value.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[seriesKey(name, tags)]
}

// GetHistogram returns every value recorded for a histogram.
func (m *InMemoryMetrics) GetHistogram(name string, tags ...Tag) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]float64(nil), m.histograms[seriesKey(name, tags)]...)
}

// Counters returns a copy of every counter series.
func (m *InMemoryMetrics) Counters() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

// seriesKey renders name plus tags sorted by key, so tag order does not
// split a series.
func seriesKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	sorted := append([]Tag(nil), tags...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(name)
	for _, t := range sorted {
		b.WriteString(":")
		b.WriteString(t.Key)
		b.WriteString("=")
		b.WriteString(t.Value)
	}
	return b.String()
}
