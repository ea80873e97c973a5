package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/onramp/pkg/observability"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
	Retention        time.Duration
	PurgeInterval    time.Duration
}

// DefaultProcessorConfig returns the worker defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     500 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		Retention:        7 * 24 * time.Hour,
		PurgeInterval:    time.Hour,
	}
}

// Stats is a snapshot of processor activity.
type Stats struct {
	Published       uint64
	Failed          uint64
	DeadLettered    uint64
	Purged          int64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	LagSeconds      float64
}

// Processor relays stored messages to a publisher, retrying failures with
// exponential backoff and dead-lettering after MaxRetries attempts.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	clock     domain.Clock
	metrics   observability.Metrics
	logger    *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// NewProcessor creates a processor. Nil clock, metrics and logger fall
// back to the system clock, no-op metrics and slog.Default.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, clock domain.Clock, metrics observability.Metrics, logger *slog.Logger) *Processor {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run polls until ctx is cancelled. Published messages older than the
// retention window are purged every PurgeInterval.
func (p *Processor) Run(ctx context.Context) error {
	interval := p.config.PollInterval
	if interval <= 0 {
		interval = DefaultProcessorConfig().PollInterval
	}
	poll := time.NewTicker(interval)
	defer poll.Stop()
	purgeEvery := p.config.PurgeInterval
	if purgeEvery <= 0 {
		purgeEvery = DefaultProcessorConfig().PurgeInterval
	}
	purge := time.NewTicker(purgeEvery)
	defer purge.Stop()

	p.logger.InfoContext(ctx, "outbox processor started",
		"poll_interval", interval,
		"batch_size", p.config.BatchSize,
	)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("outbox processor stopped")
			return nil
		case <-poll.C:
			if _, err := p.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				p.logger.ErrorContext(ctx, "failed to process outbox batch", "error", err)
			}
		case <-purge.C:
			if _, err := p.Purge(ctx); err != nil && ctx.Err() == nil {
				p.logger.ErrorContext(ctx, "failed to purge outbox", "error", err)
			}
		}
	}
}

// ProcessOnce publishes one batch and returns how many messages were sent.
// Publish failures are recorded per message; only a failed read is returned.
func (p *Processor) ProcessOnce(ctx context.Context) (int, error) {
	now := p.clock.Now()
	msgs, err := p.repo.Pending(ctx, now, p.config.BatchSize)
	if err != nil {
		p.recordError(err, now)
		return 0, err
	}
	p.recordLag(msgs, now)

	sent := 0
	for _, msg := range msgs {
		if err := p.publish(ctx, msg); err != nil {
			p.handleFailure(ctx, msg, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID, p.clock.Now()); err != nil {
			p.logger.ErrorContext(ctx, "failed to mark message as published",
				"id", msg.ID,
				"event_id", msg.EventID,
				"error", err,
			)
			continue
		}
		sent++
		p.mu.Lock()
		p.stats.Published++
		p.mu.Unlock()
		p.metrics.Counter(observability.MetricOutboxPublished, 1, observability.T("routing_key", msg.RoutingKey))
	}
	return sent, nil
}

func (p *Processor) publish(ctx context.Context, msg *Message) error {
	delivery, err := msg.Delivery()
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, delivery)
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, cause error) {
	now := p.clock.Now()
	p.recordError(cause, now)
	p.logger.WarnContext(ctx, "failed to publish message",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"attempt", msg.RetryCount+1,
		"error", cause,
	)

	if p.exhausted(msg) {
		p.mu.Lock()
		p.stats.DeadLettered++
		p.mu.Unlock()
		p.metrics.Counter(observability.MetricOutboxDeadLettered, 1, observability.T("routing_key", msg.RoutingKey))
		if err := p.repo.MarkDead(ctx, msg.ID, cause.Error(), now); err != nil {
			p.logger.ErrorContext(ctx, "failed to dead-letter message", "id", msg.ID, "error", err)
		}
		return
	}

	p.mu.Lock()
	p.stats.Failed++
	p.mu.Unlock()
	p.metrics.Counter(observability.MetricOutboxFailed, 1, observability.T("routing_key", msg.RoutingKey))
	next := now.Add(p.Backoff(msg.RetryCount + 1))
	if err := p.repo.MarkFailed(ctx, msg.ID, cause.Error(), next); err != nil {
		p.logger.ErrorContext(ctx, "failed to record publish failure", "id", msg.ID, "error", err)
	}
}

func (p *Processor) exhausted(msg *Message) bool {
	return p.config.MaxRetries <= 0 || msg.RetryCount+1 >= p.config.MaxRetries
}

// Backoff returns the delay before the given attempt: base doubled per
// prior attempt, capped at RetryBackoffMax.
func (p *Processor) Backoff(attempt int) time.Duration {
	base := p.config.RetryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	limit := p.config.RetryBackoffMax
	if limit <= 0 {
		limit = time.Minute
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= limit {
			return limit
		}
	}
	return min(delay, limit)
}

// Purge removes published messages older than the retention window.
func (p *Processor) Purge(ctx context.Context) (int64, error) {
	retention := p.config.Retention
	if retention <= 0 {
		retention = DefaultProcessorConfig().Retention
	}
	n, err := p.repo.Purge(ctx, p.clock.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	p.stats.Purged += n
	p.mu.Unlock()
	if n > 0 {
		p.logger.InfoContext(ctx, "purged published outbox messages", "count", n)
	}
	return n, nil
}

// Stats returns a copy of the processor counters.
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Processor) recordError(err error, at time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.LastError = err.Error()
	p.stats.LastErrorAt = &at
}

func (p *Processor) recordLag(msgs []*Message, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats.LastProcessedAt = &now
	p.stats.LagSeconds = 0
	if len(msgs) == 0 {
		return
	}
	oldest := msgs[0].CreatedAt
	for _, msg := range msgs[1:] {
		if msg.CreatedAt.Before(oldest) {
			oldest = msg.CreatedAt
		}
	}
	p.stats.LagSeconds = now.Sub(oldest).Seconds()
	p.metrics.Gauge(observability.MetricOutboxLagSeconds, p.stats.LagSeconds)
}
