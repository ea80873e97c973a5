package eventbus

import (
	"context"
	"log/slog"
)

// Publisher sends lifecycle events to a broker.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// NoopPublisher drops every message after logging it.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the message without sending it.
func (p *NoopPublisher) Publish(ctx context.Context, msg Message) error {
	p.logger.DebugContext(ctx, "noop publish",
		"routing_key", msg.RoutingKey,
		"message_id", msg.ID,
		"size", len(msg.Body),
	)
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error {
	return nil
}
