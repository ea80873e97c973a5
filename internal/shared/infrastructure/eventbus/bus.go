package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Handler reacts to one decoded lifecycle event.
type Handler interface {
	Handle(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, event *Event) error { return f(ctx, event) }

type subscription struct {
	pattern string
	handler Handler
}

// InProcessBus delivers events synchronously to subscribers in the same
// process. It stands in for RabbitMQ in local mode and uses the same
// topic pattern rules: "*" matches one word, "#" matches zero or more.
type InProcessBus struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInProcessBus creates an empty bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers handler for routing keys matching pattern.
func (b *InProcessBus) Subscribe(pattern string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{pattern: pattern, handler: handler})
}

// Publish decodes msg and hands it to every matching subscriber. Handler
// failures are joined into the returned error after all handlers ran.
func (b *InProcessBus) Publish(ctx context.Context, msg Message) error {
	event, err := Decode(msg)
	if err != nil {
		return err
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if !MatchTopic(sub.pattern, event.RoutingKey) {
			continue
		}
		if err := sub.handler.Handle(ctx, event); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close is a no-op.
func (b *InProcessBus) Close() error {
	return nil
}

// MatchTopic reports whether routingKey matches an AMQP topic pattern.
func MatchTopic(pattern, routingKey string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(routingKey, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
