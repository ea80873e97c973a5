// Package resilience wraps outbound calls with a per-call timeout, bounded
// exponential-backoff retry and a circuit breaker.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config configures a Policy.
type Config struct {
	// Name identifies the breaker in logs.
	Name string

	// Timeout bounds each attempt.
	Timeout time.Duration

	// MaxTries is the total number of attempts, first one included.
	MaxTries uint

	// InitialInterval and MaxInterval bound the backoff between attempts.
	InitialInterval time.Duration
	MaxInterval     time.Duration

	// FailureThreshold is the number of consecutive failures that opens
	// the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration

	// HalfOpenRequests is the number of trial calls allowed while half-open.
	HalfOpenRequests uint32
}

// DefaultConfig returns the settings used for payment provider calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		Timeout:          10 * time.Second,
		MaxTries:         3,
		InitialInterval:  200 * time.Millisecond,
		MaxInterval:      2 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 1,
	}
}

// Policy executes operations under the configured timeout, retry and
// breaker. It is safe for concurrent use.
type Policy struct {
	config  Config
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewPolicy creates a policy. Zero config fields fall back to defaults.
func NewPolicy(config Config, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig(config.Name)
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxTries == 0 {
		config.MaxTries = defaults.MaxTries
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = defaults.InitialInterval
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = defaults.MaxInterval
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = defaults.OpenTimeout
	}
	if config.HalfOpenRequests == 0 {
		config.HalfOpenRequests = defaults.HalfOpenRequests
	}

	p := &Policy{config: config, logger: logger}
	p.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.HalfOpenRequests,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		// Permanent errors are answers from a healthy dependency.
		IsSuccessful: func(err error) bool {
			return err == nil || IsPermanent(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return p
}

// State reports the breaker state ("closed", "open" or "half-open").
func (p *Policy) State() string {
	return p.breaker.State().String()
}

// Do runs op under the policy and returns its result. Errors wrapped with
// Permanent are returned unwrapped and never retried.
func Do[T any](ctx context.Context, p *Policy, op func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.InitialInterval
	b.MaxInterval = p.config.MaxInterval

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		var zero T
		out, err := p.breaker.Execute(func() (any, error) {
			callCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
			defer cancel()
			return op(callCtx)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, backoff.Permanent(ErrCircuitOpen)
		}
		if err != nil {
			if ctx.Err() != nil && !IsPermanent(err) {
				return zero, backoff.Permanent(err)
			}
			if !IsPermanent(err) {
				p.logger.Debug("transient failure",
					"breaker", p.config.Name,
					"attempt", attempt,
					"error", err,
				)
			}
			return zero, err
		}
		res, _ := out.(T)
		return res, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(p.config.MaxTries))
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}
