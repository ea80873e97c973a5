// Package application coordinates deferred payment-method capture with the
// payment provider.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/resilience"
	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/google/uuid"
)

// SetupRequest starts a payment form for an account.
type SetupRequest struct {
	AccountID    uuid.UUID
	UserID       uuid.UUID
	BillingEmail string
	DisplayName  string
	CustomerRef  string
}

// Coordinator owns the outstanding form session of each account. It is
// safe for concurrent use.
type Coordinator struct {
	provider domain.Provider
	policy   *resilience.Policy
	clock    sharedDomain.Clock
	metrics  observability.Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.FormSession
	secrets  map[string]uuid.UUID
}

// NewCoordinator creates a coordinator. policy, clock, metrics and logger
// may be nil.
func NewCoordinator(
	provider domain.Provider,
	policy *resilience.Policy,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
	logger *slog.Logger,
) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == nil {
		policy = resilience.NewPolicy(resilience.DefaultConfig("payment-provider"), logger)
	}
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Coordinator{
		provider: provider,
		policy:   policy,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
		sessions: make(map[uuid.UUID]*domain.FormSession),
		secrets:  make(map[string]uuid.UUID),
	}
}

// RequestSetupIntent opens a form session for the account, replacing any
// outstanding one. Provider failures return ErrPaymentFormUnavailable.
func (c *Coordinator) RequestSetupIntent(ctx context.Context, req SetupRequest) (*domain.FormSession, error) {
	if req.AccountID == uuid.Nil {
		return nil, domain.ErrAccountRequired
	}

	c.mu.Lock()
	prev := c.sessions[req.AccountID]
	c.mu.Unlock()

	attempt := 1
	if prev != nil {
		attempt = prev.Attempt + 1
		if req.CustomerRef == "" {
			req.CustomerRef = prev.CustomerRef
		}
	}
	return c.open(ctx, req, attempt)
}

// Retry discards the account's outstanding secret and issues a fresh
// intent in a new form session.
func (c *Coordinator) Retry(ctx context.Context, accountID uuid.UUID) (*domain.FormSession, error) {
	c.mu.Lock()
	prev := c.sessions[accountID]
	c.mu.Unlock()
	if prev == nil {
		return nil, domain.ErrNoSetupSession
	}

	return c.open(ctx, SetupRequest{
		AccountID:   prev.AccountID,
		UserID:      prev.UserID,
		CustomerRef: prev.CustomerRef,
	}, prev.Attempt+1)
}

func (c *Coordinator) open(ctx context.Context, req SetupRequest, attempt int) (*domain.FormSession, error) {
	logger := c.logger.With(
		"account_id", req.AccountID.String(),
		"user_id", req.UserID.String(),
	)

	metadata := map[string]string{
		"organizationId": req.AccountID.String(),
		"userId":         req.UserID.String(),
		"source":         "setup_intent",
	}

	customerRef := req.CustomerRef
	if customerRef == "" {
		ref, err := resilience.Do(ctx, c.policy, func(ctx context.Context) (string, error) {
			ref, err := c.provider.CreateCustomer(ctx, domain.CustomerRequest{
				Email:    req.BillingEmail,
				Name:     req.DisplayName,
				Metadata: metadata,
			})
			return ref, permanentUnlessTemporary(err)
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to create payment customer", "error", err)
			c.metrics.Counter(observability.MetricSetupIntentsRequested, 1, observability.T("result", "failed"))
			return nil, fmt.Errorf("%w: %w", domain.ErrPaymentFormUnavailable, err)
		}
		customerRef = ref
	}

	intent, err := resilience.Do(ctx, c.policy, func(ctx context.Context) (*domain.SetupIntent, error) {
		intent, err := c.provider.CreateSetupIntent(ctx, domain.SetupIntentRequest{
			CustomerRef: customerRef,
			Metadata:    metadata,
		})
		return intent, permanentUnlessTemporary(err)
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to create setup intent", "error", err)
		c.metrics.Counter(observability.MetricSetupIntentsRequested, 1, observability.T("result", "failed"))
		return nil, fmt.Errorf("%w: %w", domain.ErrPaymentFormUnavailable, err)
	}

	session := &domain.FormSession{
		ID:           uuid.New(),
		AccountID:    req.AccountID,
		UserID:       req.UserID,
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
		CustomerRef:  customerRef,
		Attempt:      attempt,
		CreatedAt:    c.clock.Now(),
	}

	c.mu.Lock()
	if prev, ok := c.sessions[req.AccountID]; ok {
		delete(c.secrets, prev.ClientSecret)
	}
	c.sessions[req.AccountID] = session
	c.secrets[session.ClientSecret] = req.AccountID
	c.mu.Unlock()

	c.metrics.Counter(observability.MetricSetupIntentsRequested, 1, observability.T("result", "ok"))
	logger.InfoContext(ctx, "setup intent created",
		"form_session_id", session.ID.String(),
		"attempt", attempt,
	)

	out := *session
	return &out, nil
}

// ConfirmSetup confirms the outstanding session identified by clientSecret.
// Failures are returned as *domain.DeclineError except for stale or
// missing input.
func (c *Coordinator) ConfirmSetup(ctx context.Context, clientSecret, paymentMethod string) (*domain.PaymentMethodReference, error) {
	if paymentMethod == "" {
		return nil, domain.ErrPaymentMethodRequired
	}

	c.mu.Lock()
	accountID, ok := c.secrets[clientSecret]
	var session domain.FormSession
	if ok {
		session = *c.sessions[accountID]
	}
	c.mu.Unlock()
	if !ok {
		return nil, domain.ErrStaleSetupIntent
	}

	logger := c.logger.With(
		"account_id", accountID.String(),
		"form_session_id", session.ID.String(),
	)

	result, err := resilience.Do(ctx, c.policy, func(ctx context.Context) (*domain.ConfirmResult, error) {
		res, err := c.provider.ConfirmSetupIntent(ctx, domain.ConfirmRequest{
			IntentID:      session.IntentID,
			ClientSecret:  clientSecret,
			PaymentMethod: paymentMethod,
		})
		return res, classifyConfirm(err)
	})

	var decline *domain.DeclineError
	switch {
	case err != nil:
		decline = confirmFailure(err)
		logger.WarnContext(ctx, "setup confirmation failed",
			"category", string(decline.Category),
			"error", err,
		)
	case result.Status == domain.IntentRequiresAction:
		decline = domain.NewDeclineError(domain.CategoryAuthenticationRequired)
	case result.Status != domain.IntentSucceeded:
		decline = domain.NewDeclineError(domain.CategoryProcessingError)
		logger.WarnContext(ctx, "unexpected setup intent status", "status", result.Status)
	}

	if decline != nil {
		c.recordFailure(accountID, clientSecret)
		c.metrics.Counter(observability.MetricSetupDeclines, 1, observability.T("category", string(decline.Category)))
		return nil, decline
	}

	c.Discard(accountID)
	logger.InfoContext(ctx, "payment method captured")
	return &domain.PaymentMethodReference{
		PaymentMethodRef: result.PaymentMethodRef,
		SetupIntentID:    session.IntentID,
		CustomerRef:      session.CustomerRef,
	}, nil
}

func (c *Coordinator) recordFailure(accountID uuid.UUID, clientSecret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[accountID]; ok && s.ClientSecret == clientSecret {
		s.RecordFailure()
	}
}

// Session returns a copy of the account's outstanding session.
func (c *Coordinator) Session(accountID uuid.UUID) (*domain.FormSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[accountID]
	if !ok {
		return nil, false
	}
	out := *s
	return &out, true
}

// Discard drops the account's outstanding session. Its secret becomes stale.
func (c *Coordinator) Discard(accountID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[accountID]; ok {
		delete(c.secrets, s.ClientSecret)
		delete(c.sessions, accountID)
	}
}

// HealthCheck reports the provider circuit breaker. An open or half-open
// breaker degrades health without failing readiness.
func (c *Coordinator) HealthCheck(ctx context.Context) observability.HealthCheckResult {
	state := c.policy.State()
	if state == "closed" {
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy}
	}
	return observability.HealthCheckResult{
		Status:  observability.HealthStatusDegraded,
		Message: "payment provider circuit breaker " + state,
	}
}

func permanentUnlessTemporary(err error) error {
	var pe *domain.ProviderError
	if errors.As(err, &pe) && !pe.Temporary {
		return resilience.Permanent(err)
	}
	return err
}

func classifyConfirm(err error) error {
	var pe *domain.ProviderError
	if errors.As(err, &pe) && !pe.Temporary {
		return resilience.Permanent(domain.ClassifyDecline(pe.Code, pe.DeclineCode))
	}
	return err
}

func confirmFailure(err error) *domain.DeclineError {
	var decline *domain.DeclineError
	if errors.As(err, &decline) {
		return decline
	}
	var pe *domain.ProviderError
	if errors.As(err, &pe) && pe.Code == string(domain.CategoryRateLimit) {
		return domain.NewDeclineError(domain.CategoryRateLimit)
	}
	return domain.NewDeclineError(domain.CategoryProcessingError)
}
