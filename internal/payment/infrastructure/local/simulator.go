// Package local provides an offline payment provider for development. It
// understands the pm_card_* test tokens used by Stripe's documentation.
package local

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/google/uuid"
)

type outcome struct {
	code        string
	declineCode string
	status      string
}

var tokens = map[string]outcome{
	"pm_card_visa":                            {status: domain.IntentSucceeded},
	"pm_card_mastercard":                      {status: domain.IntentSucceeded},
	"pm_card_chargeDeclined":                  {code: "card_declined", declineCode: "generic_decline"},
	"pm_card_chargeDeclinedInsufficientFunds": {code: "card_declined", declineCode: "insufficient_funds"},
	"pm_card_chargeDeclinedFraudulent":        {code: "card_declined", declineCode: "fraudulent"},
	"pm_card_chargeDeclinedStolenCard":        {code: "card_declined", declineCode: "stolen_card"},
	"pm_card_chargeDeclinedExpiredCard":       {code: "expired_card"},
	"pm_card_chargeDeclinedIncorrectCvc":      {code: "incorrect_cvc"},
	"pm_card_chargeDeclinedProcessingError":   {code: "processing_error"},
	"pm_card_authenticationRequired":          {status: domain.IntentRequiresAction},
}

// Simulator is an in-memory domain.Provider.
type Simulator struct {
	mu      sync.Mutex
	intents map[string]string
}

var _ domain.Provider = (*Simulator)(nil)

// NewSimulator creates an empty simulator.
func NewSimulator() *Simulator {
	return &Simulator{intents: make(map[string]string)}
}

// CreateCustomer returns a fresh customer id.
func (s *Simulator) CreateCustomer(ctx context.Context, req domain.CustomerRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "cus_local_" + shortID(), nil
}

// CreateSetupIntent returns a new intent for the customer.
func (s *Simulator) CreateSetupIntent(ctx context.Context, req domain.SetupIntentRequest) (*domain.SetupIntent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := "seti_local_" + shortID()
	secret := id + "_secret_" + shortID()

	s.mu.Lock()
	s.intents[id] = req.CustomerRef
	s.mu.Unlock()

	return &domain.SetupIntent{
		ID:           id,
		ClientSecret: secret,
		CustomerRef:  req.CustomerRef,
		Status:       "requires_payment_method",
	}, nil
}

// ConfirmSetupIntent resolves the payment method token to an outcome.
// Unknown tokens succeed.
func (s *Simulator) ConfirmSetupIntent(ctx context.Context, req domain.ConfirmRequest) (*domain.ConfirmResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	_, ok := s.intents[req.IntentID]
	s.mu.Unlock()
	if !ok {
		return nil, &domain.ProviderError{Code: "resource_missing", Message: "No such setupintent: " + req.IntentID}
	}

	out, known := tokens[req.PaymentMethod]
	if !known {
		out = outcome{status: domain.IntentSucceeded}
	}
	if out.code != "" {
		return nil, &domain.ProviderError{
			Code:        out.code,
			DeclineCode: out.declineCode,
			Message:     "simulated decline",
		}
	}
	if out.status == domain.IntentSucceeded {
		s.mu.Lock()
		delete(s.intents, req.IntentID)
		s.mu.Unlock()
	}
	return &domain.ConfirmResult{Status: out.status, PaymentMethodRef: "pm_local_" + shortID()}, nil
}

func shortID() string {
	return uuid.NewString()[:8]
}
