// Package domain describes deferred payment-method capture: the provider
// port, form sessions and the mapping of provider failures to user text.
package domain

import (
	"context"
	"fmt"
)

// CustomerRequest creates a provider customer.
type CustomerRequest struct {
	Email    string
	Name     string
	Metadata map[string]string
}

// SetupIntentRequest prepares an off-session card setup for a customer.
type SetupIntentRequest struct {
	CustomerRef string
	Metadata    map[string]string
}

// SetupIntent is the provider's handle for one capture attempt.
type SetupIntent struct {
	ID           string
	ClientSecret string
	CustomerRef  string
	Status       string
}

// ConfirmRequest confirms a setup intent with a payment method.
type ConfirmRequest struct {
	IntentID      string
	ClientSecret  string
	PaymentMethod string
}

// Setup intent statuses the coordinator acts on.
const (
	IntentSucceeded      = "succeeded"
	IntentRequiresAction = "requires_action"
)

// ConfirmResult is the provider's answer to a confirmation.
type ConfirmResult struct {
	Status           string
	PaymentMethodRef string
}

// Provider is the payment provider port.
type Provider interface {
	CreateCustomer(ctx context.Context, req CustomerRequest) (string, error)
	CreateSetupIntent(ctx context.Context, req SetupIntentRequest) (*SetupIntent, error)
	ConfirmSetupIntent(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
}

// ProviderError is a structured provider failure. Temporary errors are
// worth retrying; the rest are answers such as card declines.
type ProviderError struct {
	Code        string
	DeclineCode string
	Message     string
	Temporary   bool
}

func (e *ProviderError) Error() string {
	if e.DeclineCode != "" {
		return fmt.Sprintf("payment provider: %s (%s): %s", e.Code, e.DeclineCode, e.Message)
	}
	return fmt.Sprintf("payment provider: %s: %s", e.Code, e.Message)
}
