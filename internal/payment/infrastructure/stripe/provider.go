// Package stripe implements the payment provider port on the Stripe API.
package stripe

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/setupintent"
)

// ErrMissingAPIKey is returned when the handle has no secret key.
var ErrMissingAPIKey = errors.New("stripe: api key is not configured")

// Handle is the process-wide Stripe client. The key is installed once, on
// first use.
type Handle struct {
	apiKey string
	once   sync.Once
}

// NewHandle creates a handle for apiKey.
func NewHandle(apiKey string) *Handle {
	return &Handle{apiKey: strings.TrimSpace(apiKey)}
}

func (h *Handle) init() error {
	if h == nil || h.apiKey == "" {
		return ErrMissingAPIKey
	}
	h.once.Do(func() {
		stripe.Key = h.apiKey
	})
	return nil
}

// Provider talks to Stripe customers and setup intents.
type Provider struct {
	handle *Handle

	createCustomer     func(params *stripe.CustomerParams) (*stripe.Customer, error)
	createSetupIntent  func(params *stripe.SetupIntentParams) (*stripe.SetupIntent, error)
	confirmSetupIntent func(id string, params *stripe.SetupIntentConfirmParams) (*stripe.SetupIntent, error)
}

var _ domain.Provider = (*Provider)(nil)

// NewProvider creates a provider bound to handle.
func NewProvider(handle *Handle) *Provider {
	return &Provider{
		handle:             handle,
		createCustomer:     customer.New,
		createSetupIntent:  setupintent.New,
		confirmSetupIntent: setupintent.Confirm,
	}
}

// CreateCustomer creates a Stripe customer and returns its id.
func (p *Provider) CreateCustomer(ctx context.Context, req domain.CustomerRequest) (string, error) {
	if err := p.handle.init(); err != nil {
		return "", err
	}

	params := &stripe.CustomerParams{}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.Name != "" {
		params.Name = stripe.String(req.Name)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	c, err := p.createCustomer(params)
	if err != nil {
		return "", mapError(err)
	}
	return c.ID, nil
}

// CreateSetupIntent prepares an off-session card setup.
func (p *Provider) CreateSetupIntent(ctx context.Context, req domain.SetupIntentRequest) (*domain.SetupIntent, error) {
	if err := p.handle.init(); err != nil {
		return nil, err
	}

	params := &stripe.SetupIntentParams{
		Customer:           stripe.String(req.CustomerRef),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Usage:              stripe.String(string(stripe.SetupIntentUsageOffSession)),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	si, err := p.createSetupIntent(params)
	if err != nil {
		return nil, mapError(err)
	}
	return &domain.SetupIntent{
		ID:           si.ID,
		ClientSecret: si.ClientSecret,
		CustomerRef:  req.CustomerRef,
		Status:       string(si.Status),
	}, nil
}

// ConfirmSetupIntent confirms the intent with a payment method id.
func (p *Provider) ConfirmSetupIntent(ctx context.Context, req domain.ConfirmRequest) (*domain.ConfirmResult, error) {
	if err := p.handle.init(); err != nil {
		return nil, err
	}

	params := &stripe.SetupIntentConfirmParams{
		PaymentMethod: stripe.String(req.PaymentMethod),
	}
	params.Context = ctx

	si, err := p.confirmSetupIntent(req.IntentID, params)
	if err != nil {
		return nil, mapError(err)
	}

	result := &domain.ConfirmResult{Status: string(si.Status)}
	if si.PaymentMethod != nil {
		result.PaymentMethodRef = si.PaymentMethod.ID
	}
	return result, nil
}

// mapError turns a *stripe.Error into a *domain.ProviderError. Errors
// without a Stripe envelope are returned unchanged and treated as transient.
func mapError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return err
	}
	return &domain.ProviderError{
		Code:        string(se.Code),
		DeclineCode: string(se.DeclineCode),
		Message:     se.Msg,
		Temporary:   temporary(se),
	}
}

func temporary(se *stripe.Error) bool {
	if se.Type == stripe.ErrorTypeCard {
		return false
	}
	if se.HTTPStatusCode == http.StatusTooManyRequests || se.HTTPStatusCode >= http.StatusInternalServerError {
		return true
	}
	return se.Type == stripe.ErrorTypeAPI
}
