package stripe

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *Provider {
	return NewProvider(NewHandle(" sk_test_123 "))
}

func TestProvider_CreateCustomer(t *testing.T) {
	p := newTestProvider()
	var got *stripe.CustomerParams
	p.createCustomer = func(params *stripe.CustomerParams) (*stripe.Customer, error) {
		got = params
		return &stripe.Customer{ID: "cus_123"}, nil
	}

	ref, err := p.CreateCustomer(context.Background(), domain.CustomerRequest{
		Email:    "ops@example.com",
		Name:     "Acme Rentals",
		Metadata: map[string]string{"source": "setup_intent"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cus_123", ref)
	assert.Equal(t, "sk_test_123", stripe.Key)
	assert.Equal(t, "ops@example.com", *got.Email)
	assert.Equal(t, "setup_intent", got.Metadata["source"])
	assert.NotNil(t, got.Context)
}

func TestProvider_CreateSetupIntent(t *testing.T) {
	p := newTestProvider()
	var got *stripe.SetupIntentParams
	p.createSetupIntent = func(params *stripe.SetupIntentParams) (*stripe.SetupIntent, error) {
		got = params
		return &stripe.SetupIntent{
			ID:           "seti_1",
			ClientSecret: "seti_1_secret_abc",
			Status:       stripe.SetupIntentStatusRequiresPaymentMethod,
		}, nil
	}

	intent, err := p.CreateSetupIntent(context.Background(), domain.SetupIntentRequest{
		CustomerRef: "cus_123",
		Metadata:    map[string]string{"userId": "u1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "seti_1_secret_abc", intent.ClientSecret)
	assert.Equal(t, "cus_123", *got.Customer)
	assert.Equal(t, "off_session", *got.Usage)
	require.Len(t, got.PaymentMethodTypes, 1)
	assert.Equal(t, "card", *got.PaymentMethodTypes[0])
}

func TestProvider_ConfirmSetupIntent(t *testing.T) {
	p := newTestProvider()
	p.confirmSetupIntent = func(id string, params *stripe.SetupIntentConfirmParams) (*stripe.SetupIntent, error) {
		assert.Equal(t, "seti_1", id)
		assert.Equal(t, "pm_card_visa", *params.PaymentMethod)
		return &stripe.SetupIntent{
			ID:            id,
			Status:        stripe.SetupIntentStatusSucceeded,
			PaymentMethod: &stripe.PaymentMethod{ID: "pm_123"},
		}, nil
	}

	res, err := p.ConfirmSetupIntent(context.Background(), domain.ConfirmRequest{
		IntentID:      "seti_1",
		PaymentMethod: "pm_card_visa",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.IntentSucceeded, res.Status)
	assert.Equal(t, "pm_123", res.PaymentMethodRef)
}

func TestProvider_MissingKey(t *testing.T) {
	p := NewProvider(NewHandle(""))

	_, err := p.CreateCustomer(context.Background(), domain.CustomerRequest{})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name      string
		err       *stripe.Error
		temporary bool
	}{
		{"card decline", &stripe.Error{Type: stripe.ErrorTypeCard, Code: "card_declined", DeclineCode: "insufficient_funds", HTTPStatusCode: http.StatusPaymentRequired}, false},
		{"rate limit", &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, Code: "rate_limit", HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"api error", &stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: http.StatusInternalServerError}, true},
		{"invalid request", &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, Code: "resource_missing", HTTPStatusCode: http.StatusNotFound}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pe *domain.ProviderError
			require.ErrorAs(t, mapError(tt.err), &pe)
			assert.Equal(t, tt.temporary, pe.Temporary)
			assert.Equal(t, string(tt.err.Code), pe.Code)
			assert.Equal(t, string(tt.err.DeclineCode), pe.DeclineCode)
		})
	}

	plain := errors.New("dial tcp: i/o timeout")
	assert.Same(t, plain, mapError(plain))
}
