package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDecline(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		declineCode string
		category    domain.DeclineCategory
		message     string
	}{
		{"insufficient funds decline", "card_declined", "insufficient_funds", domain.CategoryInsufficientFunds, "Insufficient funds. Please try a different card."},
		{"generic decline", "card_declined", "generic_decline", domain.CategoryCardDeclined, "Your card was declined. Please contact your bank or try a different card."},
		{"stolen card", "card_declined", "stolen_card", domain.CategoryFraud, "This card has been reported stolen. Please use a different card."},
		{"do not honor", "card_declined", "do_not_honor", domain.CategoryFraud, "Your bank declined this transaction. Please contact them or try a different card."},
		{"authentication", "card_declined", "authentication_required", domain.CategoryAuthenticationRequired, "Additional authentication is required. Please try again."},
		{"unknown decline falls back to code", "card_declined", "new_issuer_code", domain.CategoryCardDeclined, "Your card was declined. Please try a different card."},
		{"expired card", "expired_card", "", domain.CategoryExpiredCard, "Your card has expired. Please use a different card."},
		{"invalid expiry month", "invalid_expiry_month", "", domain.CategoryExpiredCard, "The expiration month is invalid."},
		{"incorrect cvc", "incorrect_cvc", "", domain.CategoryIncorrectCVC, "The CVC code is incorrect. Please check and try again."},
		{"incorrect number", "incorrect_number", "", domain.CategoryIncorrectNumber, "The card number is incorrect. Please check and try again."},
		{"rate limit", "rate_limit", "", domain.CategoryRateLimit, "Too many attempts. Please wait a moment and try again."},
		{"processing error", "processing_error", "", domain.CategoryProcessingError, "There was an error processing your card. Please try again."},
		{"unknown everything", "mystery", "", domain.CategoryGeneric, "An error occurred. Please try again."},
		{"empty", "", "", domain.CategoryGeneric, "An error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ClassifyDecline(tt.code, tt.declineCode)

			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.message, err.UserMessage())
			assert.True(t, err.Retryable())
		})
	}
}

func TestUserMessage_NeverLeaksProviderText(t *testing.T) {
	raw := &domain.ProviderError{Code: "card_declined", DeclineCode: "insufficient_funds", Message: "Your card has insufficient funds. (req_abc123)"}
	decline := domain.ClassifyDecline(raw.Code, raw.DeclineCode)

	msg := domain.UserMessage(fmt.Errorf("confirm: %w", decline))

	assert.Equal(t, "Insufficient funds. Please try a different card.", msg)
	assert.NotContains(t, msg, "req_abc123")
	assert.NotContains(t, decline.Error(), raw.Message)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", domain.UserMessage(nil))
	assert.Equal(t, "Unable to initialize payment form. Please try again.",
		domain.UserMessage(fmt.Errorf("%w: stripe 500", domain.ErrPaymentFormUnavailable)))
	assert.Equal(t, "This payment form has expired. Please start again.", domain.UserMessage(domain.ErrStaleSetupIntent))
	assert.Equal(t, "An unexpected error occurred.", domain.UserMessage(errors.New("socket hang up")))
}

func TestNewDeclineError(t *testing.T) {
	assert.Equal(t, domain.CategoryProcessingError, domain.NewDeclineError(domain.CategoryProcessingError).Category)
	assert.Equal(t, domain.CategoryGeneric, domain.NewDeclineError(domain.CategoryFraud).Category)
}

func TestFormSession_RecordFailure(t *testing.T) {
	s := &domain.FormSession{}

	s.RecordFailure()
	assert.False(t, s.ShowStartFresh)

	s.RecordFailure()
	assert.True(t, s.ShowStartFresh)
	assert.Equal(t, 2, s.Failures)
}
