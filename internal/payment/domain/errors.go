package domain

import "errors"

var (
	// ErrPaymentFormUnavailable means a setup intent could not be created.
	ErrPaymentFormUnavailable = errors.New("payment form unavailable")

	// ErrStaleSetupIntent means the client secret is not the outstanding one.
	ErrStaleSetupIntent = errors.New("setup intent is no longer active")

	// ErrNoSetupSession means the account has no outstanding form session.
	ErrNoSetupSession = errors.New("no payment setup in progress")

	// ErrAccountRequired means a request carried no account id.
	ErrAccountRequired = errors.New("account id is required")

	// ErrPaymentMethodRequired means confirmation carried no payment method.
	ErrPaymentMethodRequired = errors.New("payment method is required")
)

const (
	formUnavailableMessage = "Unable to initialize payment form. Please try again."
	staleIntentMessage     = "This payment form has expired. Please start again."
	noSessionMessage       = "No payment setup is in progress. Please start again."
	unexpectedMessage      = "An unexpected error occurred."
)

type userMessager interface {
	UserMessage() string
}

// UserMessage returns the sanitized text for any payment error.
func UserMessage(err error) string {
	var um userMessager
	switch {
	case err == nil:
		return ""
	case errors.As(err, &um):
		return um.UserMessage()
	case errors.Is(err, ErrPaymentFormUnavailable):
		return formUnavailableMessage
	case errors.Is(err, ErrStaleSetupIntent):
		return staleIntentMessage
	case errors.Is(err, ErrNoSetupSession):
		return noSessionMessage
	default:
		return unexpectedMessage
	}
}
