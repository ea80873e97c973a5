package domain

import "fmt"

// DeclineCategory groups provider failures into what the user can act on.
type DeclineCategory string

const (
	CategoryCardDeclined           DeclineCategory = "card_declined"
	CategoryInsufficientFunds      DeclineCategory = "insufficient_funds"
	CategoryExpiredCard            DeclineCategory = "expired_card"
	CategoryIncorrectNumber        DeclineCategory = "incorrect_number"
	CategoryIncorrectCVC           DeclineCategory = "incorrect_cvc"
	CategoryFraud                  DeclineCategory = "fraud"
	CategoryAuthenticationRequired DeclineCategory = "authentication_required"
	CategoryRateLimit              DeclineCategory = "rate_limit"
	CategoryProcessingError        DeclineCategory = "processing_error"
	CategoryGeneric                DeclineCategory = "generic"
)

type declineEntry struct {
	category DeclineCategory
	message  string
}

// declineCodeTable is consulted first, keyed by the issuer decline code.
var declineCodeTable = map[string]declineEntry{
	"generic_decline":         {CategoryCardDeclined, "Your card was declined. Please contact your bank or try a different card."},
	"insufficient_funds":      {CategoryInsufficientFunds, "Insufficient funds. Please try a different card."},
	"lost_card":               {CategoryFraud, "This card has been reported lost. Please use a different card."},
	"stolen_card":             {CategoryFraud, "This card has been reported stolen. Please use a different card."},
	"fraudulent":              {CategoryFraud, "This transaction was flagged. Please contact your bank."},
	"do_not_honor":            {CategoryFraud, "Your bank declined this transaction. Please contact them or try a different card."},
	"do_not_try_again":        {CategoryFraud, "Your bank declined this transaction. Please use a different card."},
	"authentication_required": {CategoryAuthenticationRequired, "Additional authentication is required. Please try again."},
}

// errorCodeTable is keyed by the provider error code.
var errorCodeTable = map[string]declineEntry{
	"card_declined":                       {CategoryCardDeclined, "Your card was declined. Please try a different card."},
	"insufficient_funds":                  {CategoryInsufficientFunds, "Insufficient funds. Please try a different card."},
	"expired_card":                        {CategoryExpiredCard, "Your card has expired. Please use a different card."},
	"invalid_expiry_month":                {CategoryExpiredCard, "The expiration month is invalid."},
	"invalid_expiry_year":                 {CategoryExpiredCard, "The expiration year is invalid."},
	"incorrect_cvc":                       {CategoryIncorrectCVC, "The CVC code is incorrect. Please check and try again."},
	"invalid_cvc":                         {CategoryIncorrectCVC, "The CVC code is incorrect. Please check and try again."},
	"incorrect_number":                    {CategoryIncorrectNumber, "The card number is incorrect. Please check and try again."},
	"invalid_number":                      {CategoryIncorrectNumber, "The card number is incorrect. Please check and try again."},
	"processing_error":                    {CategoryProcessingError, "There was an error processing your card. Please try again."},
	"rate_limit":                          {CategoryRateLimit, "Too many attempts. Please wait a moment and try again."},
	"authentication_required":             {CategoryAuthenticationRequired, "Additional authentication is required. Please try again."},
	"setup_intent_authentication_failure": {CategoryAuthenticationRequired, "Additional authentication is required. Please try again."},
}

var genericEntry = declineEntry{CategoryGeneric, "An error occurred. Please try again."}

// DeclineError is a payment setup rejection mapped to a fixed category and
// message. The provider's own message is never exposed through it.
type DeclineError struct {
	Category    DeclineCategory
	Code        string
	DeclineCode string
	message     string
}

// ClassifyDecline maps provider codes to a DeclineError. The decline code
// wins over the error code; unknown keys fall back to the generic entry.
func ClassifyDecline(code, declineCode string) *DeclineError {
	entry, ok := declineCodeTable[declineCode]
	if !ok {
		entry, ok = errorCodeTable[code]
	}
	if !ok {
		entry = genericEntry
	}
	return &DeclineError{
		Category:    entry.category,
		Code:        code,
		DeclineCode: declineCode,
		message:     entry.message,
	}
}

// NewDeclineError returns the fixed entry for category.
func NewDeclineError(category DeclineCategory) *DeclineError {
	entry, ok := errorCodeTable[string(category)]
	if !ok {
		entry = genericEntry
	}
	return &DeclineError{Category: entry.category, Code: string(category), message: entry.message}
}

func (e *DeclineError) Error() string {
	return fmt.Sprintf("payment setup declined: %s (code=%q decline_code=%q)", e.Category, e.Code, e.DeclineCode)
}

// UserMessage is the sanitized text shown to the user.
func (e *DeclineError) UserMessage() string {
	return e.message
}

// Retryable reports whether the user may try again with the same form.
// Every decline lets the user try again; rate limits ask them to wait.
func (e *DeclineError) Retryable() bool {
	return true
}
