package domain

import (
	"time"

	"github.com/google/uuid"
)

// StartFreshAfter is the number of failed confirmations after which the
// form offers to start over with a new card.
const StartFreshAfter = 2

// FormSession is one embedded payment form. A new ID means the form must be
// torn down and recreated.
type FormSession struct {
	ID             uuid.UUID `json:"id"`
	AccountID      uuid.UUID `json:"account_id"`
	UserID         uuid.UUID `json:"user_id"`
	ClientSecret   string    `json:"client_secret"`
	IntentID       string    `json:"intent_id"`
	CustomerRef    string    `json:"customer_ref"`
	Attempt        int       `json:"attempt"`
	Failures       int       `json:"failures"`
	ShowStartFresh bool      `json:"show_start_fresh"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecordFailure counts a failed confirmation.
func (s *FormSession) RecordFailure() {
	s.Failures++
	s.ShowStartFresh = s.Failures >= StartFreshAfter
}

// PaymentMethodReference is the opaque result of a successful setup.
type PaymentMethodReference struct {
	PaymentMethodRef string `json:"payment_method_ref"`
	SetupIntentID    string `json:"setup_intent_id"`
	CustomerRef      string `json:"customer_ref"`
}
