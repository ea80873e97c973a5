// Package domain derives trial state from organization billing fields and
// decides which actions that state permits.
package domain

import "time"

// Status is the derived trial state of an organization.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	// StatusGracePeriod is reserved. Evaluate never produces it while the
	// grace window is zero.
	StatusGracePeriod Status = "grace_period"
	StatusExpired     Status = "expired"
	StatusConverted   Status = "converted"
)

// WarningLevel grades how close an expiring trial is to its end.
type WarningLevel string

const (
	WarningNone     WarningLevel = ""
	WarningMedium   WarningLevel = "medium"
	WarningHigh     WarningLevel = "high"
	WarningCritical WarningLevel = "critical"
)

// DefaultDuration is the trial length granted at provisioning.
const DefaultDuration = 48 * time.Hour

// Subscription fields the clock reads.
const (
	SubscriptionActive   = "active"
	SubscriptionTrialing = "trialing"
	TierFree             = "free"
)

// Snapshot is the subset of organization state the trial clock needs.
type Snapshot struct {
	SubscriptionStatus string
	SubscriptionTier   string
	TrialEndsAt        *time.Time
	PaymentCustomerRef string
}

// HasPaymentMethod reports whether a payment customer is on file.
func (s Snapshot) HasPaymentMethod() bool {
	return s.PaymentCustomerRef != ""
}

// TrialStatus is recomputed on every query and never persisted.
type TrialStatus struct {
	Status             Status       `json:"status"`
	HoursRemaining     int          `json:"hours_remaining"`
	DaysRemaining      int          `json:"days_remaining"`
	GraceDaysRemaining int          `json:"grace_days_remaining,omitempty"`
	TrialEndsAt        *time.Time   `json:"trial_ends_at,omitempty"`
	IsReadOnly         bool         `json:"is_read_only"`
	HasPaymentMethod   bool         `json:"has_payment_method"`
	WarningLevel       WarningLevel `json:"warning_level,omitempty"`
}
