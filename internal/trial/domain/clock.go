package domain

import (
	"math"
	"time"
)

const warningWindowHours = 24

// Clock derives trial status. Duration is the length assumed when an
// organization has no recorded trial end.
type Clock struct {
	Duration time.Duration
}

// NewClock returns a clock for the given trial duration; zero means
// DefaultDuration.
func NewClock(duration time.Duration) Clock {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Clock{Duration: duration}
}

// Evaluate maps the organization snapshot and the current time to a status.
func (c Clock) Evaluate(now time.Time, s Snapshot) TrialStatus {
	hasPayment := s.HasPaymentMethod()

	if s.SubscriptionStatus == SubscriptionActive && s.SubscriptionTier != TierFree {
		return TrialStatus{Status: StatusConverted, HasPaymentMethod: hasPayment}
	}

	if s.TrialEndsAt == nil {
		duration := c.Duration
		if duration <= 0 {
			duration = DefaultDuration
		}
		hours := ceilHours(duration)
		return TrialStatus{
			Status:           StatusActive,
			HoursRemaining:   hours,
			DaysRemaining:    ceilDays(hours),
			HasPaymentMethod: hasPayment,
		}
	}

	endsAt := s.TrialEndsAt.UTC()
	hours := ceilHours(endsAt.Sub(now))
	status := TrialStatus{
		HoursRemaining:   hours,
		DaysRemaining:    ceilDays(hours),
		TrialEndsAt:      &endsAt,
		HasPaymentMethod: hasPayment,
	}

	switch {
	case hours > warningWindowHours:
		status.Status = StatusActive
	case hours > 0:
		status.Status = StatusExpiringSoon
		status.WarningLevel = warningFor(hours)
	default:
		status.Status = StatusExpired
		status.HoursRemaining = 0
		status.DaysRemaining = 0
		status.IsReadOnly = !hasPayment
	}
	return status
}

func warningFor(hours int) WarningLevel {
	switch {
	case hours <= 1:
		return WarningCritical
	case hours <= 6:
		return WarningHigh
	default:
		return WarningMedium
	}
}

func ceilHours(d time.Duration) int {
	return int(math.Ceil(d.Hours()))
}

func ceilDays(hours int) int {
	return int(math.Ceil(float64(hours) / 24))
}

// RefreshInterval is how often a countdown display should re-query.
func RefreshInterval(s TrialStatus) time.Duration {
	if s.Status != StatusConverted && s.HoursRemaining < warningWindowHours {
		return time.Minute
	}
	return time.Hour
}
