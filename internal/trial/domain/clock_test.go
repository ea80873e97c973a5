package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var endsAt = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func trialing(ref string) domain.Snapshot {
	end := endsAt
	return domain.Snapshot{
		SubscriptionStatus: domain.SubscriptionTrialing,
		SubscriptionTier:   domain.TierFree,
		TrialEndsAt:        &end,
		PaymentCustomerRef: ref,
	}
}

func TestClock_Evaluate(t *testing.T) {
	clock := domain.NewClock(0)

	tests := []struct {
		name     string
		now      time.Time
		snapshot domain.Snapshot
		status   domain.Status
		warning  domain.WarningLevel
		readOnly bool
		hours    int
	}{
		{"25h left is active", endsAt.Add(-25 * time.Hour), trialing(""), domain.StatusActive, domain.WarningNone, false, 25},
		{"23h left is medium", endsAt.Add(-23 * time.Hour), trialing(""), domain.StatusExpiringSoon, domain.WarningMedium, false, 23},
		{"exactly 24h is expiring", endsAt.Add(-24 * time.Hour), trialing(""), domain.StatusExpiringSoon, domain.WarningMedium, false, 24},
		{"5h left is high", endsAt.Add(-5 * time.Hour), trialing(""), domain.StatusExpiringSoon, domain.WarningHigh, false, 5},
		{"6h left is high", endsAt.Add(-6 * time.Hour), trialing(""), domain.StatusExpiringSoon, domain.WarningHigh, false, 6},
		{"30m left is critical", endsAt.Add(-30 * time.Minute), trialing(""), domain.StatusExpiringSoon, domain.WarningCritical, false, 1},
		{"partial hour rounds up", endsAt.Add(-90 * time.Minute), trialing(""), domain.StatusExpiringSoon, domain.WarningHigh, false, 2},
		{"expired without payment is read only", endsAt.Add(time.Hour), trialing(""), domain.StatusExpired, domain.WarningNone, true, 0},
		{"expired with payment stays writable", endsAt.Add(time.Hour), trialing("cus_123"), domain.StatusExpired, domain.WarningNone, false, 0},
		{"at the boundary is expired", endsAt, trialing(""), domain.StatusExpired, domain.WarningNone, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clock.Evaluate(tt.now, tt.snapshot)

			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.warning, got.WarningLevel)
			assert.Equal(t, tt.readOnly, got.IsReadOnly)
			assert.Equal(t, tt.hours, got.HoursRemaining)
			assert.Equal(t, tt.snapshot.PaymentCustomerRef != "", got.HasPaymentMethod)
		})
	}
}

func TestClock_EvaluateConverted(t *testing.T) {
	snap := trialing("")
	snap.SubscriptionStatus = domain.SubscriptionActive
	snap.SubscriptionTier = "team"

	got := domain.NewClock(0).Evaluate(endsAt.Add(30*24*time.Hour), snap)

	assert.Equal(t, domain.StatusConverted, got.Status)
	assert.False(t, got.IsReadOnly)
	assert.Nil(t, got.TrialEndsAt)
}

func TestClock_EvaluateActiveFreeTierIsNotConverted(t *testing.T) {
	snap := trialing("")
	snap.SubscriptionStatus = domain.SubscriptionActive

	got := domain.NewClock(0).Evaluate(endsAt.Add(time.Hour), snap)

	assert.Equal(t, domain.StatusExpired, got.Status)
}

func TestClock_EvaluateWithoutTrialEnd(t *testing.T) {
	got := domain.NewClock(72*time.Hour).Evaluate(endsAt, domain.Snapshot{SubscriptionStatus: domain.SubscriptionTrialing})

	assert.Equal(t, domain.StatusActive, got.Status)
	assert.Equal(t, 72, got.HoursRemaining)
	assert.Equal(t, 3, got.DaysRemaining)
	assert.Nil(t, got.TrialEndsAt)
}

func TestClock_DaysRemaining(t *testing.T) {
	got := domain.NewClock(0).Evaluate(endsAt.Add(-47*time.Hour), trialing(""))

	require.Equal(t, domain.StatusActive, got.Status)
	assert.Equal(t, 2, got.DaysRemaining)
	require.NotNil(t, got.TrialEndsAt)
	assert.Equal(t, endsAt, *got.TrialEndsAt)
}

func TestClock_NeverProducesGracePeriod(t *testing.T) {
	clock := domain.NewClock(0)
	for h := -72; h <= 72; h++ {
		got := clock.Evaluate(endsAt.Add(time.Duration(h)*time.Hour), trialing(""))
		assert.NotEqual(t, domain.StatusGracePeriod, got.Status)
	}
}

func TestRefreshInterval(t *testing.T) {
	assert.Equal(t, time.Minute, domain.RefreshInterval(domain.TrialStatus{Status: domain.StatusExpiringSoon, HoursRemaining: 23}))
	assert.Equal(t, time.Minute, domain.RefreshInterval(domain.TrialStatus{Status: domain.StatusExpired}))
	assert.Equal(t, time.Hour, domain.RefreshInterval(domain.TrialStatus{Status: domain.StatusActive, HoursRemaining: 24}))
	assert.Equal(t, time.Hour, domain.RefreshInterval(domain.TrialStatus{Status: domain.StatusConverted}))
}
