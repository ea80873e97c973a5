package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReminderSubject(t *testing.T) {
	assert.Equal(t, "Your Trial Has Ended", ReminderSubject(0))
	assert.Equal(t, "Your Trial Ends Tomorrow!", ReminderSubject(1))
	assert.Equal(t, "3 Days Left in Your Trial", ReminderSubject(3))
	assert.Equal(t, "trial_reminder_3d", ReminderKey(3))
}

func TestDayWindow(t *testing.T) {
	now := time.Date(2026, 7, 30, 22, 15, 0, 0, time.FixedZone("EST", -5*3600))

	from, to := DayWindow(now, 3)

	// 22:15 EST is already the 31st in UTC.
	assert.Equal(t, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC), to)
}

func TestNewReminderDue(t *testing.T) {
	orgID := uuid.New()
	ends := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

	e := NewReminderDue(orgID, "Acme", uuid.New(), 0, ends, ends)

	assert.Equal(t, RoutingKeyReminderDue, e.RoutingKey())
	assert.Equal(t, orgID, e.AggregateID())
	assert.True(t, e.Expired)
	assert.Equal(t, "trial_reminder_0d", e.ReminderKey)
}
