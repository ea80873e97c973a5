package domain

import (
	"context"
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/google/uuid"
)

// DefaultReminderDays are the days before trial end that get a reminder.
var DefaultReminderDays = []int{3, 1, 0}

// AggregateType is the outbox aggregate type of trial events.
const AggregateType = "trial"

// RoutingKeyReminderDue is published for every reminder to send.
const RoutingKeyReminderDue = "trial.reminder_due"

// ReminderKey names the reminder sent days before the trial ends.
func ReminderKey(days int) string {
	return fmt.Sprintf("trial_reminder_%dd", days)
}

// ReminderSubject is the subject line for a reminder.
func ReminderSubject(days int) string {
	switch days {
	case 0:
		return "Your Trial Has Ended"
	case 1:
		return "Your Trial Ends Tomorrow!"
	default:
		return fmt.Sprintf("%d Days Left in Your Trial", days)
	}
}

// DayWindow returns the UTC day that lies days after now, as [from, to).
func DayWindow(now time.Time, days int) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return from, from.AddDate(0, 0, 1)
}

// Reminder records that a reminder went out for an organization on a day.
type Reminder struct {
	OrganizationID uuid.UUID
	Key            string
	SentOn         time.Time
	CreatedAt      time.Time
}

// ReminderRepository deduplicates reminders per organization, key and day.
type ReminderRepository interface {
	// Record stores r and reports false when it was already recorded.
	Record(ctx context.Context, r Reminder) (bool, error)
	Exists(ctx context.Context, orgID uuid.UUID, key string, sentOn time.Time) (bool, error)
}

// ReminderDue asks a notifier to remind the owner that the trial ends.
type ReminderDue struct {
	sharedDomain.BaseEvent
	OrganizationID   uuid.UUID `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	OwnerUserID      uuid.UUID `json:"owner_user_id"`
	DaysRemaining    int       `json:"days_remaining"`
	ReminderKey      string    `json:"reminder_key"`
	Subject          string    `json:"subject"`
	TrialEndsAt      time.Time `json:"trial_ends_at"`
	Expired          bool      `json:"expired"`
}

// NewReminderDue creates the event for one reminder.
func NewReminderDue(orgID uuid.UUID, name string, owner uuid.UUID, days int, trialEndsAt, at time.Time) *ReminderDue {
	return &ReminderDue{
		BaseEvent:        sharedDomain.NewBaseEvent(orgID, AggregateType, RoutingKeyReminderDue, at),
		OrganizationID:   orgID,
		OrganizationName: name,
		OwnerUserID:      owner,
		DaysRemaining:    days,
		ReminderKey:      ReminderKey(days),
		Subject:          ReminderSubject(days),
		TrialEndsAt:      trialEndsAt,
		Expired:          days == 0,
	}
}
