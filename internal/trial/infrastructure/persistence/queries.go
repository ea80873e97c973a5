// Package persistence stores sent trial reminders in PostgreSQL or SQLite.
package persistence

const (
	insertReminderSQL = `
		INSERT INTO trial_reminders (organization_id, reminder_key, sent_on, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, reminder_key, sent_on) DO NOTHING`

	reminderExistsSQL = `
		SELECT EXISTS (
			SELECT 1 FROM trial_reminders
			WHERE organization_id = $1 AND reminder_key = $2 AND sent_on = $3
		)`
)

// sentOnLayout is the SQLite rendering of a reminder day.
const sentOnLayout = "2006-01-02"
