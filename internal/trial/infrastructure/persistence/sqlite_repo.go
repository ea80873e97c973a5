package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/google/uuid"
)

// SQLiteReminderRepository implements domain.ReminderRepository with SQLite.
type SQLiteReminderRepository struct {
	conn database.Connection
}

var _ domain.ReminderRepository = (*SQLiteReminderRepository)(nil)

// NewSQLiteReminderRepository creates a new repository.
func NewSQLiteReminderRepository(conn database.Connection) *SQLiteReminderRepository {
	return &SQLiteReminderRepository{conn: conn}
}

func (r *SQLiteReminderRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Record stores the reminder unless it was already sent that day.
func (r *SQLiteReminderRepository) Record(ctx context.Context, rem domain.Reminder) (bool, error) {
	res, err := r.exec(ctx).Exec(ctx, insertReminderSQL,
		rem.OrganizationID.String(),
		rem.Key,
		rem.SentOn.UTC().Format(sentOnLayout),
		database.FormatTime(rem.CreatedAt),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether the reminder was sent on sentOn.
func (r *SQLiteReminderRepository) Exists(ctx context.Context, orgID uuid.UUID, key string, sentOn time.Time) (bool, error) {
	var exists bool
	err := r.exec(ctx).QueryRow(ctx, reminderExistsSQL, orgID.String(), key, sentOn.UTC().Format(sentOnLayout)).Scan(&exists)
	return exists, err
}
