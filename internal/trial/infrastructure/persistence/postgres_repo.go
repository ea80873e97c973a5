package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/google/uuid"
)

// PostgresReminderRepository implements domain.ReminderRepository with
// PostgreSQL.
type PostgresReminderRepository struct {
	conn database.Connection
}

var _ domain.ReminderRepository = (*PostgresReminderRepository)(nil)

// NewPostgresReminderRepository creates a new repository.
func NewPostgresReminderRepository(conn database.Connection) *PostgresReminderRepository {
	return &PostgresReminderRepository{conn: conn}
}

func (r *PostgresReminderRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Record stores the reminder unless it was already sent that day.
func (r *PostgresReminderRepository) Record(ctx context.Context, rem domain.Reminder) (bool, error) {
	res, err := r.exec(ctx).Exec(ctx, insertReminderSQL, rem.OrganizationID, rem.Key, day(rem.SentOn), rem.CreatedAt)
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
func (r *PostgresReminderRepository) Exists(ctx context.Context, orgID uuid.UUID, key string, sentOn time.Time) (bool, error) {
	var exists bool
	err := r.exec(ctx).QueryRow(ctx, reminderExistsSQL, orgID, key, day(sentOn)).Scan(&exists)
	return exists, err
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
