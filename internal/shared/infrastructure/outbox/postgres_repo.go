package outbox

import (
	"context"
	"time"

	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
)

const insertMessageSQL = `
	INSERT INTO outbox (
		event_id, aggregate_type, aggregate_id, routing_key,
		payload, metadata, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id`

const selectPendingSQL = `
	SELECT id, event_id, aggregate_type, aggregate_id, routing_key,
	       payload, metadata, created_at, published_at, next_retry_at,
	       retry_count, last_error, dead_lettered_at, dead_letter_reason
	FROM outbox
	WHERE published_at IS NULL
	  AND dead_lettered_at IS NULL
	  AND (next_retry_at IS NULL OR next_retry_at <= $1)
	ORDER BY created_at, id
	LIMIT $2`

const (
	markPublishedSQL = `UPDATE outbox SET published_at = $2 WHERE id = $1`
	markFailedSQL    = `UPDATE outbox SET retry_count = retry_count + 1, last_error = $2, next_retry_at = $3 WHERE id = $1`
	markDeadSQL      = `UPDATE outbox SET dead_lettered_at = $3, dead_letter_reason = $2 WHERE id = $1`
	purgeSQL         = `DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < $1`
)

// PostgresRepository stores the outbox in PostgreSQL.
type PostgresRepository struct {
	conn database.Connection
}

// NewPostgresRepository creates a PostgreSQL outbox repository.
func NewPostgresRepository(conn database.Connection) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) Save(ctx context.Context, msgs ...*Message) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, msg := range msgs {
		err := exec.QueryRow(ctx, insertMessageSQL,
			msg.EventID,
			msg.AggregateType,
			msg.AggregateID,
			msg.RoutingKey,
			[]byte(msg.Payload),
			[]byte(msg.Metadata),
			msg.CreatedAt,
		).Scan(&msg.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresRepository) Pending(ctx context.Context, now time.Time, limit int) ([]*Message, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, selectPendingSQL, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var msg Message
		var payload, metadata []byte
		if err := rows.Scan(
			&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.RoutingKey,
			&payload, &metadata, &msg.CreatedAt, &msg.PublishedAt, &msg.NextRetryAt,
			&msg.RetryCount, &msg.LastError, &msg.DeadLetteredAt, &msg.DeadLetterReason,
		); err != nil {
			return nil, err
		}
		msg.Payload, msg.Metadata = payload, metadata
		out = append(out, &msg)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, markPublishedSQL, id, at)
	return err
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, markFailedSQL, id, reason, nextRetryAt)
	return err
}

func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string, at time.Time) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, markDeadSQL, id, reason, at)
	return err
}

func (r *PostgresRepository) Purge(ctx context.Context, publishedBefore time.Time) (int64, error) {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, purgeSQL, publishedBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ Repository = (*PostgresRepository)(nil)
