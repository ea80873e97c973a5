package persistence

import (
	"context"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresRecordRepository implements domain.RecordRepository with PostgreSQL.
type PostgresRecordRepository struct {
	conn database.Connection
}

// NewPostgresRecordRepository creates a new repository.
func NewPostgresRecordRepository(conn database.Connection) *PostgresRecordRepository {
	return &PostgresRecordRepository{conn: conn}
}

func (r *PostgresRecordRepository) CreateTrialSubscription(ctx context.Context, sub domain.TrialSubscription) error {
	metadata, err := encodeMetadata(sub.Metadata)
	if err != nil {
		return err
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, insertTrialSubscriptionSQL,
		sub.ID, sub.OrganizationID, sub.Status, sub.Plan,
		sub.TrialStart, sub.TrialEnd, metadata, sub.CreatedAt,
	)
	return err
}

func (r *PostgresRecordRepository) FindTrialSubscription(ctx context.Context, orgID uuid.UUID) (*domain.TrialSubscription, error) {
	var (
		sub      domain.TrialSubscription
		metadata []byte
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, selectTrialSubscriptionSQL, orgID).Scan(
		&sub.ID, &sub.OrganizationID, &sub.Status, &sub.Plan,
		&sub.TrialStart, &sub.TrialEnd, &metadata, &sub.CreatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	if sub.Metadata, err = decodeMetadata(metadata); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *PostgresRecordRepository) AppendAudit(ctx context.Context, e domain.AuditEntry) error {
	metadata, err := encodeMetadata(e.Metadata)
	if err != nil {
		return err
	}
	var actor *uuid.UUID
	if e.ActorUserID != uuid.Nil {
		actor = &e.ActorUserID
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, insertAuditSQL,
		e.ID, e.OrganizationID, actor, e.Action, e.EntityType, e.EntityID.String(), metadata, e.CreatedAt,
	)
	return err
}

func (r *PostgresRecordRepository) ListAudit(ctx context.Context, orgID uuid.UUID) ([]domain.AuditEntry, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, selectAuditSQL, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e        domain.AuditEntry
			actor    *uuid.UUID
			entityID string
			metadata []byte
		)
		if err := rows.Scan(&e.ID, &e.OrganizationID, &actor, &e.Action, &e.EntityType, &entityID, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		if actor != nil {
			e.ActorUserID = *actor
		}
		e.EntityID, _ = uuid.Parse(entityID)
		if e.Metadata, err = decodeMetadata(metadata); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ domain.RecordRepository = (*PostgresRecordRepository)(nil)
