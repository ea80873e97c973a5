package persistence

import (
	"context"
	"database/sql"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteRecordRepository implements domain.RecordRepository with SQLite.
type SQLiteRecordRepository struct {
	conn database.Connection
}

// NewSQLiteRecordRepository creates a new repository.
func NewSQLiteRecordRepository(conn database.Connection) *SQLiteRecordRepository {
	return &SQLiteRecordRepository{conn: conn}
}

func (r *SQLiteRecordRepository) CreateTrialSubscription(ctx context.Context, sub domain.TrialSubscription) error {
	metadata, err := encodeMetadata(sub.Metadata)
	if err != nil {
		return err
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, insertTrialSubscriptionSQL,
		sub.ID.String(), sub.OrganizationID.String(), sub.Status, sub.Plan,
		database.FormatTime(sub.TrialStart), database.FormatTime(sub.TrialEnd),
		string(metadata), database.FormatTime(sub.CreatedAt),
	)
	return err
}

func (r *SQLiteRecordRepository) FindTrialSubscription(ctx context.Context, orgID uuid.UUID) (*domain.TrialSubscription, error) {
	var (
		sub                          domain.TrialSubscription
		id, org, metadata            string
		trialStart, trialEnd, create string
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, selectTrialSubscriptionSQL, orgID.String()).Scan(
		&id, &org, &sub.Status, &sub.Plan, &trialStart, &trialEnd, &metadata, &create,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	if sub.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if sub.OrganizationID, err = uuid.Parse(org); err != nil {
		return nil, err
	}
	if sub.TrialStart, err = database.ParseTime(trialStart); err != nil {
		return nil, err
	}
	if sub.TrialEnd, err = database.ParseTime(trialEnd); err != nil {
		return nil, err
	}
	if sub.CreatedAt, err = database.ParseTime(create); err != nil {
		return nil, err
	}
	if sub.Metadata, err = decodeMetadata([]byte(metadata)); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SQLiteRecordRepository) AppendAudit(ctx context.Context, e domain.AuditEntry) error {
	metadata, err := encodeMetadata(e.Metadata)
	if err != nil {
		return err
	}
	var actor sql.NullString
	if e.ActorUserID != uuid.Nil {
		actor = sql.NullString{String: e.ActorUserID.String(), Valid: true}
	}
	_, err = database.ExecutorFromContext(ctx, r.conn).Exec(ctx, insertAuditSQL,
		e.ID.String(), e.OrganizationID.String(), actor, e.Action, e.EntityType,
		e.EntityID.String(), string(metadata), database.FormatTime(e.CreatedAt),
	)
	return err
}

func (r *SQLiteRecordRepository) ListAudit(ctx context.Context, orgID uuid.UUID) ([]domain.AuditEntry, error) {
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, selectAuditSQL, orgID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var (
			e                                domain.AuditEntry
			id, org, entityID, meta, created string
			actor                            sql.NullString
		)
		if err := rows.Scan(&id, &org, &actor, &e.Action, &e.EntityType, &entityID, &meta, &created); err != nil {
			return nil, err
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if e.OrganizationID, err = uuid.Parse(org); err != nil {
			return nil, err
		}
		if actor.Valid {
			e.ActorUserID, _ = uuid.Parse(actor.String)
		}
		e.EntityID, _ = uuid.Parse(entityID)
		if e.CreatedAt, err = database.ParseTime(created); err != nil {
			return nil, err
		}
		if e.Metadata, err = decodeMetadata([]byte(meta)); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ domain.RecordRepository = (*SQLiteRecordRepository)(nil)
