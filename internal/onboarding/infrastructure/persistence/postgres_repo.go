package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresRepository implements the progress and settings repositories
// with PostgreSQL.
type PostgresRepository struct {
	conn database.Connection
}

var (
	_ domain.ProgressRepository  = (*PostgresRepository)(nil)
	_ domain.ChecklistRepository = (*PostgresChecklistRepository)(nil)
	_ domain.SettingsRepository  = (*PostgresRepository)(nil)
)

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(conn database.Connection) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

func (r *PostgresRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Find returns the user's progress or nil.
func (r *PostgresRepository) Find(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	var (
		p                          domain.Progress
		orgID                      uuid.NullUUID
		step, choice               string
		completed, skipped, answer []byte
	)
	err := r.exec(ctx).QueryRow(ctx, selectProgressSQL, userID).Scan(
		&p.UserID, &orgID, &step, &completed, &skipped, &answer, &choice, &p.CustomerRef,
		&p.StartedAt, &p.CompletedAt, &p.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	p.CurrentStep = domain.StepID(step)
	p.PaymentChoice = domain.PaymentChoice(choice)
	if orgID.Valid {
		id := orgID.UUID
		p.OrganizationID = &id
	}
	if err := decodeProgress(&p, completed, skipped, answer); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) progressArgs(p *domain.Progress, patch domain.Answers) ([]any, error) {
	enc, err := encodeProgress(p, patch)
	if err != nil {
		return nil, err
	}
	return []any{
		p.UserID,
		p.OrganizationID,
		string(p.CurrentStep),
		enc.completed,
		enc.skipped,
		enc.answers,
		string(p.PaymentChoice),
		p.CustomerRef,
		p.StartedAt,
		p.CompletedAt,
		p.UpdatedAt,
		enc.patch,
	}, nil
}

// Create inserts p unless the user already has progress.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Progress) error {
	args, err := r.progressArgs(p, domain.Answers{})
	if err != nil {
		return err
	}
	_, err = r.exec(ctx).Exec(ctx, insertProgressSQL, args[:11]...)
	return err
}

// Save upserts p and merges patch into the stored answers.
func (r *PostgresRepository) Save(ctx context.Context, p *domain.Progress, patch domain.Answers) error {
	args, err := r.progressArgs(p, patch)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx).Exec(ctx, postgresUpsertProgressSQL, args...)
	return err
}

// SaveSnapshot writes the organization settings snapshot.
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, s domain.SettingsSnapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings snapshot: %w", err)
	}
	_, err = r.exec(ctx).Exec(ctx, upsertSettingsSQL, s.OrganizationID, data, s.UpdatedAt)
	return err
}

// FindSnapshot returns the organization settings snapshot or nil.
func (r *PostgresRepository) FindSnapshot(ctx context.Context, orgID uuid.UUID) (*domain.SettingsSnapshot, error) {
	var data []byte
	if err := r.exec(ctx).QueryRow(ctx, selectSettingsSQL, orgID).Scan(&data); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	var s domain.SettingsSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode settings snapshot: %w", err)
	}
	return &s, nil
}

// PostgresChecklistRepository implements domain.ChecklistRepository with
// PostgreSQL.
type PostgresChecklistRepository struct {
	conn database.Connection
}

// NewPostgresChecklistRepository creates a new repository.
func NewPostgresChecklistRepository(conn database.Connection) *PostgresChecklistRepository {
	return &PostgresChecklistRepository{conn: conn}
}

func (r *PostgresChecklistRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Find returns the checklist or nil.
func (r *PostgresChecklistRepository) Find(ctx context.Context, userID, orgID uuid.UUID) (*domain.Checklist, error) {
	c := &domain.Checklist{}
	var createdAt, updatedAt time.Time
	flags := make([]bool, len(checklistOrder))
	dest := []any{&c.UserID, &c.OrganizationID}
	for i := range flags {
		dest = append(dest, &flags[i])
	}
	dest = append(dest, &c.Dismissed, &c.Minimized, &createdAt, &updatedAt)

	if err := r.exec(ctx).QueryRow(ctx, selectChecklistSQL, userID, orgID).Scan(dest...); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	applyChecklistFlags(c, flags)
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}

// Create inserts c unless the user already has a checklist.
func (r *PostgresChecklistRepository) Create(ctx context.Context, c *domain.Checklist) error {
	args := []any{c.UserID, c.OrganizationID}
	for _, f := range checklistFlags(c) {
		args = append(args, f)
	}
	args = append(args, c.Dismissed, c.Minimized, c.CreatedAt, c.UpdatedAt)
	_, err := r.exec(ctx).Exec(ctx, insertChecklistSQL, args...)
	return err
}

// Save writes the checklist flags.
func (r *PostgresChecklistRepository) Save(ctx context.Context, c *domain.Checklist) error {
	args := []any{c.UserID, c.OrganizationID}
	for _, f := range checklistFlags(c) {
		args = append(args, f)
	}
	args = append(args, c.Dismissed, c.Minimized, c.UpdatedAt)
	res, err := r.exec(ctx).Exec(ctx, updateChecklistSQL, args...)
	if err != nil {
		return err
	}
	if !database.Touched(res) {
		return domain.ErrChecklistNotFound
	}
	return nil
}
