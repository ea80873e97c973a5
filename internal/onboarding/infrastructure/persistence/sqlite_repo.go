package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteRepository implements the onboarding repositories with SQLite.
type SQLiteRepository struct {
	conn database.Connection
}

var (
	_ domain.ProgressRepository  = (*SQLiteRepository)(nil)
	_ domain.ChecklistRepository = (*SQLiteChecklistRepository)(nil)
	_ domain.SettingsRepository  = (*SQLiteRepository)(nil)
)

// NewSQLiteRepository creates a new repository.
func NewSQLiteRepository(conn database.Connection) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

func (r *SQLiteRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Find returns the user's progress or nil.
func (r *SQLiteRepository) Find(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	var (
		id, step, choice, ref      string
		orgID, completedAt         sql.NullString
		completed, skipped, answer string
		startedAt, updatedAt       string
	)
	err := r.exec(ctx).QueryRow(ctx, selectProgressSQL, userID.String()).Scan(
		&id, &orgID, &step, &completed, &skipped, &answer, &choice, &ref, &startedAt, &completedAt, &updatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	p := &domain.Progress{
		CurrentStep:   domain.StepID(step),
		PaymentChoice: domain.PaymentChoice(choice),
		CustomerRef:   ref,
	}
	if p.UserID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	if orgID.Valid {
		parsed, err := uuid.Parse(orgID.String)
		if err != nil {
			return nil, fmt.Errorf("parse organization id: %w", err)
		}
		p.OrganizationID = &parsed
	}
	if err := decodeProgress(p, []byte(completed), []byte(skipped), []byte(answer)); err != nil {
		return nil, err
	}
	if p.StartedAt, err = database.ParseTime(startedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	if p.CompletedAt, err = database.ParseNullTime(completedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepository) progressArgs(p *domain.Progress, patch domain.Answers) ([]any, error) {
	enc, err := encodeProgress(p, patch)
	if err != nil {
		return nil, err
	}
	var orgID sql.NullString
	if p.OrganizationID != nil {
		orgID = sql.NullString{String: p.OrganizationID.String(), Valid: true}
	}
	return []any{
		p.UserID.String(),
		orgID,
		string(p.CurrentStep),
		string(enc.completed),
		string(enc.skipped),
		string(enc.answers),
		string(p.PaymentChoice),
		p.CustomerRef,
		database.FormatTime(p.StartedAt),
		database.FormatNullTime(p.CompletedAt),
		database.FormatTime(p.UpdatedAt),
		string(enc.patch),
	}, nil
}

// Create inserts p unless the user already has progress.
func (r *SQLiteRepository) Create(ctx context.Context, p *domain.Progress) error {
	args, err := r.progressArgs(p, domain.Answers{})
	if err != nil {
		return err
	}
	_, err = r.exec(ctx).Exec(ctx, insertProgressSQL, args[:11]...)
	return err
}

// Save upserts p and merges patch into the stored answers.
func (r *SQLiteRepository) Save(ctx context.Context, p *domain.Progress, patch domain.Answers) error {
	args, err := r.progressArgs(p, patch)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx).Exec(ctx, sqliteUpsertProgressSQL, args...)
	return err
}

// SaveSnapshot writes the organization settings snapshot.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, s domain.SettingsSnapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings snapshot: %w", err)
	}
	_, err = r.exec(ctx).Exec(ctx, upsertSettingsSQL, s.OrganizationID.String(), string(data), database.FormatTime(s.UpdatedAt))
	return err
}

// FindSnapshot returns the organization settings snapshot or nil.
func (r *SQLiteRepository) FindSnapshot(ctx context.Context, orgID uuid.UUID) (*domain.SettingsSnapshot, error) {
	var data string
	if err := r.exec(ctx).QueryRow(ctx, selectSettingsSQL, orgID.String()).Scan(&data); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	var s domain.SettingsSnapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decode settings snapshot: %w", err)
	}
	return &s, nil
}

// SQLiteChecklistRepository implements domain.ChecklistRepository with
// SQLite.
type SQLiteChecklistRepository struct {
	conn database.Connection
}

// NewSQLiteChecklistRepository creates a new repository.
func NewSQLiteChecklistRepository(conn database.Connection) *SQLiteChecklistRepository {
	return &SQLiteChecklistRepository{conn: conn}
}

func (r *SQLiteChecklistRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Find returns the checklist or nil.
func (r *SQLiteChecklistRepository) Find(ctx context.Context, userID, orgID uuid.UUID) (*domain.Checklist, error) {
	var (
		uid, oid             string
		dismissed, minimized bool
		createdAt, updatedAt string
	)
	flags := make([]bool, len(checklistOrder))
	dest := []any{&uid, &oid}
	for i := range flags {
		dest = append(dest, &flags[i])
	}
	dest = append(dest, &dismissed, &minimized, &createdAt, &updatedAt)

	if err := r.exec(ctx).QueryRow(ctx, selectChecklistSQL, userID.String(), orgID.String()).Scan(dest...); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	c := &domain.Checklist{UserID: userID, OrganizationID: orgID, Dismissed: dismissed, Minimized: minimized}
	applyChecklistFlags(c, flags)
	var err error
	if c.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = database.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts c unless the user already has a checklist.
func (r *SQLiteChecklistRepository) Create(ctx context.Context, c *domain.Checklist) error {
	args := []any{c.UserID.String(), c.OrganizationID.String()}
	for _, f := range checklistFlags(c) {
		args = append(args, f)
	}
	args = append(args, c.Dismissed, c.Minimized, database.FormatTime(c.CreatedAt), database.FormatTime(c.UpdatedAt))
	_, err := r.exec(ctx).Exec(ctx, insertChecklistSQL, args...)
	return err
}

// Save writes the checklist flags.
func (r *SQLiteChecklistRepository) Save(ctx context.Context, c *domain.Checklist) error {
	args := []any{c.UserID.String(), c.OrganizationID.String()}
	for _, f := range checklistFlags(c) {
		args = append(args, f)
	}
	args = append(args, c.Dismissed, c.Minimized, database.FormatTime(c.UpdatedAt))
	res, err := r.exec(ctx).Exec(ctx, updateChecklistSQL, args...)
	if err != nil {
		return err
	}
	if !database.Touched(res) {
		return domain.ErrChecklistNotFound
	}
	return nil
}
