package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteOrganizationRepository implements domain.Repository and
// domain.MemberRepository with SQLite.
type SQLiteOrganizationRepository struct {
	conn database.Connection
}

// NewSQLiteOrganizationRepository creates a new repository.
func NewSQLiteOrganizationRepository(conn database.Connection) *SQLiteOrganizationRepository {
	return &SQLiteOrganizationRepository{conn: conn}
}

func (r *SQLiteOrganizationRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Create inserts a new organization.
func (r *SQLiteOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	_, err := r.exec(ctx).Exec(ctx, insertOrganizationSQL,
		org.ID().String(),
		org.Name(),
		org.Slug(),
		org.OwnerUserID().String(),
		org.SubscriptionStatus(),
		org.SubscriptionTier(),
		database.FormatNullTime(org.TrialEndsAt()),
		org.PaymentCustomerRef(),
		database.FormatTime(org.CreatedAt()),
		database.FormatTime(org.UpdatedAt()),
	)
	return mapCreateError(err)
}

// Update writes the mutable organization fields.
func (r *SQLiteOrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	res, err := r.exec(ctx).Exec(ctx, updateOrganizationSQL,
		org.ID().String(),
		org.Name(),
		org.SubscriptionStatus(),
		org.SubscriptionTier(),
		database.FormatNullTime(org.TrialEndsAt()),
		org.PaymentCustomerRef(),
		database.FormatTime(org.UpdatedAt()),
	)
	if err != nil {
		return err
	}
	if !database.Touched(res) {
		return domain.ErrNotFound
	}
	return nil
}

// FindByID returns the organization or nil.
func (r *SQLiteOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return r.findOne(ctx, selectOrganizationByIDSQL, id.String())
}

// FindByOwner returns the owner's organization or nil.
func (r *SQLiteOrganizationRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Organization, error) {
	return r.findOne(ctx, selectOrganizationByOwnerSQL, ownerUserID.String())
}

func (r *SQLiteOrganizationRepository) findOne(ctx context.Context, query, arg string) (*domain.Organization, error) {
	org, err := scanSQLiteOrganization(r.exec(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

// SlugExists reports whether slug is taken.
func (r *SQLiteOrganizationRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := r.exec(ctx).QueryRow(ctx, slugExistsSQL, slug).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTrialEndingBetween returns trialing organizations ending in [from, to).
func (r *SQLiteOrganizationRepository) ListTrialEndingBetween(ctx context.Context, from, to time.Time) ([]*domain.Organization, error) {
	rows, err := r.exec(ctx).Query(ctx, selectTrialEndingSQL, database.FormatTime(from), database.FormatTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Organization
	for rows.Next() {
		org, err := scanSQLiteOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func scanSQLiteOrganization(row database.Row) (*domain.Organization, error) {
	var (
		id, owner            string
		name, slug           string
		status, tier, ref    string
		trialEndsAt          sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &name, &slug, &owner, &status, &tier, &trialEndsAt, &ref, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	orgID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("organization id: %w", err)
	}
	ownerID, err := uuid.Parse(owner)
	if err != nil {
		return nil, fmt.Errorf("organization %s owner: %w", id, err)
	}
	ends, err := database.ParseNullTime(trialEndsAt)
	if err != nil {
		return nil, err
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateOrganization(orgID, name, slug, ownerID, status, tier, ends, ref, created, updated), nil
}

// Add inserts a membership. Re-adding the same member is a no-op.
func (r *SQLiteOrganizationRepository) Add(ctx context.Context, m domain.Member) error {
	_, err := r.exec(ctx).Exec(ctx, insertMemberSQL,
		m.OrganizationID.String(), m.UserID.String(), m.DisplayName, m.Role, database.FormatTime(m.JoinedAt),
	)
	return err
}

// ListByOrganization returns the organization's members.
func (r *SQLiteOrganizationRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.Member, error) {
	rows, err := r.exec(ctx).Query(ctx, selectMembersSQL, orgID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var (
			m                   domain.Member
			org, user, joinedAt string
		)
		if err := rows.Scan(&org, &user, &m.DisplayName, &m.Role, &joinedAt); err != nil {
			return nil, err
		}
		if m.OrganizationID, err = uuid.Parse(org); err != nil {
			return nil, err
		}
		if m.UserID, err = uuid.Parse(user); err != nil {
			return nil, err
		}
		if m.JoinedAt, err = database.ParseTime(joinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var (
	_ domain.Repository       = (*SQLiteOrganizationRepository)(nil)
	_ domain.MemberRepository = (*SQLiteOrganizationRepository)(nil)
)
