package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresOrganizationRepository implements domain.Repository and
// domain.MemberRepository with PostgreSQL.
type PostgresOrganizationRepository struct {
	conn database.Connection
}

// NewPostgresOrganizationRepository creates a new repository.
func NewPostgresOrganizationRepository(conn database.Connection) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{conn: conn}
}

func (r *PostgresOrganizationRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Create inserts a new organization.
func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	_, err := r.exec(ctx).Exec(ctx, insertOrganizationSQL,
		org.ID(),
		org.Name(),
		org.Slug(),
		org.OwnerUserID(),
		org.SubscriptionStatus(),
		org.SubscriptionTier(),
		org.TrialEndsAt(),
		org.PaymentCustomerRef(),
		org.CreatedAt(),
		org.UpdatedAt(),
	)
	return mapCreateError(err)
}

// Update writes the mutable organization fields.
func (r *PostgresOrganizationRepository) Update(ctx context.Context, org *domain.Organization) error {
	res, err := r.exec(ctx).Exec(ctx, updateOrganizationSQL,
		org.ID(),
		org.Name(),
		org.SubscriptionStatus(),
		org.SubscriptionTier(),
		org.TrialEndsAt(),
		org.PaymentCustomerRef(),
		org.UpdatedAt(),
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
func (r *PostgresOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	return r.findOne(ctx, selectOrganizationByIDSQL, id)
}

// FindByOwner returns the owner's organization or nil.
func (r *PostgresOrganizationRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*domain.Organization, error) {
	return r.findOne(ctx, selectOrganizationByOwnerSQL, ownerUserID)
}

func (r *PostgresOrganizationRepository) findOne(ctx context.Context, query string, arg uuid.UUID) (*domain.Organization, error) {
	org, err := scanPostgresOrganization(r.exec(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

// SlugExists reports whether slug is taken.
func (r *PostgresOrganizationRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := r.exec(ctx).QueryRow(ctx, slugExistsSQL, slug).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListTrialEndingBetween returns trialing organizations ending in [from, to).
func (r *PostgresOrganizationRepository) ListTrialEndingBetween(ctx context.Context, from, to time.Time) ([]*domain.Organization, error) {
	rows, err := r.exec(ctx).Query(ctx, selectTrialEndingSQL, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Organization
	for rows.Next() {
		org, err := scanPostgresOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func scanPostgresOrganization(row database.Row) (*domain.Organization, error) {
	var (
		id, owner            uuid.UUID
		name, slug           string
		status, tier, ref    string
		trialEndsAt          *time.Time
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &slug, &owner, &status, &tier, &trialEndsAt, &ref, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateOrganization(id, name, slug, owner, status, tier, trialEndsAt, ref, createdAt, updatedAt), nil
}

// Add inserts a membership. Re-adding the same member is a no-op.
func (r *PostgresOrganizationRepository) Add(ctx context.Context, m domain.Member) error {
	_, err := r.exec(ctx).Exec(ctx, insertMemberSQL, m.OrganizationID, m.UserID, m.DisplayName, m.Role, m.JoinedAt)
	return err
}

// ListByOrganization returns the organization's members.
func (r *PostgresOrganizationRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]domain.Member, error) {
	rows, err := r.exec(ctx).Query(ctx, selectMembersSQL, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &m.DisplayName, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var (
	_ domain.Repository       = (*PostgresOrganizationRepository)(nil)
	_ domain.MemberRepository = (*PostgresOrganizationRepository)(nil)
)
