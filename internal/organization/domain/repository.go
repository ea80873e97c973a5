package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists organizations. Find methods return nil, nil when
// nothing matches. Create maps unique violations to ErrOwnerHasOrganization
// and ErrSlugTaken.
type Repository interface {
	Create(ctx context.Context, org *Organization) error
	Update(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID) (*Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ListTrialEndingBetween returns trialing organizations whose trial
	// ends in [from, to).
	ListTrialEndingBetween(ctx context.Context, from, to time.Time) ([]*Organization, error)
}

// MemberRepository persists memberships.
type MemberRepository interface {
	Add(ctx context.Context, member Member) error
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]Member, error)
}

// RecordRepository persists the auxiliary trial subscription and audit rows.
type RecordRepository interface {
	CreateTrialSubscription(ctx context.Context, sub TrialSubscription) error
	FindTrialSubscription(ctx context.Context, orgID uuid.UUID) (*TrialSubscription, error)
	AppendAudit(ctx context.Context, entry AuditEntry) error
	ListAudit(ctx context.Context, orgID uuid.UUID) ([]AuditEntry, error)
}
