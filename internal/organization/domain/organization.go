// Package domain models the organization record created once per
// completed onboarding and the trial window it carries.
package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/google/uuid"
)

// AggregateType names organizations in events.
const AggregateType = "organization"

// Subscription states and tiers written at provisioning.
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	TierFree             = "free"
)

// Organization is the account's tenant record.
type Organization struct {
	sharedDomain.BaseAggregateRoot
	name               string
	slug               string
	ownerUserID        uuid.UUID
	subscriptionStatus string
	subscriptionTier   string
	trialEndsAt        *time.Time
	paymentCustomerRef string
}

// NewOrganization creates a trialing organization whose trial ends after
// trialDuration.
func NewOrganization(name, slug string, ownerUserID uuid.UUID, ownerName, paymentCustomerRef string, trialDuration time.Duration, now time.Time) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if ownerUserID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	if slug == "" {
		return nil, ErrSlugRequired
	}

	ends := now.UTC().Add(trialDuration)
	org := &Organization{
		BaseAggregateRoot:  sharedDomain.NewBaseAggregateRoot(now),
		name:               name,
		slug:               slug,
		ownerUserID:        ownerUserID,
		subscriptionStatus: SubscriptionTrialing,
		subscriptionTier:   TierFree,
		trialEndsAt:        &ends,
		paymentCustomerRef: strings.TrimSpace(paymentCustomerRef),
	}
	org.AddDomainEvent(NewOrganizationProvisioned(org, ownerName))
	return org, nil
}

// RehydrateOrganization rebuilds an organization from storage.
func RehydrateOrganization(
	id uuid.UUID,
	name, slug string,
	ownerUserID uuid.UUID,
	subscriptionStatus, subscriptionTier string,
	trialEndsAt *time.Time,
	paymentCustomerRef string,
	createdAt, updatedAt time.Time,
) *Organization {
	if trialEndsAt != nil {
		t := trialEndsAt.UTC()
		trialEndsAt = &t
	}
	return &Organization{
		BaseAggregateRoot:  sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		name:               name,
		slug:               slug,
		ownerUserID:        ownerUserID,
		subscriptionStatus: subscriptionStatus,
		subscriptionTier:   subscriptionTier,
		trialEndsAt:        trialEndsAt,
		paymentCustomerRef: paymentCustomerRef,
	}
}

func (o *Organization) Name() string               { return o.name }
func (o *Organization) Slug() string               { return o.slug }
func (o *Organization) OwnerUserID() uuid.UUID     { return o.ownerUserID }
func (o *Organization) SubscriptionStatus() string { return o.subscriptionStatus }
func (o *Organization) SubscriptionTier() string   { return o.subscriptionTier }
func (o *Organization) PaymentCustomerRef() string { return o.paymentCustomerRef }

// TrialEndsAt returns a copy of the trial end, or nil.
func (o *Organization) TrialEndsAt() *time.Time {
	if o.trialEndsAt == nil {
		return nil
	}
	t := *o.trialEndsAt
	return &t
}

// HasPaymentMethod reports whether a payment customer is on file.
func (o *Organization) HasPaymentMethod() bool {
	return o.paymentCustomerRef != ""
}

// ExtendTrial pushes the trial end out by days, counting from the current
// end or from now when none is set.
func (o *Organization) ExtendTrial(days int, actor uuid.UUID, now time.Time) error {
	if days <= 0 {
		return ErrInvalidExtension
	}
	base := now.UTC()
	var previous *time.Time
	if o.trialEndsAt != nil {
		base = *o.trialEndsAt
		previous = o.TrialEndsAt()
	}
	next := base.AddDate(0, 0, days)
	o.trialEndsAt = &next
	o.Touch(now)
	o.AddDomainEvent(NewTrialExtended(o, previous, days, actor))
	return nil
}

// AttachPaymentCustomer records the payment provider's customer reference.
// Re-attaching the same reference is a no-op.
func (o *Organization) AttachPaymentCustomer(ref string, now time.Time) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ErrCustomerRefRequired
	}
	if ref == o.paymentCustomerRef {
		return nil
	}
	o.paymentCustomerRef = ref
	o.Touch(now)
	o.AddDomainEvent(NewPaymentCustomerAttached(o))
	return nil
}
