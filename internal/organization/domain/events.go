package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/google/uuid"
)

// Routing keys for organization events.
const (
	RoutingKeyProvisioned             = "organization.provisioned"
	RoutingKeyTrialExtended           = "organization.trial_extended"
	RoutingKeyPaymentCustomerAttached = "organization.payment_customer_attached"
)

// OrganizationProvisioned is raised when an organization is created.
type OrganizationProvisioned struct {
	sharedDomain.BaseEvent
	OrganizationID uuid.UUID  `json:"organization_id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	OwnerUserID    uuid.UUID  `json:"owner_user_id"`
	OwnerName      string     `json:"owner_name,omitempty"`
	TrialEndsAt    *time.Time `json:"trial_ends_at,omitempty"`
}

func NewOrganizationProvisioned(org *Organization, ownerName string) *OrganizationProvisioned {
	return &OrganizationProvisioned{
		BaseEvent:      sharedDomain.NewBaseEvent(org.ID(), AggregateType, RoutingKeyProvisioned, org.CreatedAt()),
		OrganizationID: org.ID(),
		Name:           org.Name(),
		Slug:           org.Slug(),
		OwnerUserID:    org.OwnerUserID(),
		OwnerName:      ownerName,
		TrialEndsAt:    org.TrialEndsAt(),
	}
}

// TrialExtended is raised by the admin trial extension.
type TrialExtended struct {
	sharedDomain.BaseEvent
	OrganizationID uuid.UUID  `json:"organization_id"`
	PreviousEndsAt *time.Time `json:"previous_ends_at,omitempty"`
	TrialEndsAt    *time.Time `json:"trial_ends_at"`
	AdditionalDays int        `json:"additional_days"`
	ExtendedBy     uuid.UUID  `json:"extended_by"`
}

func NewTrialExtended(org *Organization, previous *time.Time, days int, actor uuid.UUID) *TrialExtended {
	return &TrialExtended{
		BaseEvent:      sharedDomain.NewBaseEvent(org.ID(), AggregateType, RoutingKeyTrialExtended, org.UpdatedAt()),
		OrganizationID: org.ID(),
		PreviousEndsAt: previous,
		TrialEndsAt:    org.TrialEndsAt(),
		AdditionalDays: days,
		ExtendedBy:     actor,
	}
}

// PaymentCustomerAttached is raised when a payment customer is recorded.
type PaymentCustomerAttached struct {
	sharedDomain.BaseEvent
	OrganizationID     uuid.UUID `json:"organization_id"`
	PaymentCustomerRef string    `json:"payment_customer_ref"`
}

func NewPaymentCustomerAttached(org *Organization) *PaymentCustomerAttached {
	return &PaymentCustomerAttached{
		BaseEvent:          sharedDomain.NewBaseEvent(org.ID(), AggregateType, RoutingKeyPaymentCustomerAttached, org.UpdatedAt()),
		OrganizationID:     org.ID(),
		PaymentCustomerRef: org.PaymentCustomerRef(),
	}
}
