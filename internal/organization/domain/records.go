package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrialSubscription is the auxiliary subscription row written after
// provisioning. Billing webhooks own it afterwards.
type TrialSubscription struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Status         string
	Plan           string
	TrialStart     time.Time
	TrialEnd       time.Time
	Metadata       map[string]string
	CreatedAt      time.Time
}

// NewTrialSubscription records the trial window of a new organization.
func NewTrialSubscription(org *Organization, createdVia string, at time.Time) TrialSubscription {
	end := at.UTC()
	if t := org.TrialEndsAt(); t != nil {
		end = *t
	}
	return TrialSubscription{
		ID:             uuid.New(),
		OrganizationID: org.ID(),
		Status:         SubscriptionTrialing,
		Plan:           TierFree,
		TrialStart:     at.UTC(),
		TrialEnd:       end,
		Metadata: map[string]string{
			"created_via": createdVia,
			"user_id":     org.OwnerUserID().String(),
		},
		CreatedAt: at.UTC(),
	}
}

// Audit actions.
const (
	AuditActionCreate      = "create"
	AuditActionExtendTrial = "extend_trial"
)

// AuditEntry is one row of the organization audit log.
type AuditEntry struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ActorUserID    uuid.UUID
	Action         string
	EntityType     string
	EntityID       uuid.UUID
	Metadata       map[string]string
	CreatedAt      time.Time
}

// NewAuditEntry creates an audit entry about the organization itself.
func NewAuditEntry(org *Organization, actor uuid.UUID, action string, metadata map[string]string, at time.Time) AuditEntry {
	return AuditEntry{
		ID:             uuid.New(),
		OrganizationID: org.ID(),
		ActorUserID:    actor,
		Action:         action,
		EntityType:     AggregateType,
		EntityID:       org.ID(),
		Metadata:       metadata,
		CreatedAt:      at.UTC(),
	}
}
