package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleOwner is the role given to the user who provisioned the organization.
const RoleOwner = "owner"

// Member links a user to an organization.
type Member struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	DisplayName    string
	Role           string
	JoinedAt       time.Time
}

// NewOwner creates the owner membership.
func NewOwner(org *Organization, displayName string, at time.Time) Member {
	return Member{
		OrganizationID: org.ID(),
		UserID:         org.OwnerUserID(),
		DisplayName:    displayName,
		Role:           RoleOwner,
		JoinedAt:       at.UTC(),
	}
}
