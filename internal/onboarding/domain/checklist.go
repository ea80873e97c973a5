package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is one getting-started task.
type ChecklistItem string

const (
	ItemAccountCreated      ChecklistItem = "account_created"
	ItemCompanyProfileSetup ChecklistItem = "company_profile_setup"
	ItemRatesConfigured     ChecklistItem = "rates_configured"
	ItemFirstClientAdded    ChecklistItem = "first_client_added"
	ItemFirstQuoteCreated   ChecklistItem = "first_quote_created"
	ItemFirstCrewAdded      ChecklistItem = "first_crew_added"
	ItemFirstProjectCreated ChecklistItem = "first_project_created"
)

// ChecklistEntry describes an item for display.
type ChecklistEntry struct {
	Item        ChecklistItem `json:"item"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Done        bool          `json:"done"`
}

var checklistItems = []ChecklistEntry{
	{Item: ItemAccountCreated, Label: "Create your account", Description: "You're already here!"},
	{Item: ItemCompanyProfileSetup, Label: "Set up company profile", Description: "Add your logo and company details"},
	{Item: ItemRatesConfigured, Label: "Configure your rates", Description: "Set up your rate card for quick quoting"},
	{Item: ItemFirstClientAdded, Label: "Add your first client", Description: "Start building your client database"},
	{Item: ItemFirstQuoteCreated, Label: "Create your first quote", Description: "Generate a professional quote in minutes"},
	{Item: ItemFirstCrewAdded, Label: "Add your crew", Description: "Keep your crew contacts in one place"},
	{Item: ItemFirstProjectCreated, Label: "Start a project", Description: "Turn a quote into an active project"},
}

// Checklist is the getting-started widget for a user in an organization.
type Checklist struct {
	UserID         uuid.UUID              `json:"user_id"`
	OrganizationID uuid.UUID              `json:"organization_id"`
	Items          map[ChecklistItem]bool `json:"items"`
	Dismissed      bool                   `json:"dismissed"`
	Minimized      bool                   `json:"minimized"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewChecklist creates a checklist with the account item done.
func NewChecklist(userID, orgID uuid.UUID, now time.Time) *Checklist {
	c := &Checklist{
		UserID:         userID,
		OrganizationID: orgID,
		Items:          make(map[ChecklistItem]bool, len(checklistItems)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, e := range checklistItems {
		c.Items[e.Item] = false
	}
	c.Items[ItemAccountCreated] = true
	return c
}

// IsChecklistItem reports whether item is known.
func IsChecklistItem(item ChecklistItem) bool {
	for _, e := range checklistItems {
		if e.Item == item {
			return true
		}
	}
	return false
}

// Mark sets an item done.
func (c *Checklist) Mark(item ChecklistItem, now time.Time) error {
	if !IsChecklistItem(item) {
		return ErrUnknownChecklistItem
	}
	c.Items[item] = true
	c.UpdatedAt = now
	return nil
}

// Dismiss hides the widget until reset.
func (c *Checklist) Dismiss(now time.Time) {
	c.Dismissed = true
	c.UpdatedAt = now
}

// Reset shows a dismissed widget again.
func (c *Checklist) Reset(now time.Time) {
	c.Dismissed = false
	c.UpdatedAt = now
}

// Minimize collapses or expands the widget.
func (c *Checklist) Minimize(minimized bool, now time.Time) {
	c.Minimized = minimized
	c.UpdatedAt = now
}

// Entries returns the items in display order. Account creation is always
// done.
func (c *Checklist) Entries() []ChecklistEntry {
	out := make([]ChecklistEntry, len(checklistItems))
	for i, e := range checklistItems {
		e.Done = e.Item == ItemAccountCreated || c.Items[e.Item]
		out[i] = e
	}
	return out
}

// Completed counts done items.
func (c *Checklist) Completed() int {
	n := 0
	for _, e := range c.Entries() {
		if e.Done {
			n++
		}
	}
	return n
}

// ProgressPercent is the rounded share of done items.
func (c *Checklist) ProgressPercent() int {
	total := len(checklistItems)
	return (c.Completed()*100 + total/2) / total
}

// AllComplete reports whether every item is done.
func (c *Checklist) AllComplete() bool {
	return c.Completed() == len(checklistItems)
}
