// Package persistence stores organizations, memberships, trial
// subscriptions and audit entries in PostgreSQL or SQLite.
package persistence

import (
	"encoding/json"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
)

const orgColumns = `id, name, slug, owner_user_id, subscription_status, subscription_tier,
	       trial_ends_at, payment_customer_ref, created_at, updated_at`

const (
	insertOrganizationSQL = `
		INSERT INTO organizations (
			id, name, slug, owner_user_id, subscription_status, subscription_tier,
			trial_ends_at, payment_customer_ref, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	updateOrganizationSQL = `
		UPDATE organizations SET
			name = $2,
			subscription_status = $3,
			subscription_tier = $4,
			trial_ends_at = $5,
			payment_customer_ref = $6,
			updated_at = $7
		WHERE id = $1`

	selectOrganizationByIDSQL    = `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	selectOrganizationByOwnerSQL = `SELECT ` + orgColumns + ` FROM organizations WHERE owner_user_id = $1`
	slugExistsSQL                = `SELECT COUNT(1) FROM organizations WHERE slug = $1`
	selectTrialEndingSQL         = `SELECT ` + orgColumns + ` FROM organizations
		WHERE subscription_status = 'trialing'
		  AND trial_ends_at >= $1 AND trial_ends_at < $2
		ORDER BY trial_ends_at, id`

	insertMemberSQL = `
		INSERT INTO organization_members (organization_id, user_id, display_name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, user_id) DO NOTHING`
	selectMembersSQL = `
		SELECT organization_id, user_id, display_name, role, joined_at
		FROM organization_members WHERE organization_id = $1 ORDER BY joined_at`

	insertTrialSubscriptionSQL = `
		INSERT INTO trial_subscriptions (
			id, organization_id, status, plan, trial_start, trial_end, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id) DO NOTHING`
	selectTrialSubscriptionSQL = `
		SELECT id, organization_id, status, plan, trial_start, trial_end, metadata, created_at
		FROM trial_subscriptions WHERE organization_id = $1`

	insertAuditSQL = `
		INSERT INTO audit_logs (
			id, organization_id, actor_user_id, action, entity_type, entity_id, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	selectAuditSQL = `
		SELECT id, organization_id, actor_user_id, action, entity_type, entity_id, metadata, created_at
		FROM audit_logs WHERE organization_id = $1 ORDER BY created_at, id`
)

// mapCreateError turns unique violations on organizations into domain
// errors. The column names match both the PostgreSQL constraint names and
// the SQLite error text.
func mapCreateError(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, "owner_user_id"):
		return domain.ErrOwnerHasOrganization
	case database.IsUniqueViolation(err, "slug"):
		return domain.ErrSlugTaken
	default:
		return err
	}
}

func encodeMetadata(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	return json.Marshal(m)
}

func decodeMetadata(b []byte) (map[string]string, error) {
	m := map[string]string{}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
