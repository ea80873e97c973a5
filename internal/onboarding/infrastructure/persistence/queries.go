// Package persistence stores onboarding progress, checklists and
// organization settings snapshots in PostgreSQL or SQLite.
package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
)

const progressColumns = `user_id, organization_id, current_step, completed_steps, skipped_steps,
	       answers, payment_choice, customer_ref, started_at, completed_at, updated_at`

// upsertProgressTemplate is shared by both dialects; %s is the answers merge
// expression, which takes the patch as $12.
const upsertProgressTemplate = `
		INSERT INTO onboarding_progress (
			user_id, organization_id, current_step, completed_steps, skipped_steps,
			answers, payment_choice, customer_ref, started_at, completed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			organization_id = COALESCE(onboarding_progress.organization_id, excluded.organization_id),
			current_step = excluded.current_step,
			completed_steps = excluded.completed_steps,
			skipped_steps = excluded.skipped_steps,
			answers = %s,
			payment_choice = excluded.payment_choice,
			customer_ref = excluded.customer_ref,
			completed_at = COALESCE(onboarding_progress.completed_at, excluded.completed_at),
			updated_at = excluded.updated_at`

var (
	sqliteUpsertProgressSQL   = fmt.Sprintf(upsertProgressTemplate, `json_patch(onboarding_progress.answers, $12)`)
	postgresUpsertProgressSQL = fmt.Sprintf(upsertProgressTemplate, `onboarding_progress.answers || $12::jsonb`)
)

const (
	insertProgressSQL = `
		INSERT INTO onboarding_progress (
			user_id, organization_id, current_step, completed_steps, skipped_steps,
			answers, payment_choice, customer_ref, started_at, completed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO NOTHING`

	selectProgressSQL = `SELECT ` + progressColumns + ` FROM onboarding_progress WHERE user_id = $1`

	checklistColumns = `user_id, organization_id, account_created, company_profile_setup, rates_configured,
	       first_quote_created, first_client_added, first_crew_added, first_project_created,
	       dismissed, minimized, created_at, updated_at`

	insertChecklistSQL = `
		INSERT INTO onboarding_checklist (` + checklistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO NOTHING`

	updateChecklistSQL = `
		UPDATE onboarding_checklist SET
			account_created = $3,
			company_profile_setup = $4,
			rates_configured = $5,
			first_quote_created = $6,
			first_client_added = $7,
			first_crew_added = $8,
			first_project_created = $9,
			dismissed = $10,
			minimized = $11,
			updated_at = $12
		WHERE user_id = $1 AND organization_id = $2`

	selectChecklistSQL = `SELECT ` + checklistColumns + ` FROM onboarding_checklist
		WHERE user_id = $1 AND organization_id = $2`

	upsertSettingsSQL = `
		INSERT INTO organization_settings (organization_id, snapshot, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`

	selectSettingsSQL = `SELECT snapshot FROM organization_settings WHERE organization_id = $1`
)

// checklistOrder is the column order of the item flags.
var checklistOrder = []domain.ChecklistItem{
	domain.ItemAccountCreated,
	domain.ItemCompanyProfileSetup,
	domain.ItemRatesConfigured,
	domain.ItemFirstQuoteCreated,
	domain.ItemFirstClientAdded,
	domain.ItemFirstCrewAdded,
	domain.ItemFirstProjectCreated,
}

type encodedProgress struct {
	completed []byte
	skipped   []byte
	answers   []byte
	patch     []byte
}

func encodeProgress(p *domain.Progress, patch domain.Answers) (encodedProgress, error) {
	var (
		out encodedProgress
		err error
	)
	if out.completed, err = json.Marshal(nonNilSteps(p.CompletedSteps)); err != nil {
		return out, fmt.Errorf("encode completed steps: %w", err)
	}
	if out.skipped, err = json.Marshal(nonNilSteps(p.SkippedSteps)); err != nil {
		return out, fmt.Errorf("encode skipped steps: %w", err)
	}
	if out.answers, err = json.Marshal(p.Answers); err != nil {
		return out, fmt.Errorf("encode answers: %w", err)
	}
	if out.patch, err = json.Marshal(patch); err != nil {
		return out, fmt.Errorf("encode answers patch: %w", err)
	}
	return out, nil
}

func decodeProgress(p *domain.Progress, completed, skipped, answers []byte) error {
	if err := json.Unmarshal(completed, &p.CompletedSteps); err != nil {
		return fmt.Errorf("decode completed steps: %w", err)
	}
	if err := json.Unmarshal(skipped, &p.SkippedSteps); err != nil {
		return fmt.Errorf("decode skipped steps: %w", err)
	}
	if err := json.Unmarshal(answers, &p.Answers); err != nil {
		return fmt.Errorf("decode answers: %w", err)
	}
	p.CompletedSteps = nonNilSteps(p.CompletedSteps)
	p.SkippedSteps = nonNilSteps(p.SkippedSteps)
	return nil
}

func nonNilSteps(s []domain.StepID) []domain.StepID {
	if s == nil {
		return []domain.StepID{}
	}
	return s
}

func checklistFlags(c *domain.Checklist) []bool {
	out := make([]bool, len(checklistOrder))
	for i, item := range checklistOrder {
		out[i] = c.Items[item]
	}
	return out
}

func applyChecklistFlags(c *domain.Checklist, flags []bool) {
	c.Items = make(map[domain.ChecklistItem]bool, len(checklistOrder))
	for i, item := range checklistOrder {
		c.Items[item] = flags[i]
	}
}
