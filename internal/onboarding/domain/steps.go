// Package domain models the guided onboarding sequence: the step catalog,
// per-user progress, step validation and the static option tables.
package domain

// StepID identifies an onboarding step.
type StepID string

const (
	StepCompanySetup   StepID = "company_setup"
	StepBilling        StepID = "billing"
	StepPainPoints     StepID = "pain_points"
	StepCompanyProfile StepID = "company_profile"
	StepTeamInvite     StepID = "team_invite"
	StepDataImport     StepID = "data_import"
	StepRateCard       StepID = "rate_card"
	StepFirstAction    StepID = "first_action"

	// StepComplete is the terminal marker stored in CurrentStep.
	StepComplete StepID = "complete"
)

// Step is one entry of the static step sequence.
type Step struct {
	ID          StepID `json:"id"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Conditional bool   `json:"conditional,omitempty"`
}

var steps = []Step{
	{ID: StepCompanySetup, Label: "Company Setup", Required: true},
	{ID: StepBilling, Label: "Start Trial"},
	{ID: StepPainPoints, Label: "Pain Points"},
	{ID: StepCompanyProfile, Label: "Company Profile"},
	{ID: StepTeamInvite, Label: "Invite Team", Conditional: true},
	{ID: StepDataImport, Label: "Import Data"},
	{ID: StepRateCard, Label: "Rate Card"},
	{ID: StepFirstAction, Label: "Get Started", Required: true},
}

// Steps returns the ordered step sequence.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// FirstStep is where new progress starts.
func FirstStep() StepID {
	return steps[0].ID
}

// FindStep returns the step and its position.
func FindStep(id StepID) (Step, int, bool) {
	for i, s := range steps {
		if s.ID == id {
			return s, i, true
		}
	}
	return Step{}, -1, false
}

// IsKnownStep reports whether id is a step or the terminal marker.
func IsKnownStep(id StepID) bool {
	if id == StepComplete {
		return true
	}
	_, _, ok := FindStep(id)
	return ok
}

// position orders steps; the terminal marker sorts after every step.
func position(id StepID) int {
	if id == StepComplete {
		return len(steps)
	}
	_, i, _ := FindStep(id)
	return i
}

// NextStep returns the step after id that applies to a team of teamSize,
// or StepComplete. Solo accounts pass over the team invite.
func NextStep(id StepID, teamSize string) StepID {
	_, i, ok := FindStep(id)
	if !ok {
		return StepComplete
	}
	for j := i + 1; j < len(steps); j++ {
		if steps[j].ID == StepTeamInvite && teamSize == TeamSizeJustMe {
			continue
		}
		return steps[j].ID
	}
	return StepComplete
}
