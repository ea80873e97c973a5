package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PaymentChoice records what the user did on the billing step.
type PaymentChoice string

const (
	PaymentChoiceNone     PaymentChoice = ""
	PaymentChoiceCaptured PaymentChoice = "captured"
	PaymentChoiceDeclined PaymentChoice = "declined"
)

// Progress is a user's position in the onboarding sequence. CurrentStep
// only moves forward.
type Progress struct {
	UserID         uuid.UUID     `json:"user_id"`
	OrganizationID *uuid.UUID    `json:"organization_id,omitempty"`
	CurrentStep    StepID        `json:"current_step"`
	CompletedSteps []StepID      `json:"completed_steps"`
	SkippedSteps   []StepID      `json:"skipped_steps"`
	Answers        Answers       `json:"answers"`
	PaymentChoice  PaymentChoice `json:"payment_choice,omitempty"`
	CustomerRef    string        `json:"customer_ref,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewProgress starts a user at the first step.
func NewProgress(userID uuid.UUID, now time.Time) *Progress {
	return &Progress{
		UserID:         userID,
		CurrentStep:    FirstStep(),
		CompletedSteps: []StepID{},
		SkippedSteps:   []StepID{},
		StartedAt:      now,
		UpdatedAt:      now,
	}
}

// IsComplete reports whether onboarding has finished.
func (p *Progress) IsComplete() bool {
	return p.CurrentStep == StepComplete || p.CompletedAt != nil
}

// AwaitingFinalize reports whether every step is behind the user but the
// organization and completion stamp are not yet written.
func (p *Progress) AwaitingFinalize() bool {
	return p.CurrentStep == StepComplete && p.CompletedAt == nil
}

// HasCompleted reports whether step was completed.
func (p *Progress) HasCompleted(step StepID) bool {
	return slices.Contains(p.CompletedSteps, step)
}

// checkReachable rejects unknown steps and steps after the current one.
func (p *Progress) checkReachable(step StepID) error {
	if step == StepComplete || !IsKnownStep(step) {
		return ErrUnknownStep
	}
	if position(step) > position(p.CurrentStep) {
		return ErrStepAhead
	}
	return nil
}

// CompleteStep merges the step's answers, marks it completed and advances.
// Re-submitting an earlier step never moves CurrentStep backward.
func (p *Progress) CompleteStep(step StepID, patch Answers, now time.Time) error {
	if err := p.checkReachable(step); err != nil {
		return err
	}
	p.Answers = p.Answers.Merge(patch)
	if !p.HasCompleted(step) {
		p.CompletedSteps = append(p.CompletedSteps, step)
	}
	p.advancePast(step)
	p.UpdatedAt = now
	return nil
}

// SkipStep advances past an optional step without marking it completed.
// Skipping an uncompleted billing step records a declined payment choice.
func (p *Progress) SkipStep(step StepID, now time.Time) error {
	if err := p.checkReachable(step); err != nil {
		return err
	}
	s, _, _ := FindStep(step)
	if s.Required {
		return ErrStepNotSkippable
	}
	if !p.HasCompleted(step) {
		if !slices.Contains(p.SkippedSteps, step) {
			p.SkippedSteps = append(p.SkippedSteps, step)
		}
		if step == StepBilling {
			p.PaymentChoice = PaymentChoiceDeclined
		}
	}
	p.advancePast(step)
	p.UpdatedAt = now
	return nil
}

func (p *Progress) advancePast(step StepID) {
	next := NextStep(step, p.Answers.TeamSize)
	if position(next) > position(p.CurrentStep) {
		p.CurrentStep = next
	}
}

// RecordPaymentChoice stores the billing decision and customer reference.
func (p *Progress) RecordPaymentChoice(choice PaymentChoice, customerRef string, now time.Time) {
	p.PaymentChoice = choice
	if customerRef != "" {
		p.CustomerRef = customerRef
	}
	p.UpdatedAt = now
}

// AttachOrganization sets the organization once.
func (p *Progress) AttachOrganization(orgID uuid.UUID, now time.Time) {
	if p.OrganizationID != nil {
		return
	}
	id := orgID
	p.OrganizationID = &id
	p.UpdatedAt = now
}

// MarkFinalized moves the progress to the terminal state.
func (p *Progress) MarkFinalized(now time.Time) {
	p.CurrentStep = StepComplete
	at := now
	p.CompletedAt = &at
	p.UpdatedAt = now
}

// PaymentCustomerForOrganization is the customer reference handed to the
// organization, present only when a payment method was captured.
func (p *Progress) PaymentCustomerForOrganization() string {
	if p.PaymentChoice != PaymentChoiceCaptured {
		return ""
	}
	return p.CustomerRef
}
