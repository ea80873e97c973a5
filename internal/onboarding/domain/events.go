package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	"github.com/google/uuid"
)

// AggregateType is the outbox aggregate type of onboarding events. The
// aggregate id is the user id.
const AggregateType = "onboarding"

// Routing keys for onboarding events.
const (
	RoutingKeyStepCompleted = "onboarding.step_completed"
	RoutingKeyStepSkipped   = "onboarding.step_skipped"
	RoutingKeyCompleted     = "onboarding.completed"
)

// StepCompleted is raised when a step is completed.
type StepCompleted struct {
	sharedDomain.BaseEvent
	UserID      uuid.UUID `json:"user_id"`
	Step        StepID    `json:"step"`
	CurrentStep StepID    `json:"current_step"`
}

func NewStepCompleted(p *Progress, step StepID, at time.Time) *StepCompleted {
	return &StepCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(p.UserID, AggregateType, RoutingKeyStepCompleted, at),
		UserID:      p.UserID,
		Step:        step,
		CurrentStep: p.CurrentStep,
	}
}

// StepSkipped is raised when an optional step is skipped.
type StepSkipped struct {
	sharedDomain.BaseEvent
	UserID      uuid.UUID `json:"user_id"`
	Step        StepID    `json:"step"`
	CurrentStep StepID    `json:"current_step"`
}

func NewStepSkipped(p *Progress, step StepID, at time.Time) *StepSkipped {
	return &StepSkipped{
		BaseEvent:   sharedDomain.NewBaseEvent(p.UserID, AggregateType, RoutingKeyStepSkipped, at),
		UserID:      p.UserID,
		Step:        step,
		CurrentStep: p.CurrentStep,
	}
}

// Completed is raised once, when onboarding reaches its terminal state.
type Completed struct {
	sharedDomain.BaseEvent
	UserID           uuid.UUID     `json:"user_id"`
	OrganizationID   uuid.UUID     `json:"organization_id"`
	FirstAction      string        `json:"first_action"`
	PaymentChoice    PaymentChoice `json:"payment_choice"`
	HasPaymentMethod bool          `json:"has_payment_method"`
}

// NewCompleted builds the completion event from the finalized progress.
func NewCompleted(p *Progress, orgID uuid.UUID, at time.Time) *Completed {
	return &Completed{
		BaseEvent:        sharedDomain.NewBaseEvent(p.UserID, AggregateType, RoutingKeyCompleted, at),
		UserID:           p.UserID,
		OrganizationID:   orgID,
		FirstAction:      p.Answers.FirstAction,
		PaymentChoice:    p.PaymentChoice,
		HasPaymentMethod: p.PaymentChoice == PaymentChoiceCaptured,
	}
}
