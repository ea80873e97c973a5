package domain

import "fmt"

// ValidationError reports the first invalid field of a step.
type ValidationError struct {
	Step    StepID
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s for step %s: %s", e.Field, e.Step, e.Message)
}

// UserMessage is the text shown next to the field.
func (e *ValidationError) UserMessage() string {
	return e.Message
}

func invalid(step StepID, field, message string) *ValidationError {
	return &ValidationError{Step: step, Field: field, Message: message}
}

// Validate checks the step-specific fields of input in a fixed order and
// returns the first failure.
func Validate(step StepID, input Answers) error {
	a := input.ForStep(step)
	switch step {
	case StepCompanySetup:
		switch {
		case a.OwnerName == "":
			return invalid(step, "owner_name", "Please enter your name")
		case a.CompanyName == "":
			return invalid(step, "company_name", "Please enter your company name")
		case a.CompanyType == "":
			return invalid(step, "company_type", "Please select your company type")
		case !hasOption(CompanyTypes, a.CompanyType):
			return invalid(step, "company_type", "Please select a valid company type")
		case a.TeamSize == "":
			return invalid(step, "team_size", "Please select your team size")
		case !hasTeamSize(a.TeamSize):
			return invalid(step, "team_size", "Please select a valid team size")
		case a.Country == "":
			return invalid(step, "country", "Please select your country")
		}
	case StepFirstAction:
		switch {
		case a.FirstAction == "":
			return invalid(step, "first_action", "Please select what you want to do first")
		case !hasOption(FirstActions, a.FirstAction):
			return invalid(step, "first_action", "Please select a valid first action")
		}
	case StepBilling:
		if a.SelectedPlan != "" && !hasOption(Plans, a.SelectedPlan) {
			return invalid(step, "selected_plan", "Please select a valid plan")
		}
	case StepCompanyProfile:
		if !hasOption(PaymentTerms, a.PaymentTerms) {
			return invalid(step, "payment_terms", "Please select valid payment terms")
		}
	}
	return nil
}
