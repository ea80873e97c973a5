package domain

import "strings"

// CompanyProfile is captured on the company profile step.
type CompanyProfile struct {
	LogoURL string `json:"logo_url,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// Answers holds the fields captured across steps. Empty fields are omitted
// from JSON so a step's answers can be merged over the stored document.
type Answers struct {
	OwnerName          string          `json:"owner_name,omitempty"`
	CompanyName        string          `json:"company_name,omitempty"`
	CompanyType        string          `json:"company_type,omitempty"`
	PrimaryFocus       []string        `json:"primary_focus,omitempty"`
	TeamSize           string          `json:"team_size,omitempty"`
	Country            string          `json:"country,omitempty"`
	Currency           string          `json:"currency,omitempty"`
	PainPoints         []string        `json:"pain_points,omitempty"`
	CompanyProfile     *CompanyProfile `json:"company_profile,omitempty"`
	PaymentTerms       string          `json:"payment_terms,omitempty"`
	RateCardConfigured *bool           `json:"rate_card_configured,omitempty"`
	FirstAction        string          `json:"first_action,omitempty"`
	SelectedPlan       string          `json:"selected_plan,omitempty"`
}

// ForStep keeps only the fields that belong to step. Derived defaults are
// filled in: currency from country and payment terms on the profile step.
func (a Answers) ForStep(step StepID) Answers {
	switch step {
	case StepCompanySetup:
		out := Answers{
			OwnerName:    strings.TrimSpace(a.OwnerName),
			CompanyName:  strings.TrimSpace(a.CompanyName),
			CompanyType:  a.CompanyType,
			PrimaryFocus: a.PrimaryFocus,
			TeamSize:     a.TeamSize,
			Country:      strings.ToUpper(strings.TrimSpace(a.Country)),
			Currency:     strings.ToUpper(strings.TrimSpace(a.Currency)),
		}
		if out.Currency == "" {
			out.Currency = CurrencyForCountry(out.Country)
		}
		return out
	case StepBilling:
		return Answers{SelectedPlan: a.SelectedPlan}
	case StepPainPoints:
		return Answers{PainPoints: a.PainPoints}
	case StepCompanyProfile:
		out := Answers{CompanyProfile: a.CompanyProfile, PaymentTerms: a.PaymentTerms}
		if out.PaymentTerms == "" {
			out.PaymentTerms = DefaultPaymentTerms
		}
		return out
	case StepRateCard:
		configured := a.RateCardConfigured != nil && *a.RateCardConfigured
		return Answers{RateCardConfigured: &configured}
	case StepFirstAction:
		return Answers{FirstAction: a.FirstAction}
	default:
		return Answers{}
	}
}

// Merge overlays the non-empty fields of patch onto a.
func (a Answers) Merge(patch Answers) Answers {
	setString(&a.OwnerName, patch.OwnerName)
	setString(&a.CompanyName, patch.CompanyName)
	setString(&a.CompanyType, patch.CompanyType)
	setString(&a.TeamSize, patch.TeamSize)
	setString(&a.Country, patch.Country)
	setString(&a.Currency, patch.Currency)
	setString(&a.PaymentTerms, patch.PaymentTerms)
	setString(&a.FirstAction, patch.FirstAction)
	setString(&a.SelectedPlan, patch.SelectedPlan)
	if len(patch.PrimaryFocus) > 0 {
		a.PrimaryFocus = patch.PrimaryFocus
	}
	if len(patch.PainPoints) > 0 {
		a.PainPoints = patch.PainPoints
	}
	if patch.CompanyProfile != nil {
		a.CompanyProfile = patch.CompanyProfile
	}
	if patch.RateCardConfigured != nil {
		a.RateCardConfigured = patch.RateCardConfigured
	}
	return a
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
