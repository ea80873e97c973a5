package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuoteValidityDays is the default validity of a new quote.
const QuoteValidityDays = 30

// TaxRule is the default tax treatment for a home country.
type TaxRule struct {
	Country string  `json:"country"`
	Name    string  `json:"name"`
	TaxName string  `json:"tax_name"`
	Rate    float64 `json:"rate"`
}

var taxRules = map[string]TaxRule{
	"US": {Country: "US", Name: "United States", TaxName: "Sales Tax", Rate: 0},
	"GB": {Country: "GB", Name: "United Kingdom", TaxName: "VAT", Rate: 20},
	"DE": {Country: "DE", Name: "Germany", TaxName: "MwSt", Rate: 19},
	"FR": {Country: "FR", Name: "France", TaxName: "TVA", Rate: 20},
	"AU": {Country: "AU", Name: "Australia", TaxName: "GST", Rate: 10},
	"NZ": {Country: "NZ", Name: "New Zealand", TaxName: "GST", Rate: 15},
	"SG": {Country: "SG", Name: "Singapore", TaxName: "GST", Rate: 9},
	"MY": {Country: "MY", Name: "Malaysia", TaxName: "SST", Rate: 8},
	"CA": {Country: "CA", Name: "Canada", TaxName: "GST", Rate: 5},
	"AE": {Country: "AE", Name: "United Arab Emirates", TaxName: "VAT", Rate: 5},
}

// TaxDefaults returns the tax rule for a country. Unknown countries get a
// zero-rate rule carrying the country code.
func TaxDefaults(country string) TaxRule {
	if r, ok := taxRules[country]; ok {
		return r
	}
	return TaxRule{Country: country, Name: country, TaxName: "Tax", Rate: 0}
}

// CompanySettings is the company block of the settings snapshot.
type CompanySettings struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// QuoteDefaults are applied to new quotes.
type QuoteDefaults struct {
	Currency     string `json:"currency"`
	ValidityDays int    `json:"validity_days"`
	PaymentTerms string `json:"payment_terms"`
}

// PersonalizationSettings records what the user told us about the business.
type PersonalizationSettings struct {
	CompanyType  string   `json:"company_type"`
	PrimaryFocus []string `json:"primary_focus"`
	PainPoints   []string `json:"pain_points"`
	Personalization
}

// SettingsSnapshot is written once for a new organization.
type SettingsSnapshot struct {
	OrganizationID      uuid.UUID               `json:"organization_id"`
	Company             CompanySettings         `json:"company"`
	QuoteDefaults       QuoteDefaults           `json:"quote_defaults"`
	PreferredCurrencies []string                `json:"preferred_currencies"`
	Tax                 TaxRule                 `json:"tax"`
	Personalization     PersonalizationSettings `json:"personalization"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

// NewSettingsSnapshot derives the organization settings from the answers.
func NewSettingsSnapshot(orgID uuid.UUID, a Answers, now time.Time) SettingsSnapshot {
	currency := a.Currency
	if currency == "" {
		currency = CurrencyForCountry(a.Country)
	}
	terms := a.PaymentTerms
	if terms == "" {
		terms = DefaultPaymentTerms
	}

	snap := SettingsSnapshot{
		OrganizationID: orgID,
		Company: CompanySettings{
			Name:    a.CompanyName,
			Country: a.Country,
		},
		QuoteDefaults: QuoteDefaults{
			Currency:     currency,
			ValidityDays: QuoteValidityDays,
			PaymentTerms: terms,
		},
		PreferredCurrencies: PreferredCurrencies(currency),
		Tax:                 TaxDefaults(a.Country),
		Personalization: PersonalizationSettings{
			CompanyType:     a.CompanyType,
			PrimaryFocus:    nonNil(a.PrimaryFocus),
			PainPoints:      nonNil(a.PainPoints),
			Personalization: Personalize(a.PainPoints),
		},
		UpdatedAt: now,
	}
	if p := a.CompanyProfile; p != nil {
		snap.Company.Address = p.Address
		snap.Company.Phone = p.Phone
		snap.Company.Website = p.Website
		snap.Company.Logo = p.LogoURL
	}
	return snap
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
