package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCurrencyForCountry(t *testing.T) {
	assert.Equal(t, "GBP", CurrencyForCountry("GB"))
	assert.Equal(t, "EUR", CurrencyForCountry("DE"))
	assert.Equal(t, "MYR", CurrencyForCountry("MY"))
	assert.Equal(t, "USD", CurrencyForCountry("EC"))
	assert.Equal(t, DefaultCurrency, CurrencyForCountry("ZZ"))
}

func TestPreferredCurrencies(t *testing.T) {
	assert.Equal(t, []string{"GBP", "USD", "EUR"}, PreferredCurrencies("GBP"))
	assert.Equal(t, []string{"USD", "EUR", "GBP"}, PreferredCurrencies("USD"))
	assert.Equal(t, []string{"SGD", "USD", "EUR", "GBP"}, PreferredCurrencies("SGD"))
}

func TestSuggestedRatesAndCrewRoles(t *testing.T) {
	assert.Equal(t, DayRates{Junior: 350, Mid: 550, Senior: 850}, SuggestedRates("US"))
	assert.Equal(t, defaultRates, SuggestedRates("BR"))

	assert.Contains(t, DefaultCrewRoles("photography"), "Retoucher")
	assert.Equal(t, DefaultCrewRoles("other"), DefaultCrewRoles("bakery"))
}

func TestTaxDefaults(t *testing.T) {
	assert.Equal(t, "VAT", TaxDefaults("GB").TaxName)

	unknown := TaxDefaults("BR")
	assert.Equal(t, "BR", unknown.Country)
	assert.Zero(t, unknown.Rate)
}

func TestPersonalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := Personalize(nil)

		assert.Equal(t, []string{"quotes", "revenue", "projects", "clients"}, p.DashboardWidgetOrder)
		assert.Equal(t, FirstActionCreateQuote, p.RecommendedFirstAction)
		assert.Empty(t, p.PriorityFeatures)
	})

	t.Run("no visibility recommends a project", func(t *testing.T) {
		p := Personalize([]string{"no_visibility", "deliverables"})

		assert.Equal(t, FirstActionAddProject, p.RecommendedFirstAction)
		assert.Equal(t, []string{"projects"}, p.PriorityFeatures)
	})

	t.Run("chasing payments wins the widget order", func(t *testing.T) {
		p := Personalize([]string{"margins_unknown", "chasing_payments", "quoting_slow"})

		assert.Equal(t, []string{"invoices", "revenue", "quotes", "projects"}, p.DashboardWidgetOrder)
		assert.Equal(t, FirstActionCreateQuote, p.RecommendedFirstAction)
		assert.Equal(t, []string{"dashboard", "invoices", "quotes"}, p.PriorityFeatures)
	})
}

func TestNewSettingsSnapshot(t *testing.T) {
	a := companySetup("2-5").ForStep(StepCompanySetup)
	a = a.Merge(Answers{CompanyProfile: &CompanyProfile{Website: "https://northlight.example"}})

	snap := NewSettingsSnapshot(uuid.New(), a, epoch)

	assert.Equal(t, "GBP", snap.QuoteDefaults.Currency)
	assert.Equal(t, QuoteValidityDays, snap.QuoteDefaults.ValidityDays)
	assert.Equal(t, DefaultPaymentTerms, snap.QuoteDefaults.PaymentTerms)
	assert.Equal(t, []string{"GBP", "USD", "EUR"}, snap.PreferredCurrencies)
	assert.Equal(t, "https://northlight.example", snap.Company.Website)
	assert.Equal(t, "GB", snap.Tax.Country)
	assert.NotNil(t, snap.Personalization.PainPoints)
}

func TestChecklist(t *testing.T) {
	c := NewChecklist(uuid.New(), uuid.New(), epoch)

	assert.Equal(t, 1, c.Completed())
	assert.Equal(t, 14, c.ProgressPercent())

	assert.NoError(t, c.Mark(ItemCompanyProfileSetup, epoch))
	assert.ErrorIs(t, c.Mark("unknown", epoch), ErrUnknownChecklistItem)
	assert.Equal(t, 2, c.Completed())

	c.Dismiss(epoch)
	assert.True(t, c.Dismissed)
	c.Reset(epoch)
	assert.False(t, c.Dismissed)

	for _, e := range c.Entries() {
		_ = c.Mark(e.Item, epoch)
	}
	assert.True(t, c.AllComplete())
	assert.Equal(t, 100, c.ProgressPercent())
}
