package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func companySetup(teamSize string) Answers {
	return Answers{
		OwnerName:   "Dana Reyes",
		CompanyName: "Northlight Films",
		CompanyType: "video_production",
		TeamSize:    teamSize,
		Country:     "gb",
	}
}

func TestNextStep(t *testing.T) {
	tests := []struct {
		from     StepID
		teamSize string
		want     StepID
	}{
		{StepCompanySetup, "2-5", StepBilling},
		{StepCompanyProfile, "2-5", StepTeamInvite},
		{StepCompanyProfile, TeamSizeJustMe, StepDataImport},
		{StepRateCard, "", StepFirstAction},
		{StepFirstAction, "", StepComplete},
		{StepID("bogus"), "", StepComplete},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.teamSize, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStep(tt.from, tt.teamSize))
		})
	}
}

func TestProgress_CompleteStepAdvances(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)
	require.Equal(t, StepCompanySetup, p.CurrentStep)

	require.NoError(t, p.CompleteStep(StepCompanySetup, companySetup("2-5").ForStep(StepCompanySetup), epoch))

	assert.Equal(t, StepBilling, p.CurrentStep)
	assert.Equal(t, []StepID{StepCompanySetup}, p.CompletedSteps)
	assert.Equal(t, "GBP", p.Answers.Currency)
	assert.Equal(t, "GB", p.Answers.Country)
}

func TestProgress_ResubmitNeverMovesBackward(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)
	require.NoError(t, p.CompleteStep(StepCompanySetup, companySetup("2-5").ForStep(StepCompanySetup), epoch))
	require.NoError(t, p.SkipStep(StepBilling, epoch))
	require.NoError(t, p.CompleteStep(StepPainPoints, Answers{PainPoints: []string{"quoting_slow"}}, epoch))
	require.Equal(t, StepCompanyProfile, p.CurrentStep)

	edited := companySetup("6-15")
	edited.CompanyName = "Northlight Studios"
	require.NoError(t, p.CompleteStep(StepCompanySetup, edited.ForStep(StepCompanySetup), epoch))

	assert.Equal(t, StepCompanyProfile, p.CurrentStep)
	assert.Equal(t, "Northlight Studios", p.Answers.CompanyName)
	assert.Equal(t, []string{"quoting_slow"}, p.Answers.PainPoints)
	assert.Equal(t, []StepID{StepCompanySetup, StepPainPoints}, p.CompletedSteps)
}

func TestProgress_StepAheadRejected(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)

	err := p.CompleteStep(StepFirstAction, Answers{FirstAction: FirstActionCreateQuote}, epoch)

	assert.ErrorIs(t, err, ErrStepAhead)
	assert.Equal(t, StepCompanySetup, p.CurrentStep)
	assert.Empty(t, p.CompletedSteps)
}

func TestProgress_SkipRequiredStep(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)

	err := p.SkipStep(StepCompanySetup, epoch)

	assert.ErrorIs(t, err, ErrStepNotSkippable)
	assert.Equal(t, StepCompanySetup, p.CurrentStep)
}

func TestProgress_SoloSkipsTeamInvite(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)
	require.NoError(t, p.CompleteStep(StepCompanySetup, companySetup(TeamSizeJustMe).ForStep(StepCompanySetup), epoch))
	require.NoError(t, p.SkipStep(StepBilling, epoch))
	require.NoError(t, p.SkipStep(StepPainPoints, epoch))
	require.NoError(t, p.SkipStep(StepCompanyProfile, epoch))

	assert.Equal(t, StepDataImport, p.CurrentStep)
	assert.Equal(t, []StepID{StepBilling, StepPainPoints, StepCompanyProfile}, p.SkippedSteps)
	assert.NotContains(t, p.CompletedSteps, StepBilling)
}

func TestProgress_UnknownStep(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)

	assert.ErrorIs(t, p.CompleteStep("bogus", Answers{}, epoch), ErrUnknownStep)
	assert.ErrorIs(t, p.SkipStep(StepComplete, epoch), ErrUnknownStep)
}

func TestProgress_Finalize(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)
	orgID := uuid.New()

	p.AttachOrganization(orgID, epoch)
	p.AttachOrganization(uuid.New(), epoch)
	p.MarkFinalized(epoch)

	require.NotNil(t, p.OrganizationID)
	assert.Equal(t, orgID, *p.OrganizationID)
	assert.True(t, p.IsComplete())
	assert.False(t, p.AwaitingFinalize())
}

func TestProgress_PaymentCustomerForOrganization(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)

	p.RecordPaymentChoice(PaymentChoiceNone, "cus_1", epoch)
	assert.Empty(t, p.PaymentCustomerForOrganization())

	p.RecordPaymentChoice(PaymentChoiceCaptured, "", epoch)
	assert.Equal(t, "cus_1", p.PaymentCustomerForOrganization())

	p.RecordPaymentChoice(PaymentChoiceDeclined, "", epoch)
	assert.Empty(t, p.PaymentCustomerForOrganization())
}

func TestProgress_SkippingBillingDeclinesPayment(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)
	require.NoError(t, p.CompleteStep(StepCompanySetup, companySetup("2-5"), epoch))

	require.NoError(t, p.SkipStep(StepBilling, epoch))

	assert.Equal(t, PaymentChoiceDeclined, p.PaymentChoice)
	assert.Contains(t, p.SkippedSteps, StepBilling)
}

func TestProgress_SkippingCompletedBillingKeepsCapture(t *testing.T) {
	p := NewProgress(uuid.New(), epoch)
	require.NoError(t, p.CompleteStep(StepCompanySetup, companySetup("2-5"), epoch))
	p.RecordPaymentChoice(PaymentChoiceCaptured, "cus_1", epoch)
	require.NoError(t, p.CompleteStep(StepBilling, Answers{SelectedPlan: DefaultPlan}, epoch))

	require.NoError(t, p.SkipStep(StepBilling, epoch))

	assert.Equal(t, PaymentChoiceCaptured, p.PaymentChoice)
	assert.NotContains(t, p.SkippedSteps, StepBilling)
}
