package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	onboardingCmd "github.com/felixgeelhaar/onramp/adapter/cli/onboarding"
	orgCmd "github.com/felixgeelhaar/onramp/adapter/cli/org"
	paymentCmd "github.com/felixgeelhaar/onramp/adapter/cli/payment"
	remindersCmd "github.com/felixgeelhaar/onramp/adapter/cli/reminders"
	trialCmd "github.com/felixgeelhaar/onramp/adapter/cli/trial"
	internalApp "github.com/felixgeelhaar/onramp/internal/app"
	onboardingDomain "github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	paymentDomain "github.com/felixgeelhaar/onramp/internal/payment/domain"
	sharedDomain "github.com/felixgeelhaar/onramp/internal/shared/domain"
	trialApplication "github.com/felixgeelhaar/onramp/internal/trial/application"
	trialDomain "github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/felixgeelhaar/onramp/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cli.AddCommand(onboardingCmd.Cmd)
	cli.AddCommand(paymentCmd.Cmd)
	cli.AddCommand(trialCmd.Cmd)
	cli.AddCommand(orgCmd.Cmd)
	cli.AddCommand(remindersCmd.Cmd)
	cli.Root().SetErr(io.Discard)
	os.Exit(m.Run())
}

type harness struct {
	t     *testing.T
	user  uuid.UUID
	clock *sharedDomain.FixedClock
	out   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{
		AppEnv:                  "test",
		LocalMode:               true,
		DatabaseDriver:          "sqlite",
		SQLitePath:              filepath.Join(t.TempDir(), "cli.db"),
		TrialDuration:           48 * time.Hour,
		TrialReminderDays:       []int{3, 1, 0},
		BannerSessionTTL:        time.Hour,
		PaymentTimeout:          time.Second,
		PaymentMaxRetries:       1,
		PaymentBreakerThreshold: 5,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	h := &harness{
		t:     t,
		user:  uuid.New(),
		clock: &sharedDomain.FixedClock{At: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)},
	}

	container, err := internalApp.NewLocalContainer(context.Background(), cfg, logger, internalApp.WithClock(h.clock))
	require.NoError(t, err)
	t.Cleanup(func() {
		container.Close()
		cli.SetApp(nil)
	})
	cli.SetLogger(logger)
	cli.SetApp(cli.AppFromContainer(container))
	return h
}

// run executes the root command as the harness user with JSON output.
func (h *harness) run(args ...string) error {
	h.t.Helper()
	h.out.Reset()
	root := cli.Root()
	root.SetOut(&h.out)
	root.SetArgs(append(args, "--user", h.user.String(), "--json"))
	return root.ExecuteContext(context.Background())
}

func (h *harness) decode(v any) {
	h.t.Helper()
	require.NoError(h.t, json.Unmarshal(h.out.Bytes(), v), h.out.String())
}

func (h *harness) companySetup() {
	h.t.Helper()
	require.NoError(h.t, h.run("onboarding", "complete", "company_setup",
		"--owner", "Ada Reyes",
		"--company", "Reyes Films",
		"--type", "video_production",
		"--team-size", onboardingDomain.TeamSizeJustMe,
		"--country", "us",
	))
}

func (h *harness) finishOnboarding() *onboardingDomain.Progress {
	h.t.Helper()
	var p onboardingDomain.Progress
	require.NoError(h.t, h.run("onboarding", "status"))
	h.decode(&p)
	for p.CurrentStep != onboardingDomain.StepFirstAction {
		require.NoError(h.t, h.run("onboarding", "skip", string(p.CurrentStep)))
		h.decode(&p)
	}
	require.NoError(h.t, h.run("onboarding", "complete", "first_action", "--first-action", onboardingDomain.FirstActionExploreDashboard))
	h.decode(&p)
	return &p
}

func TestCLI_OnboardingToExpiredTrial(t *testing.T) {
	h := newHarness(t)

	h.companySetup()
	var p onboardingDomain.Progress
	h.decode(&p)
	assert.Equal(t, "Reyes Films", p.Answers.CompanyName)
	assert.Equal(t, "USD", p.Answers.Currency)
	assert.Equal(t, onboardingDomain.StepBilling, p.CurrentStep)

	require.NoError(t, h.run("payment", "decline"))
	p = *h.finishOnboarding()
	require.NotNil(t, p.CompletedAt)
	require.NotNil(t, p.OrganizationID)

	var org map[string]any
	require.NoError(t, h.run("org", "show"))
	h.decode(&org)
	assert.Equal(t, "Reyes Films", org["name"])
	assert.Equal(t, "trialing", org["subscription_status"])
	assert.Len(t, org["members"], 1)

	var report trialApplication.StatusReport
	require.NoError(t, h.run("trial", "status"))
	h.decode(&report)
	assert.Equal(t, trialDomain.StatusActive, report.Status.Status)
	assert.Equal(t, 48, report.Status.HoursRemaining)

	require.NoError(t, h.run("trial", "check", "create"))

	h.clock.Advance(49 * time.Hour)
	err := h.run("trial", "check", "edit")
	assert.ErrorIs(t, err, trialCmd.ErrActionBlocked)
	var d trialApplication.Decision
	h.decode(&d)
	require.NotNil(t, d.Blocked)
	assert.Equal(t, "Upgrade Now", d.Blocked.ActionText)

	require.NoError(t, h.run("trial", "check", "export"))
}

func TestCLI_PaymentConfirm(t *testing.T) {
	h := newHarness(t)

	err := h.run("payment", "confirm", "--payment-method", "pm_card_visa")
	assert.Error(t, err, "payment before company setup")

	h.companySetup()
	err = h.run("payment", "confirm", "--payment-method", "pm_card_chargeDeclined", "--email", "ada@example.com")
	require.Error(t, err)

	require.NoError(t, h.run("payment", "confirm", "--payment-method", "pm_card_visa", "--email", "ada@example.com"))
	var p onboardingDomain.Progress
	h.decode(&p)
	assert.Equal(t, onboardingDomain.PaymentChoiceCaptured, p.PaymentChoice)
	assert.NotEmpty(t, p.CustomerRef)
	assert.True(t, p.HasCompleted(onboardingDomain.StepBilling))
}

func TestCLI_Checklist(t *testing.T) {
	h := newHarness(t)
	h.companySetup()
	require.NoError(t, h.run("payment", "decline"))
	h.finishOnboarding()

	var view map[string]any
	require.NoError(t, h.run("onboarding", "checklist", "mark", string(onboardingDomain.ItemFirstClientAdded)))
	h.decode(&view)
	assert.Equal(t, true, view["items"].(map[string]any)[string(onboardingDomain.ItemFirstClientAdded)])

	require.NoError(t, h.run("onboarding", "checklist", "dismiss"))
	h.decode(&view)
	assert.Equal(t, true, view["dismissed"])

	require.NoError(t, h.run("onboarding", "checklist", "reset"))
	h.decode(&view)
	assert.Equal(t, false, view["dismissed"])

	assert.Error(t, h.run("onboarding", "checklist", "mark", "bake_cake"))
}

func TestCLI_RemindersDryRun(t *testing.T) {
	h := newHarness(t)
	h.companySetup()
	require.NoError(t, h.run("payment", "decline"))
	h.finishOnboarding()
	h.clock.Advance(24 * time.Hour)

	require.NoError(t, h.run("reminders", "run", "--dry-run"))
	var report trialApplication.SweepReport
	h.decode(&report)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Count(trialApplication.ReminderWouldQueue))
}

func TestCLI_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	root := cli.Root()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"trial", "status", uuid.New().String()})

	assert.ErrorIs(t, root.ExecuteContext(context.Background()), cli.ErrNotInitialized)
}

func TestCLI_Version(t *testing.T) {
	var out bytes.Buffer
	root := cli.Root()
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--short"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, cli.Version+"\n", out.String())
}

func TestFriendly_HidesProviderText(t *testing.T) {
	var logs bytes.Buffer
	cli.SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { cli.SetLogger(nil) })

	cause := &paymentDomain.ProviderError{Code: "api_key_expired", Message: "Expired API Key provided: sk_live_abc123"}
	wrapped := fmt.Errorf("%w: %w", paymentDomain.ErrPaymentFormUnavailable, cause)

	var out bytes.Buffer
	cmd := &cobra.Command{
		Use: "setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Friendly(cmd, wrapped)
		},
	}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Unable to initialize payment form. Please try again.", err.Error())
	assert.NotContains(t, out.String(), "sk_live_abc123")
	assert.NotContains(t, out.String(), "api_key_expired")

	var providerErr *paymentDomain.ProviderError
	assert.ErrorAs(t, err, &providerErr)
	assert.ErrorIs(t, err, paymentDomain.ErrPaymentFormUnavailable)
	assert.Contains(t, logs.String(), "api_key_expired")
}

func TestFriendly_UnmappedErrorsAreGeneric(t *testing.T) {
	h := newHarness(t)

	err := h.run("org", "show", uuid.NewString())

	require.Error(t, err)
	assert.Equal(t, "An unexpected error occurred.", err.Error())
	assert.NotContains(t, h.out.String(), "not found")
}
