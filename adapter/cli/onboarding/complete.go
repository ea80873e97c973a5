package onboarding

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/spf13/cobra"
)

var (
	dataJSON     string
	ownerName    string
	companyName  string
	companyType  string
	primaryFocus []string
	teamSize     string
	country      string
	currency     string
	painPoints   []string
	selectedPlan string
	paymentTerms string
	rateCard     bool
	firstAction  string
)

var completeCmd = &cobra.Command{
	Use:   "complete [step]",
	Short: "Complete an onboarding step",
	Long: `Complete a step with its answers. Answers come from flags or a JSON
document passed with --data; flags win over the document.

Steps:
  company_setup    owner, company name, type, focus, team size, country
  billing          selected plan
  pain_points      pain points
  company_profile  profile and payment terms
  team_invite      (no answers)
  data_import      (no answers)
  rate_card        whether rates were configured
  first_action     create_quote, add_project or explore_dashboard

Examples:
  onramp onboarding complete company_setup --owner "Ada" --company "Ada Films" \
    --type video_production --focus commercials --team-size just_me --country US
  onramp onboarding complete first_action --first-action explore_dashboard`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}
		answers, err := answersFromFlags(cmd)
		if err != nil {
			return err
		}

		p, err := app.Saga.CompleteStep(cmd.Context(), userID, domain.StepID(args[0]), answers)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, p, func(w io.Writer) {
			fmt.Fprintf(w, "Completed %s\n", args[0])
			printProgress(w, p)
		})
	},
}

func answersFromFlags(cmd *cobra.Command) (domain.Answers, error) {
	var a domain.Answers
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &a); err != nil {
			return a, fmt.Errorf("invalid --data: %w", err)
		}
	}

	flags := cmd.Flags()
	setString := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setString("owner", &a.OwnerName, ownerName)
	setString("company", &a.CompanyName, companyName)
	setString("type", &a.CompanyType, companyType)
	setString("team-size", &a.TeamSize, teamSize)
	setString("country", &a.Country, country)
	setString("currency", &a.Currency, currency)
	setString("plan", &a.SelectedPlan, selectedPlan)
	setString("payment-terms", &a.PaymentTerms, paymentTerms)
	setString("first-action", &a.FirstAction, firstAction)
	if flags.Changed("focus") {
		a.PrimaryFocus = primaryFocus
	}
	if flags.Changed("pain-point") {
		a.PainPoints = painPoints
	}
	if flags.Changed("rate-card") {
		configured := rateCard
		a.RateCardConfigured = &configured
	}
	return a, nil
}

func init() {
	f := completeCmd.Flags()
	f.StringVar(&dataJSON, "data", "", "answers as a JSON document")
	f.StringVar(&ownerName, "owner", "", "owner name")
	f.StringVar(&companyName, "company", "", "company name")
	f.StringVar(&companyType, "type", "", "company type")
	f.StringSliceVar(&primaryFocus, "focus", nil, "primary focus (repeatable)")
	f.StringVar(&teamSize, "team-size", "", "team size (just_me, 2-5, 6-15, 16+)")
	f.StringVar(&country, "country", "", "ISO country code")
	f.StringVar(&currency, "currency", "", "ISO currency code (defaults from country)")
	f.StringSliceVar(&painPoints, "pain-point", nil, "pain point (repeatable)")
	f.StringVar(&selectedPlan, "plan", "", "selected plan")
	f.StringVar(&paymentTerms, "payment-terms", "", "default payment terms")
	f.BoolVar(&rateCard, "rate-card", false, "rates were configured")
	f.StringVar(&firstAction, "first-action", "", "first action")
}
