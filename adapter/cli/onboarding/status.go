package onboarding

import (
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show onboarding progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}

		p, err := app.Saga.LoadProgress(cmd.Context(), userID)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, p, func(w io.Writer) { printProgress(w, p) })
	},
}

func printProgress(w io.Writer, p *domain.Progress) {
	if p.CompletedAt != nil {
		fmt.Fprintf(w, "Onboarding complete (%s)\n", p.CompletedAt.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintf(w, "Current step: %s\n", p.CurrentStep)
	}
	fmt.Fprintf(w, "  Completed: %s\n", joinSteps(p.CompletedSteps))
	if len(p.SkippedSteps) > 0 {
		fmt.Fprintf(w, "  Skipped:   %s\n", joinSteps(p.SkippedSteps))
	}
	if p.PaymentChoice != "" {
		fmt.Fprintf(w, "  Payment:   %s\n", p.PaymentChoice)
	}
	if p.OrganizationID != nil {
		fmt.Fprintf(w, "  Organization: %s\n", p.OrganizationID)
	}
}

func joinSteps(steps []domain.StepID) string {
	if len(steps) == 0 {
		return "-"
	}
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
