package onboarding

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/spf13/cobra"
)

var skipCmd = &cobra.Command{
	Use:   "skip [step]",
	Short: "Skip an optional onboarding step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}

		p, err := app.Saga.SkipStep(cmd.Context(), userID, domain.StepID(args[0]))
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, p, func(w io.Writer) {
			fmt.Fprintf(w, "Skipped %s\n", args[0])
			printProgress(w, p)
		})
	},
}
