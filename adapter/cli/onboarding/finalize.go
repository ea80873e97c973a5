package onboarding

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/spf13/cobra"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Finish onboarding and start the trial",
	Long: `Finalize provisions the organization if it does not exist yet,
writes the settings snapshot and creates the getting-started checklist.
Running it again after success is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}

		p, err := app.Saga.Finalize(cmd.Context(), userID)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, p, func(w io.Writer) {
			fmt.Fprintln(w, "Setup complete. Your trial has started.")
			printProgress(w, p)
		})
	},
}
