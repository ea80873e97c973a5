package payment

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/spf13/cobra"
)

var declineCmd = &cobra.Command{
	Use:   "decline",
	Short: "Continue without a payment method",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}

		p, err := app.Saga.DeclinePayment(cmd.Context(), userID)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, p, func(w io.Writer) {
			fmt.Fprintln(w, "Continuing without a payment method. You can add one before your trial ends.")
			fmt.Fprintf(w, "  Next step: %s\n", p.CurrentStep)
		})
	},
}
