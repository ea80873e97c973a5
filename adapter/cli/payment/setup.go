package payment

import (
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Open a payment form",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}

		session, err := app.Saga.BeginPaymentSetup(cmd.Context(), userID, billingEmail)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, session, func(w io.Writer) { printSession(w, session) })
	},
}
