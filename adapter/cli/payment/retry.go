package payment

import (
	"errors"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/spf13/cobra"
)

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Replace the payment form with a fresh one",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}

		session, err := app.Saga.RetryPaymentSetup(cmd.Context(), userID)
		if errors.Is(err, domain.ErrNoSetupSession) {
			session, err = app.Saga.BeginPaymentSetup(cmd.Context(), userID, billingEmail)
		}
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, session, func(w io.Writer) { printSession(w, session) })
	},
}
