package payment

import (
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/spf13/cobra"
)

var (
	paymentMethod string
	clientSecret  string
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Confirm a payment method",
	Long: `Confirm a payment method against the open payment form. Without
--client-secret a form is opened first.

With the local simulator, pm_card_visa succeeds and the
pm_card_chargeDeclined* tokens produce the matching decline.

Examples:
  onramp payment confirm --payment-method pm_card_visa --email ada@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}

		secret := clientSecret
		if secret == "" {
			session, err := app.Saga.BeginPaymentSetup(cmd.Context(), userID, billingEmail)
			if err != nil {
				return cli.Friendly(cmd, err)
			}
			secret = session.ClientSecret
		}

		p, err := app.Saga.ConfirmPayment(cmd.Context(), userID, secret, paymentMethod)
		if err != nil {
			var decline *domain.DeclineError
			if errors.As(err, &decline) {
				return errors.New(decline.UserMessage())
			}
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, p, func(w io.Writer) {
			fmt.Fprintln(w, "Payment method saved.")
			fmt.Fprintf(w, "  Customer: %s\n", p.CustomerRef)
			fmt.Fprintf(w, "  Next step: %s\n", p.CurrentStep)
		})
	},
}

func init() {
	confirmCmd.Flags().StringVar(&paymentMethod, "payment-method", "", "payment method token")
	confirmCmd.Flags().StringVar(&clientSecret, "client-secret", "", "client secret of the open form")
	_ = confirmCmd.MarkFlagRequired("payment-method")
}
