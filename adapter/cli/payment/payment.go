// Package payment holds the billing step commands.
//
// Payment form sessions live in the process that opened them, so confirm
// and retry open their own session when no client secret from an earlier
// call in this process is available.
package payment

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/spf13/cobra"
)

var billingEmail string

// Cmd is the payment command group
var Cmd = &cobra.Command{
	Use:   "payment",
	Short: "Capture or decline a payment method",
	Long:  `Open a payment form, confirm a payment method, start over with a fresh form or continue without one.`,
}

func init() {
	Cmd.PersistentFlags().StringVar(&billingEmail, "email", "", "billing email for the provider customer")

	Cmd.AddCommand(setupCmd)
	Cmd.AddCommand(confirmCmd)
	Cmd.AddCommand(retryCmd)
	Cmd.AddCommand(declineCmd)
}

func printSession(w io.Writer, s *domain.FormSession) {
	fmt.Fprintf(w, "Payment form ready (attempt %d)\n", s.Attempt)
	fmt.Fprintf(w, "  Client secret: %s\n", s.ClientSecret)
	fmt.Fprintf(w, "  Customer:      %s\n", s.CustomerRef)
	if s.ShowStartFresh {
		fmt.Fprintln(w, "  Having trouble? Run 'onramp payment retry' to start fresh.")
	}
}
