// Package trial holds the trial status, access and banner commands.
package trial

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/spf13/cobra"
)

// Cmd is the trial command group
var Cmd = &cobra.Command{
	Use:   "trial",
	Short: "Inspect and manage an organization's trial",
	Long:  `Show trial status, check whether an action is allowed, extend a trial and manage the trial banner.`,
}

func init() {
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(extendCmd)
	Cmd.AddCommand(bannerCmd)
	Cmd.AddCommand(dismissCmd)
}

func printStatus(w io.Writer, s domain.TrialStatus) {
	fmt.Fprintf(w, "Status: %s\n", s.Status)
	if s.TrialEndsAt != nil {
		fmt.Fprintf(w, "  Ends at:   %s\n", s.TrialEndsAt.Format("2006-01-02 15:04 MST"))
	}
	switch s.Status {
	case domain.StatusActive, domain.StatusExpiringSoon:
		fmt.Fprintf(w, "  Remaining: %dh (%d days)\n", s.HoursRemaining, s.DaysRemaining)
	case domain.StatusExpired:
		fmt.Fprintf(w, "  Read-only: %t\n", s.IsReadOnly)
		if s.GraceDaysRemaining > 0 {
			fmt.Fprintf(w, "  Grace days remaining: %d\n", s.GraceDaysRemaining)
		}
	}
	if s.WarningLevel != "" {
		fmt.Fprintf(w, "  Warning:   %s\n", s.WarningLevel)
	}
	fmt.Fprintf(w, "  Payment method on file: %t\n", s.HasPaymentMethod)
}

func printMessage(w io.Writer, m *domain.Message) {
	if m == nil {
		return
	}
	fmt.Fprintf(w, "\n%s\n  %s\n", m.Title, m.Body)
	if m.ShowUpgrade {
		fmt.Fprintln(w, "  Upgrade to keep full access.")
	}
}
