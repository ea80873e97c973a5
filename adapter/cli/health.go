package cli

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/pkg/observability"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and cache connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := RequireApp()
		if err != nil {
			return err
		}
		if a.Health == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}
		report := a.Health.Check(cmd.Context())
		if err := Render(cmd, report, func(w io.Writer) {
			fmt.Fprintf(w, "status: %s\n", report.Status)
			for _, name := range a.Health.Names() {
				check := report.Checks[name]
				fmt.Fprintf(w, "  %-10s %s %s\n", name, check.Status, check.Message)
			}
		}); err != nil {
			return err
		}
		if report.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
