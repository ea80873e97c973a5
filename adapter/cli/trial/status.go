package trial

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [organization-id]",
	Short: "Show the trial status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		orgID, err := cli.OrganizationID(cmd.Context(), cmd, args)
		if err != nil {
			return err
		}

		report, err := app.Trial.Report(cmd.Context(), orgID)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, report, func(w io.Writer) {
			printStatus(w, report.Status)
			printMessage(w, report.Message)
			fmt.Fprintf(w, "\nRefresh every %s\n", report.RefreshInterval)
		})
	},
}
