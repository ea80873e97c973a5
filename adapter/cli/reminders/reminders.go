// Package reminders holds the trial reminder sweep command.
package reminders

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	trialApplication "github.com/felixgeelhaar/onramp/internal/trial/application"
	"github.com/spf13/cobra"
)

var dryRun bool

// Cmd is the reminders command group
var Cmd = &cobra.Command{
	Use:   "reminders",
	Short: "Queue trial ending reminders",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one reminder sweep now",
	Long: `Queue a reminder for every trial ending in one of the configured
day windows. Each organization gets at most one reminder per window per
day. --dry-run reports what would be queued without writing anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		report, err := app.Sweeper.Run(cmd.Context(), dryRun)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, report, func(w io.Writer) {
			mode := ""
			if report.DryRun {
				mode = " (dry run)"
			}
			fmt.Fprintf(w, "Reminder sweep at %s%s\n", report.RanAt.Format("2006-01-02 15:04 MST"), mode)
			for _, r := range report.Results {
				fmt.Fprintf(w, "  %-12s %-30s %d days", r.Outcome, r.Name, r.DaysRemaining)
				if r.Error != "" {
					fmt.Fprintf(w, "  %s", r.Error)
				}
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "queued %d, skipped %d, failed %d\n",
				report.Count(trialApplication.ReminderQueued)+report.Count(trialApplication.ReminderWouldQueue),
				report.Count(trialApplication.ReminderSkipped),
				report.Count(trialApplication.ReminderFailed),
			)
		})
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without queueing")
	Cmd.AddCommand(runCmd)
}
