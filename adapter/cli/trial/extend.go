package trial

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	orgApplication "github.com/felixgeelhaar/onramp/internal/organization/application"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var extendDays int

var extendCmd = &cobra.Command{
	Use:   "extend [organization-id]",
	Short: "Extend a trial",
	Long: `Extend a trial by the given number of days. The extension counts
from the current end date, so an expired trial may still be in the past
afterwards.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		orgID, err := cli.OrganizationID(cmd.Context(), cmd, args)
		if err != nil {
			return err
		}
		actor, _ := cli.UserID(cmd)

		org, err := app.Provisioner.ExtendTrial(cmd.Context(), orgApplication.ExtendTrialCommand{
			OrganizationID: orgID,
			AdditionalDays: extendDays,
			ActorUserID:    actor,
			CorrelationID:  uuid.New(),
		})
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		view := map[string]any{"organization_id": org.ID(), "trial_ends_at": org.TrialEndsAt()}
		return cli.Render(cmd, view, func(w io.Writer) {
			fmt.Fprintf(w, "Extended trial for %s by %d days\n", org.Name(), extendDays)
			if end := org.TrialEndsAt(); end != nil {
				fmt.Fprintf(w, "  Ends at: %s\n", end.Format("2006-01-02 15:04 MST"))
			}
		})
	},
}

func init() {
	extendCmd.Flags().IntVar(&extendDays, "days", 7, "days to add")
}
