package trial

import (
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/internal/trial/domain"
	"github.com/spf13/cobra"
)

// ErrActionBlocked is returned when the checked action is denied.
var ErrActionBlocked = errors.New("action blocked: trial expired")

var checkCmd = &cobra.Command{
	Use:   "check [action] [organization-id]",
	Short: "Check whether an action is allowed",
	Long: `Check whether an action is allowed under the organization's trial.
Exits non-zero when the action is blocked.

Actions:
  view, list, export, download   always allowed
  create, edit, delete           denied once the trial has expired`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		orgID, err := cli.OrganizationID(cmd.Context(), cmd, args[1:])
		if err != nil {
			return err
		}

		d, err := app.Gate.Check(cmd.Context(), orgID, domain.Action(args[0]))
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		if err := cli.Render(cmd, d, func(w io.Writer) {
			if d.Allowed {
				fmt.Fprintf(w, "%s: allowed\n", d.Action)
				return
			}
			fmt.Fprintf(w, "%s: %s\n  %s\n  [%s]\n", d.Action, d.Blocked.Title, d.Blocked.Message, d.Blocked.ActionText)
		}); err != nil {
			return err
		}
		if !d.Allowed {
			return ErrActionBlocked
		}
		return nil
	},
}
