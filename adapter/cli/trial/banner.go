package trial

import (
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/spf13/cobra"
)

var sessionID string

var bannerCmd = &cobra.Command{
	Use:   "banner [organization-id]",
	Short: "Show the trial banner for a session",
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

		banner, err := app.Trial.Banner(cmd.Context(), sessionID, orgID)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		return cli.Render(cmd, banner, func(w io.Writer) {
			if !banner.Visible {
				fmt.Fprintln(w, "No banner")
				return
			}
			printMessage(w, banner.Message)
			if banner.Dismissible {
				fmt.Fprintln(w, "  (dismissible)")
			}
		})
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [organization-id]",
	Short: "Dismiss the trial banner for a session",
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

		if err := app.Trial.DismissBanner(cmd.Context(), sessionID, orgID); err != nil {
			return cli.Friendly(cmd, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Banner dismissed for this session")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{bannerCmd, dismissCmd} {
		c.Flags().StringVar(&sessionID, "session", "", "browser session id")
	}
}
