package onboarding

import (
	"context"
	"fmt"
	"io"

	"github.com/felixgeelhaar/onramp/adapter/cli"
	"github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist [organization-id]",
	Short: "Show the getting-started checklist",
	Args:  cobra.MaximumNArgs(1),
	RunE: checklistAction(func(ctx context.Context, app *cli.App, userID, orgID uuid.UUID, _ []string) (*domain.Checklist, error) {
		return app.Saga.Checklist(ctx, userID, orgID)
	}),
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss [organization-id]",
	Short: "Hide the checklist",
	Args:  cobra.MaximumNArgs(1),
	RunE: checklistAction(func(ctx context.Context, app *cli.App, userID, orgID uuid.UUID, _ []string) (*domain.Checklist, error) {
		return app.Saga.DismissChecklist(ctx, userID, orgID)
	}),
}

var minimizeCmd = &cobra.Command{
	Use:   "minimize [organization-id]",
	Short: "Collapse the checklist",
	Args:  cobra.MaximumNArgs(1),
	RunE: checklistAction(func(ctx context.Context, app *cli.App, userID, orgID uuid.UUID, _ []string) (*domain.Checklist, error) {
		return app.Saga.MinimizeChecklist(ctx, userID, orgID, true)
	}),
}

var restoreCmd = &cobra.Command{
	Use:   "restore [organization-id]",
	Short: "Expand a minimized checklist",
	Args:  cobra.MaximumNArgs(1),
	RunE: checklistAction(func(ctx context.Context, app *cli.App, userID, orgID uuid.UUID, _ []string) (*domain.Checklist, error) {
		return app.Saga.MinimizeChecklist(ctx, userID, orgID, false)
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset [organization-id]",
	Short: "Show a dismissed checklist again",
	Args:  cobra.MaximumNArgs(1),
	RunE: checklistAction(func(ctx context.Context, app *cli.App, userID, orgID uuid.UUID, _ []string) (*domain.Checklist, error) {
		return app.Saga.ResetChecklist(ctx, userID, orgID)
	}),
}

var markCmd = &cobra.Command{
	Use:   "mark [item] [organization-id]",
	Short: "Mark a checklist item done",
	Long: `Mark a checklist item done.

Items:
  company_profile_setup, rates_configured, first_client_added,
  first_quote_created, first_crew_added, first_project_created`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		item := domain.ChecklistItem(args[0])
		return checklistAction(func(ctx context.Context, app *cli.App, userID, orgID uuid.UUID, _ []string) (*domain.Checklist, error) {
			return app.Saga.MarkChecklistItem(ctx, userID, orgID, item)
		})(cmd, args[1:])
	},
}

type checklistFunc func(ctx context.Context, app *cli.App, userID, orgID uuid.UUID, args []string) (*domain.Checklist, error)

func checklistAction(fn checklistFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		userID, err := cli.UserID(cmd)
		if err != nil {
			return err
		}
		orgID, err := cli.OrganizationID(cmd.Context(), cmd, args)
		if err != nil {
			return err
		}

		c, err := fn(cmd.Context(), app, userID, orgID, args)
		if err != nil {
			return cli.Friendly(cmd, err)
		}
		view := checklistView{Checklist: c, Entries: c.Entries(), Percent: c.ProgressPercent()}
		return cli.Render(cmd, view, func(w io.Writer) { printChecklist(w, view) })
	}
}

type checklistView struct {
	*domain.Checklist
	Entries []domain.ChecklistEntry `json:"entries"`
	Percent int                     `json:"progress_percent"`
}

func printChecklist(w io.Writer, v checklistView) {
	switch {
	case v.Dismissed:
		fmt.Fprintln(w, "Checklist dismissed (use 'checklist reset' to show it again)")
		return
	case v.Minimized:
		fmt.Fprintf(w, "Getting started: %d%% (minimized)\n", v.Percent)
		return
	}
	fmt.Fprintf(w, "Getting started: %d%%\n", v.Percent)
	for _, e := range v.Entries {
		box := "[ ]"
		if e.Done {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %-24s %s\n", box, e.Label, e.Description)
	}
}

func init() {
	checklistCmd.AddCommand(dismissCmd)
	checklistCmd.AddCommand(minimizeCmd)
	checklistCmd.AddCommand(restoreCmd)
	checklistCmd.AddCommand(resetCmd)
	checklistCmd.AddCommand(markCmd)
}
