// Package onboarding holds the onboarding wizard and checklist commands.
package onboarding

import (
	"github.com/spf13/cobra"
)

// Cmd is the onboarding command group
var Cmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Walk through the onboarding wizard",
	Long:  `Show progress, complete or skip steps, finalize setup and manage the getting-started checklist.`,
}

func init() {
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(skipCmd)
	Cmd.AddCommand(finalizeCmd)
	Cmd.AddCommand(checklistCmd)
}
