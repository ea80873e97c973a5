// Package org holds the organization commands.
package org

import (
	"github.com/spf13/cobra"
)

// Cmd is the org command group
var Cmd = &cobra.Command{
	Use:   "org",
	Short: "Inspect organizations",
}

func init() {
	Cmd.AddCommand(showCmd)
}
