package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, set with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

var shortVersion bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	RunE: func(cmd *cobra.Command, args []string) error {
		if shortVersion {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
			return nil
		}
		info := versionInfo{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
		return Render(cmd, info, func(w io.Writer) {
			fmt.Fprintf(w, "onramp %s\n", info.Version)
			fmt.Fprintf(w, "  commit: %s\n", info.Commit)
			fmt.Fprintf(w, "  built:  %s (%s)\n", info.BuildDate, info.GoVersion)
		})
	},
}

func init() {
	versionCmd.Flags().BoolVar(&shortVersion, "short", false, "print only the version")
	rootCmd.AddCommand(versionCmd)
}
