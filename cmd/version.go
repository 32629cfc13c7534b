package cmd

import (
	"fmt"

	"github.com/msiegy/meraki-eol-manager/internal/version"
	"github.com/spf13/cobra"
)

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print eolmgr version along with dependency information.",
	Run: func(_ *cobra.Command, args []string) {
		fmt.Printf(
			"commit: %s\nbranch: %s\ngit summary: %s\nbuildDate: %s\nversion: %s\nGo version: %s\nretryablehttp version: %s\nx/net version: %s\n",
			version.GitCommit, version.GitBranch, version.GitSummary, version.BuildDate, version.AppVersion, version.GoVersion, version.RetryablehttpVersion, version.NetVersion)
	},
}

func init() {
	rootCmd.AddCommand(cmdVersion)
}
