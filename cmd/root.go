package cmd

import (
	"log"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	trace   bool
)

var rootCmd = &cobra.Command{
	Use:   model.AppName,
	Short: "Correlate Meraki Dashboard inventory against the Meraki EOL catalog and report affected equipment",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// logLevel returns the log level set by the command line flags.
func logLevel() int {
	switch {
	case trace:
		return model.LogLevelTrace
	case debug:
		return model.LogLevelDebug
	default:
		return model.LogLevelInfo
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (default is $HOME/.eolmgr.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "", false, "Set logging to debug level")
	rootCmd.PersistentFlags().BoolVarP(&trace, "trace", "", false, "Set logging to trace level")
}
