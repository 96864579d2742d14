package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/upcast/internal/config"
	"github.com/oshokin/upcast/internal/logger"
	"github.com/oshokin/upcast/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel is the minimum level for console output.
	logLevel string

	// rootCmd represents the base command for the update client.
	rootCmd = &cobra.Command{
		Use:   "upcast",
		Short: "Check for, verify and apply application updates",
		Long: "upcast fetches the release manifest (appcast), decides whether the " +
			"subscribed channel publishes a newer version than the installed one, and " +
			"verifies downloaded artifacts against the locally trusted public key " +
			"before they may be applied.",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
	}
)

// Execute runs the upcast CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath,
		"config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel,
		"log-level", "info", "logging level (debug, info, warn, error)")
}
