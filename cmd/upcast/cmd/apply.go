package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/upcast/internal/service/updater"
)

// applyCmd replaces the installed artifact with a staged, verified download.
var applyCmd = &cobra.Command{
	Use:   "apply <staged-artifact> <target>",
	Short: "Replace the installed artifact with a verified download",
	Long: "Replace the file at <target> with the staged artifact produced by a " +
		"successful `upcast check`. The swap is atomic and checksum-guarded. " +
		"Only artifacts that passed signature verification should be applied.",
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		return updater.Apply(ctx, args[0], args[1])
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(applyCmd)
}
