package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/upcast/internal/service/updater"
)

var (
	// forceCheck marks the check as operator-initiated.
	forceCheck bool

	// checkChannelID optionally overrides the subscribed channel for one check.
	checkChannelID int

	// checkCmd runs a single update check against the appcast.
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Check the appcast for an update on the subscribed channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &updater.Options{
				ConfigPath: configPath,
				Force:      forceCheck,
			}

			if cmd.Flags().Changed("channel") {
				options.ChannelOverride = &checkChannelID
			}

			outcome, err := updater.Run(ctx, options)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if !outcome.UpdateAvailable {
				_, _ = fmt.Fprintln(out, "No update available.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Update %s available on channel %d.\n",
				outcome.Channel.Version, outcome.Channel.ID)
			_, _ = fmt.Fprintf(out, "Verified artifact staged at: %s\n", outcome.ArtifactPath)

			if outcome.Channel.ReleaseNotesURL != "" {
				_, _ = fmt.Fprintf(out, "Release notes: %s\n", outcome.Channel.ReleaseNotesURL)
			}

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	checkCmd.Flags().BoolVarP(&forceCheck, "force", "f", false,
		"operator-initiated check: ignore the skipped version and surface fetch errors")
	checkCmd.Flags().IntVar(&checkChannelID, "channel", 0,
		"evaluate this channel instead of the subscribed one")

	rootCmd.AddCommand(checkCmd)
}
