package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oshokin/upcast/internal/config"
)

var (
	// channelCmd groups channel subscription management.
	channelCmd = &cobra.Command{
		Use:   "channel",
		Short: "Manage the subscribed release channel",
	}

	// channelShowCmd prints the current subscription.
	channelShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the subscribed channel identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cfg.ChannelID)

			return nil
		},
	}

	// channelSetCmd switches the subscription to another channel.
	// The change takes effect on the next check; an in-flight check keeps
	// the snapshot it started with.
	channelSetCmd = &cobra.Command{
		Use:   "set <id>",
		Short: "Subscribe to a different release channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("channel identifier: %w", err)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			cfg.ChannelID = id

			return config.Save(configPath, cfg)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	channelCmd.AddCommand(channelShowCmd)
	channelCmd.AddCommand(channelSetCmd)
	rootCmd.AddCommand(channelCmd)
}
