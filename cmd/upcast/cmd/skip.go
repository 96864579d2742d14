package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/upcast/internal/config"
	"github.com/oshokin/upcast/internal/domain/appcast"
	"github.com/oshokin/upcast/internal/repository/skip"
)

var (
	// skipCmd groups skipped-version preference management.
	skipCmd = &cobra.Command{
		Use:   "skip",
		Short: "Manage the skipped-version preference",
		Long: "A skipped version never reports an update on a routine check. " +
			"A forced check (`upcast check --force`) ignores the preference.",
	}

	// skipShowCmd prints the currently skipped version, if any.
	skipShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the skipped version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			v, err := skip.NewFileRepository(cfg.SkipFile).Get(cmd.Context())
			if err != nil {
				if errors.Is(err, skip.ErrNotFound) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No version skipped.")
					return nil
				}

				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), v.String())

			return nil
		},
	}

	// skipSetCmd records a version to suppress on routine checks.
	skipSetCmd = &cobra.Command{
		Use:   "set <version>",
		Short: "Skip a version on routine checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := appcast.ParseVersion(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			return skip.NewFileRepository(cfg.SkipFile).Set(cmd.Context(), v)
		},
	}

	// skipClearCmd forgets the skipped version.
	skipClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Forget the skipped version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			return skip.NewFileRepository(cfg.SkipFile).Clear(cmd.Context())
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	skipCmd.AddCommand(skipShowCmd)
	skipCmd.AddCommand(skipSetCmd)
	skipCmd.AddCommand(skipClearCmd)
	rootCmd.AddCommand(skipCmd)
}
