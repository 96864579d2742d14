package updater

import (
	"context"

	"github.com/oshokin/upcast/internal/domain/appcast"
	"github.com/oshokin/upcast/internal/logger"
	"github.com/oshokin/upcast/internal/repository/skip"
)

// DecideOptions configures a single update decision. It is passed explicitly
// at every call site; there are no hidden defaults.
type DecideOptions struct {
	// Force ignores the skipped-version preference and returns the raw
	// comparison result. It does not alter the comparison itself.
	Force bool
	// Skips is the skipped-version lookup. Nil means no preference is kept.
	Skips skip.Repository
}

// ShouldUpdate reports whether the candidate channel warrants an update over
// the currently installed version.
//
// The rule: true iff the candidate version is strictly newer under the
// component-wise total order. When Force is false, a version the operator
// chose to skip never reports an update, even if numerically newer. The
// function never fails and mutates neither argument; the trace it logs is
// advisory and does not affect the result.
func ShouldUpdate(ctx context.Context, candidate appcast.Channel, current appcast.Version, opts DecideOptions) bool {
	newer := current.Less(candidate.Version)

	if !opts.Force && newer && skip.IsSkipped(ctx, opts.Skips, candidate.Version) {
		logger.InfoKV(ctx, "Update suppressed: operator skipped this version",
			"channel", candidate.ID,
			"candidate", candidate.Version.String(),
			"current", current.String())

		return false
	}

	logger.DebugKV(ctx, "Update decision",
		"channel", candidate.ID,
		"candidate", candidate.Version.String(),
		"current", current.String(),
		"force", opts.Force,
		"newer", newer)

	return newer
}
