package updater

import (
	"context"

	"github.com/oshokin/upcast/internal/domain/appcast"
	"github.com/oshokin/upcast/internal/logger"
)

// Notifier receives pipeline milestones. The core does not consume these
// further; they exist so the surrounding orchestration (UI, analytics) can
// observe a check without the pipeline knowing about any particular sink.
type Notifier interface {
	// ManifestParsed fires after the appcast has been parsed successfully.
	ManifestParsed(ctx context.Context, cast *appcast.Appcast)
	// ArtifactVerified fires after the trust decision for a downloaded artifact.
	ArtifactVerified(ctx context.Context, artifactPath string, trusted bool)
}

// LogNotifier reports milestones through the logger. It is the default sink.
type LogNotifier struct{}

// ManifestParsed logs the parsed manifest summary.
func (LogNotifier) ManifestParsed(ctx context.Context, cast *appcast.Appcast) {
	logger.InfoKV(ctx, "Manifest parsed",
		"channels", len(cast.Channels), "keys", len(cast.Raw))
}

// ArtifactVerified logs the trust verdict.
func (LogNotifier) ArtifactVerified(ctx context.Context, artifactPath string, trusted bool) {
	if trusted {
		logger.InfoKV(ctx, "Artifact verified", "artifact", artifactPath)
		return
	}

	logger.WarnKV(ctx, "Artifact rejected", "artifact", artifactPath)
}
