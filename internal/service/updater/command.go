package updater

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/upcast/internal/config"
	"github.com/oshokin/upcast/internal/crypto/signature"
	"github.com/oshokin/upcast/internal/domain/appcast"
	"github.com/oshokin/upcast/internal/logger"
	"github.com/oshokin/upcast/internal/repository/skip"
	"github.com/oshokin/upcast/internal/transport"
)

var (
	// ErrCheckAlreadyRunning reports a concurrent check invocation.
	ErrCheckAlreadyRunning = errors.New("an update check is already running")
	// ErrArtifactRejected reports an artifact that failed signature verification.
	ErrArtifactRejected = errors.New("artifact rejected by signature verification")
)

// Options are inputs accepted by the check entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Force marks the check as operator-initiated: the skipped-version
	// preference is ignored and fetch/parse failures surface as errors
	// instead of aborting quietly.
	Force bool
	// ChannelOverride, when non-nil, evaluates this check against the given
	// channel instead of the subscribed one. The subscription is not changed.
	ChannelOverride *int
}

// Outcome is the result of a completed check.
type Outcome struct {
	// UpdateAvailable reports whether the selected channel warrants an update.
	UpdateAvailable bool
	// Channel is the evaluated channel. Meaningful only when the manifest was
	// fetched and a channel selected.
	Channel appcast.Channel
	// ArtifactPath is the staged, trust-verified artifact. Empty unless an
	// update was downloaded and verified.
	ArtifactPath string
}

// runner holds the state and collaborators for a single check execution.
// It is intentionally unexported; call Run(ctx, Options) from callers.
type runner struct {
	cfg                *config.Config    // Update settings snapshot for this check.
	fetcher            transport.Fetcher // Fetch-text and fetch-bytes capability.
	skips              skip.Repository   // Skipped-version preference lookup.
	notifier           Notifier          // Milestone sink.
	currentVersion     appcast.Version   // Installed version parsed from settings.
	channelID          int               // Channel evaluated by this check.
	force              bool              // Operator-initiated check.
	temporaryDirectory string            // Where the artifact is staged.
	keepArtifact       bool              // Set once the staged artifact is trusted.
}

// Run executes one update check and is the public entry point for the CLI.
//
// The returned Outcome is non-nil whenever the check itself completed; a
// routine check whose manifest could not be fetched or parsed completes with
// no update rather than failing (see package doc for the forced-check rule).
func Run(ctx context.Context, opts *Options) (*Outcome, error) {
	ctx = logger.WithName(ctx, "upcast-check")

	r, err := newRunner(ctx, opts)
	if err != nil {
		return nil, err
	}

	defer r.cleanup(ctx)

	outcome, err := r.run(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Update check failed", "error", err)
		return nil, err
	}

	return outcome, nil
}

// newRunner prepares the run and writes a marker to avoid concurrent checks.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	if IsCheckRunningNow(ctx) {
		return nil, ErrCheckAlreadyRunning
	}

	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return nil, fmt.Errorf("create check marker: %w", err)
	}

	if err = marker.Close(); err != nil {
		return nil, fmt.Errorf("close check marker: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = os.Remove(MarkerFilename)
		return nil, err
	}

	if !signature.KnownScheme(cfg.SignatureScheme) {
		_ = os.Remove(MarkerFilename)
		return nil, fmt.Errorf("settings: unknown signature scheme %q", cfg.SignatureScheme)
	}

	currentVersion, err := appcast.ParseVersion(cfg.AppVersion)
	if err != nil {
		_ = os.Remove(MarkerFilename)
		return nil, fmt.Errorf("settings: installed version: %w", err)
	}

	channelID := cfg.ChannelID
	if opts.ChannelOverride != nil {
		channelID = *opts.ChannelOverride
	}

	return &runner{
		cfg:            cfg,
		fetcher:        transport.NewHTTPFetcher(cfg.Timeout),
		skips:          skip.NewFileRepository(cfg.SkipFile),
		notifier:       LogNotifier{},
		currentVersion: currentVersion,
		channelID:      channelID,
		force:          opts.Force,
	}, nil
}

// run executes the check pipeline:
// 1) Fetch the appcast.
// 2) Parse it.
// 3) Select the subscribed channel.
// 4) Decide whether an update is warranted.
// 5) Download and verify the artifact if it is.
func (r *runner) run(ctx context.Context) (*Outcome, error) {
	cast, err := r.fetchManifest(ctx)
	if err != nil {
		// A routine check aborts quietly on fetch/parse trouble; only an
		// operator-forced check surfaces the error.
		if !r.force {
			logger.WarnKV(ctx, "Routine check aborted", "error", err)
			return &Outcome{}, nil
		}

		return nil, err
	}

	r.notifier.ManifestParsed(ctx, cast)

	channel, err := appcast.SelectChannel(r.channelID, cast.Channels)
	if err != nil {
		return nil, fmt.Errorf("select channel: %w", err)
	}

	decision := ShouldUpdate(ctx, channel, r.currentVersion, DecideOptions{
		Force: r.force,
		Skips: r.skips,
	})
	if !decision {
		logger.InfoKV(ctx, "No update warranted",
			"channel", channel.ID,
			"published", channel.Version.String(),
			"installed", r.currentVersion.String())

		return &Outcome{Channel: channel}, nil
	}

	logger.InfoKV(ctx, "Update available",
		"channel", channel.ID,
		"published", channel.Version.String(),
		"installed", r.currentVersion.String())

	artifactPath, err := r.downloadArtifact(ctx, channel)
	if err != nil {
		return nil, err
	}

	if !channel.Signed() {
		logger.WarnKV(ctx, "Channel publishes unsigned artifacts, proceeding without verification",
			"channel", channel.ID)
	}

	trusted := signature.VerifyArtifact(ctx,
		channel.Signature, artifactPath, r.cfg.PublicKeyPath, r.cfg.SignatureScheme)

	r.notifier.ArtifactVerified(ctx, artifactPath, trusted)

	if !trusted {
		// The staged download is discarded by cleanup.
		return nil, fmt.Errorf("%s: %w", artifactPath, ErrArtifactRejected)
	}

	r.keepArtifact = true

	return &Outcome{
		UpdateAvailable: true,
		Channel:         channel,
		ArtifactPath:    artifactPath,
	}, nil
}

// fetchManifest retrieves and parses the appcast.
func (r *runner) fetchManifest(ctx context.Context) (*appcast.Appcast, error) {
	content, err := r.fetcher.FetchText(ctx, r.cfg.AppcastURL)
	if err != nil {
		return nil, fmt.Errorf("fetch appcast: %w", err)
	}

	cast, err := appcast.ParseManifest([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("parse appcast: %w", err)
	}

	return cast, nil
}

// downloadArtifact stages the channel's artifact in a temporary directory.
func (r *runner) downloadArtifact(ctx context.Context, channel appcast.Channel) (string, error) {
	dir, err := os.MkdirTemp("", "upcast-check-")
	if err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	r.temporaryDirectory = dir

	artifactPath, err := transport.DownloadFile(ctx, r.fetcher, channel.ArtifactURL, dir)
	if err != nil {
		return "", fmt.Errorf("download artifact: %w", err)
	}

	logger.InfoKV(ctx, "Artifact staged", "path", artifactPath)

	return artifactPath, nil
}

// cleanup removes the check marker and, unless a trusted artifact was staged,
// the staging directory.
func (r *runner) cleanup(ctx context.Context) {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}

	if r.keepArtifact || r.temporaryDirectory == "" {
		return
	}

	if _, err := os.Stat(r.temporaryDirectory); err == nil {
		_ = os.RemoveAll(r.temporaryDirectory)
	}

	logger.Debug(ctx, "Staging directory discarded")
}
