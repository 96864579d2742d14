package updater

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/upcast/internal/config"
	"github.com/oshokin/upcast/internal/domain/appcast"
	"github.com/oshokin/upcast/internal/repository/skip"
)

// fakeFetcher serves canned responses per URL.
type fakeFetcher struct {
	responses map[string][]byte
	errs      map[string]error
}

func (f *fakeFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	data, err := f.FetchBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (f *fakeFetcher) FetchBytes(_ context.Context, rawURL string) ([]byte, error) {
	if err, found := f.errs[rawURL]; found {
		return nil, err
	}

	data, found := f.responses[rawURL]
	if !found {
		return nil, fmt.Errorf("no canned response for %s", rawURL)
	}

	return data, nil
}

// recordingNotifier captures pipeline milestones for assertions.
type recordingNotifier struct {
	parsed   int
	verdicts []bool
}

func (n *recordingNotifier) ManifestParsed(_ context.Context, _ *appcast.Appcast) {
	n.parsed++
}

func (n *recordingNotifier) ArtifactVerified(_ context.Context, _ string, trusted bool) {
	n.verdicts = append(n.verdicts, trusted)
}

const (
	testAppcastURL  = "https://updates.example.com/appcast.yaml"
	testArtifactURL = "https://updates.example.com/app-5.8.8.tar.gz"
)

// testEnv bundles the collaborators of a directly constructed runner.
type testEnv struct {
	runner   *runner
	fetcher  *fakeFetcher
	notifier *recordingNotifier
}

// newTestEnv builds a runner around canned responses and a signing key.
// The returned artifact content is what testArtifactURL serves.
func newTestEnv(t *testing.T, artifact, sig []byte, pub ed25519.PublicKey) *testEnv {
	t.Helper()

	dir := t.TempDir()

	keyPath := filepath.Join(dir, "trusted.hex")
	require.NoError(t, os.WriteFile(keyPath, []byte(hex.EncodeToString(pub)), 0o600))

	manifest := fmt.Sprintf(`
channels:
  - id: 1
    version: "5.8.8"
    artifact_url: %s
`, testArtifactURL)
	if len(sig) > 0 {
		manifest += "    signature: " + base64.StdEncoding.EncodeToString(sig) + "\n"
	}

	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			testAppcastURL:  []byte(manifest),
			testArtifactURL: artifact,
		},
		errs: map[string]error{},
	}

	notifier := &recordingNotifier{}

	current, err := appcast.ParseVersion("5.8.0")
	require.NoError(t, err)

	return &testEnv{
		runner: &runner{
			cfg: &config.Config{
				AppVersion:    "5.8.0",
				AppcastURL:    testAppcastURL,
				ChannelID:     1,
				PublicKeyPath: keyPath,
			},
			fetcher:        fetcher,
			skips:          skip.NewMemoryRepository(),
			notifier:       notifier,
			currentVersion: current,
			channelID:      1,
		},
		fetcher:  fetcher,
		notifier: notifier,
	}
}

// TestRunPipelineTrusted drives the full check with a valid signature.
func TestRunPipelineTrusted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	artifact := []byte("installer payload")
	env := newTestEnv(t, artifact, ed25519.Sign(priv, artifact), pub)

	outcome, err := env.runner.run(ctx)
	require.NoError(t, err)
	require.True(t, outcome.UpdateAvailable)
	require.Equal(t, 1, outcome.Channel.ID)
	require.NotEmpty(t, outcome.ArtifactPath)

	t.Cleanup(func() {
		_ = os.RemoveAll(env.runner.temporaryDirectory)
	})

	staged, err := os.ReadFile(outcome.ArtifactPath)
	require.NoError(t, err)
	require.Equal(t, artifact, staged)

	require.Equal(t, 1, env.notifier.parsed)
	require.Equal(t, []bool{true}, env.notifier.verdicts)

	// A trusted artifact survives cleanup so it can be applied.
	env.runner.cleanup(ctx)
	_, err = os.Stat(outcome.ArtifactPath)
	require.NoError(t, err)
}

// TestRunPipelineRejected ensures a bad signature blocks the update and discards the artifact.
func TestRunPipelineRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	// Signature over different bytes than the served artifact.
	sig := ed25519.Sign(priv, []byte("other payload"))
	env := newTestEnv(t, []byte("installer payload"), sig, pub)

	_, err = env.runner.run(ctx)
	require.ErrorIs(t, err, ErrArtifactRejected)
	require.Equal(t, []bool{false}, env.notifier.verdicts)

	env.runner.cleanup(ctx)
	_, err = os.Stat(env.runner.temporaryDirectory)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRunUnsignedChannel verifies the unsigned pass-through policy.
func TestRunUnsignedChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	env := newTestEnv(t, []byte("installer payload"), nil, pub)

	outcome, err := env.runner.run(ctx)
	require.NoError(t, err)
	require.True(t, outcome.UpdateAvailable)
	require.Equal(t, []bool{true}, env.notifier.verdicts)

	env.runner.keepArtifact = false
	env.runner.cleanup(ctx)
}

// TestRunNoUpdateWhenCurrent ensures an up-to-date install downloads nothing.
func TestRunNoUpdateWhenCurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	env := newTestEnv(t, []byte("installer payload"), nil, pub)

	current, err := appcast.ParseVersion("5.8.8")
	require.NoError(t, err)

	env.runner.currentVersion = current

	outcome, err := env.runner.run(ctx)
	require.NoError(t, err)
	require.False(t, outcome.UpdateAvailable)
	require.Empty(t, outcome.ArtifactPath)
	require.Empty(t, env.runner.temporaryDirectory)
	require.Empty(t, env.notifier.verdicts)
}

// TestRunSkippedVersion ensures the persisted preference suppresses a routine check.
func TestRunSkippedVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	env := newTestEnv(t, []byte("installer payload"), nil, pub)

	skipped, err := appcast.ParseVersion("5.8.8")
	require.NoError(t, err)
	require.NoError(t, env.runner.skips.Set(ctx, skipped))

	outcome, err := env.runner.run(ctx)
	require.NoError(t, err)
	require.False(t, outcome.UpdateAvailable)

	// Forcing the same check ignores the preference.
	env.runner.force = true

	outcome, err = env.runner.run(ctx)
	require.NoError(t, err)
	require.True(t, outcome.UpdateAvailable)

	env.runner.keepArtifact = false
	env.runner.cleanup(ctx)
}

// TestRunRoutineFetchFailure checks the silent-abort policy for routine checks.
func TestRunRoutineFetchFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	env := newTestEnv(t, []byte("installer payload"), nil, pub)
	env.fetcher.errs[testAppcastURL] = errors.New("connection refused")

	// Routine check: quiet, no update.
	outcome, err := env.runner.run(ctx)
	require.NoError(t, err)
	require.False(t, outcome.UpdateAvailable)

	// Forced check: the failure surfaces.
	env.runner.force = true

	_, err = env.runner.run(ctx)
	require.Error(t, err)
}

// TestRunRoutineParseFailure checks the same policy for an unparseable manifest.
func TestRunRoutineParseFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	env := newTestEnv(t, []byte("installer payload"), nil, pub)
	env.fetcher.responses[testAppcastURL] = []byte("{not yaml")

	outcome, err := env.runner.run(ctx)
	require.NoError(t, err)
	require.False(t, outcome.UpdateAvailable)

	env.runner.force = true

	_, err = env.runner.run(ctx)
	require.ErrorIs(t, err, appcast.ErrManifestParse)
}

// TestRunChannelNotFound ensures selection failures always surface, routine or not.
func TestRunChannelNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	env := newTestEnv(t, []byte("installer payload"), nil, pub)
	env.runner.channelID = 42

	_, err = env.runner.run(ctx)
	require.ErrorIs(t, err, appcast.ErrChannelNotFound)
}
