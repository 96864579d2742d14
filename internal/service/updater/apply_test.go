package updater

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestApplyReplacesTarget ensures the staged artifact replaces the installed file.
func TestApplyReplacesTarget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	artifactPath := filepath.Join(dir, "staged.bin")
	targetPath := filepath.Join(dir, "installed.bin")

	require.NoError(t, os.WriteFile(artifactPath, []byte("new build"), 0o600))
	require.NoError(t, os.WriteFile(targetPath, []byte("old build"), 0o755))

	require.NoError(t, Apply(ctx, artifactPath, targetPath))

	replaced, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	require.Equal(t, []byte("new build"), replaced)

	// The backup left by the swap is removed.
	_, err = os.Stat(targetPath + ".old")
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestApplyCreatesMissingTarget covers first-install behavior.
func TestApplyCreatesMissingTarget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	artifactPath := filepath.Join(dir, "staged.bin")
	targetPath := filepath.Join(dir, "installed.bin")

	require.NoError(t, os.WriteFile(artifactPath, []byte("first build"), 0o600))

	require.NoError(t, Apply(ctx, artifactPath, targetPath))

	created, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	require.Equal(t, []byte("first build"), created)
}

// TestApplyMissingArtifact ensures a vanished staged file is an error, not a partial apply.
func TestApplyMissingArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := Apply(context.Background(),
		filepath.Join(dir, "absent.bin"), filepath.Join(dir, "installed.bin"))
	require.Error(t, err)
}
