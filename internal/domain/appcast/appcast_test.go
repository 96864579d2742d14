package appcast

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// sampleManifest is a manifest with one extension key and two channels.
const sampleManifest = `
foo: bar
channels:
  - id: 1
    version: "5.8.8"
    artifact_url: https://updates.example.com/app-5.8.8.tar.gz
    release_notes_url: https://updates.example.com/notes/5.8.8.html
  - id: 2
    version: "6.0.0"
    artifact_url: https://updates.example.com/app-6.0.0-beta.tar.gz
`

// TestParseManifest verifies typed decoding, channel order and the raw view.
func TestParseManifest(t *testing.T) {
	t.Parallel()

	cast, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	// Raw view holds every top-level key, the channel list included.
	require.Len(t, cast.Raw, 2)
	require.Equal(t, "bar", cast.Raw["foo"])
	require.Contains(t, cast.Raw, ChannelsKey)

	// Channel order follows the manifest.
	require.Len(t, cast.Channels, 2)
	require.Equal(t, 1, cast.Channels[0].ID)
	require.Equal(t, 2, cast.Channels[1].ID)

	stable := cast.Channels[0]
	require.Equal(t, Version{5, 8, 8}, stable.Version)
	require.Equal(t, "https://updates.example.com/app-5.8.8.tar.gz", stable.ArtifactURL)
	require.Equal(t, "https://updates.example.com/notes/5.8.8.html", stable.ReleaseNotesURL)
	require.False(t, stable.Signed())
	require.Empty(t, cast.Channels[1].ReleaseNotesURL)
}

// TestParseManifestSignature ensures base64 signatures are decoded into bytes.
func TestParseManifestSignature(t *testing.T) {
	t.Parallel()

	sig := []byte("not-a-real-signature")
	content := fmt.Sprintf(`
channels:
  - id: 1
    version: "1.0"
    artifact_url: https://updates.example.com/app.tar.gz
    signature: %s
`, base64.StdEncoding.EncodeToString(sig))

	cast, err := ParseManifest([]byte(content))
	require.NoError(t, err)
	require.True(t, cast.Channels[0].Signed())
	require.Equal(t, sig, cast.Channels[0].Signature)
}

// TestParseManifestParseErrors checks that malformed documents report ErrManifestParse.
func TestParseManifestParseErrors(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"{not yaml", "\t", ""} {
		_, err := ParseManifest([]byte(content))
		require.ErrorIs(t, err, ErrManifestParse, "input %q", content)
	}
}

// TestParseManifestShapeErrors checks structural violations report ErrManifestShape.
func TestParseManifestShapeErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing channel list": `foo: bar`,
		"missing id": `
channels:
  - version: "1.0"
    artifact_url: https://updates.example.com/app.tar.gz
`,
		"missing version": `
channels:
  - id: 1
    artifact_url: https://updates.example.com/app.tar.gz
`,
		"missing artifact url": `
channels:
  - id: 1
    version: "1.0"
`,
		"bad version": `
channels:
  - id: 1
    version: "one.two"
    artifact_url: https://updates.example.com/app.tar.gz
`,
		"bad signature": `
channels:
  - id: 1
    version: "1.0"
    artifact_url: https://updates.example.com/app.tar.gz
    signature: "%%%not base64%%%"
`,
		"duplicate id": `
channels:
  - id: 1
    version: "1.0"
    artifact_url: https://updates.example.com/a.tar.gz
  - id: 1
    version: "2.0"
    artifact_url: https://updates.example.com/b.tar.gz
`,
	}

	for name, content := range cases {
		_, err := ParseManifest([]byte(content))
		require.ErrorIs(t, err, ErrManifestShape, "case %q", name)
	}
}

// TestSelectChannelRoundTrip ensures every identifier resolves to its own channel.
func TestSelectChannelRoundTrip(t *testing.T) {
	t.Parallel()

	const n = 5

	channels := make([]Channel, 0, n)
	for id := 1; id <= n; id++ {
		channels = append(channels, Channel{
			ID:          id,
			Version:     Version{1, id},
			ArtifactURL: fmt.Sprintf("https://updates.example.com/app-1.%d.tar.gz", id),
		})
	}

	for id := 1; id <= n; id++ {
		channel, err := SelectChannel(id, channels)
		require.NoError(t, err)
		require.Equal(t, id, channel.ID)
	}
}

// TestSelectChannelErrors covers the missing-channel and empty-manifest failures.
func TestSelectChannelErrors(t *testing.T) {
	t.Parallel()

	_, err := SelectChannel(1, nil)
	require.ErrorIs(t, err, ErrEmptyManifest)

	channels := []Channel{{ID: 1, Version: Version{1}}, {ID: 2, Version: Version{2}}}

	_, err = SelectChannel(42, channels)
	require.ErrorIs(t, err, ErrChannelNotFound)
}

// TestChannelClone ensures cloned channels share no storage with the original.
func TestChannelClone(t *testing.T) {
	t.Parallel()

	original := Channel{
		ID:          1,
		Version:     Version{5, 8, 8},
		ArtifactURL: "https://updates.example.com/app.tar.gz",
		Signature:   []byte{1, 2, 3},
	}

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Version[0] = 9
	clone.Signature[0] = 9
	require.Equal(t, Version{5, 8, 8}, original.Version)
	require.Equal(t, []byte{1, 2, 3}, original.Signature)
}
