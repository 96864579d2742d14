package appcast

import (
	"encoding/base64"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ChannelsKey is the top-level manifest key holding the channel list.
const ChannelsKey = "channels"

var (
	// ErrManifestParse reports a manifest that is not well-formed structured text.
	ErrManifestParse = errors.New("manifest is not well-formed")
	// ErrManifestShape reports a well-formed manifest that violates the expected
	// structure: a missing channel list or a channel entry lacking a required field.
	ErrManifestShape = errors.New("manifest has unexpected shape")
)

// Channel is a single release track entry of the manifest.
type Channel struct {
	// ID identifies the channel; unique within one manifest.
	ID int
	// Version is the release version published on this channel.
	Version Version
	// ArtifactURL points to the downloadable installer for this release.
	ArtifactURL string
	// Signature holds the detached artifact signature. Nil means the channel
	// publishes unsigned artifacts.
	Signature []byte
	// ReleaseNotesURL optionally points to human-readable release notes.
	ReleaseNotesURL string
}

// Signed reports whether the channel carries an artifact signature.
func (c Channel) Signed() bool {
	return len(c.Signature) > 0
}

// Clone returns a copy of the channel that shares no storage with c.
func (c Channel) Clone() Channel {
	clone := c
	clone.Version = c.Version.Clone()

	if c.Signature != nil {
		clone.Signature = make([]byte, len(c.Signature))
		copy(clone.Signature, c.Signature)
	}

	return clone
}

// Appcast is a parsed release manifest. It is constructed once per check and
// must be treated as immutable afterwards.
type Appcast struct {
	// Raw maps every top-level manifest key to its decoded value, including
	// keys this package does not otherwise model and the channel-list key
	// itself. It lets collaborators read manifest extensions without a schema
	// change here.
	Raw map[string]any
	// Channels lists the typed channel entries in manifest order.
	Channels []Channel
}

// channelEntry mirrors one channel item of the manifest wire format.
// Pointers distinguish absent required fields from zero values.
type channelEntry struct {
	ID              *int    `yaml:"id"`
	Version         *string `yaml:"version"`
	ArtifactURL     *string `yaml:"artifact_url"`
	Signature       string  `yaml:"signature"`
	ReleaseNotesURL string  `yaml:"release_notes_url"`
}

// manifestDocument mirrors the typed portion of the manifest wire format.
type manifestDocument struct {
	Channels []channelEntry `yaml:"channels"`
}

// ParseManifest parses manifest text into an Appcast.
//
// It fails with an error wrapping ErrManifestParse when the content is not a
// well-formed document, and with one wrapping ErrManifestShape when the
// channel list is missing or a channel entry lacks a required field.
func ParseManifest(content []byte) (*Appcast, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrManifestParse)
	}

	if _, found := raw[ChannelsKey]; !found {
		return nil, fmt.Errorf("%w: missing %q key", ErrManifestShape, ChannelsKey)
	}

	var doc manifestDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: channel list: %v", ErrManifestShape, err)
	}

	channels, err := decodeChannels(doc.Channels)
	if err != nil {
		return nil, err
	}

	return &Appcast{
		Raw:      raw,
		Channels: channels,
	}, nil
}

// decodeChannels converts wire entries into typed channels, preserving order
// and enforcing per-manifest identifier uniqueness.
func decodeChannels(entries []channelEntry) ([]Channel, error) {
	channels := make([]Channel, 0, len(entries))
	seen := make(map[int]struct{}, len(entries))

	for i, entry := range entries {
		channel, err := decodeChannel(i, entry)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[channel.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate channel id %d", ErrManifestShape, channel.ID)
		}

		seen[channel.ID] = struct{}{}
		channels = append(channels, channel)
	}

	return channels, nil
}

// decodeChannel validates and converts a single wire entry.
func decodeChannel(index int, entry channelEntry) (Channel, error) {
	var channel Channel

	switch {
	case entry.ID == nil:
		return channel, fmt.Errorf("%w: channel %d: missing id", ErrManifestShape, index)
	case entry.Version == nil:
		return channel, fmt.Errorf("%w: channel %d: missing version", ErrManifestShape, index)
	case entry.ArtifactURL == nil || *entry.ArtifactURL == "":
		return channel, fmt.Errorf("%w: channel %d: missing artifact URL", ErrManifestShape, index)
	}

	parsedVersion, err := ParseVersion(*entry.Version)
	if err != nil {
		return channel, fmt.Errorf("%w: channel %d: %v", ErrManifestShape, index, err)
	}

	var signature []byte
	if entry.Signature != "" {
		signature, err = base64.StdEncoding.DecodeString(entry.Signature)
		if err != nil {
			return channel, fmt.Errorf("%w: channel %d: signature: %v", ErrManifestShape, index, err)
		}
	}

	return Channel{
		ID:              *entry.ID,
		Version:         parsedVersion,
		ArtifactURL:     *entry.ArtifactURL,
		Signature:       signature,
		ReleaseNotesURL: entry.ReleaseNotesURL,
	}, nil
}
