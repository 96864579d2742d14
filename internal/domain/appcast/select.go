package appcast

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyManifest reports a manifest whose channel list is empty.
	ErrEmptyManifest = errors.New("manifest contains no channels")
	// ErrChannelNotFound reports that no channel matches the requested identifier.
	ErrChannelNotFound = errors.New("channel not found")
)

// SelectChannel returns the channel whose identifier equals requestedID.
//
// It fails with ErrEmptyManifest when the channel list is empty and with
// ErrChannelNotFound when no identifier matches; it never substitutes a
// different channel. The function is pure: no I/O, no logging, deterministic
// for a given input.
func SelectChannel(requestedID int, channels []Channel) (Channel, error) {
	if len(channels) == 0 {
		return Channel{}, ErrEmptyManifest
	}

	for _, channel := range channels {
		if channel.ID == requestedID {
			return channel, nil
		}
	}

	return Channel{}, fmt.Errorf("channel %d: %w", requestedID, ErrChannelNotFound)
}
