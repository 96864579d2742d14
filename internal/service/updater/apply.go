package updater

import (
	"bytes"
	"context"
	"crypto"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/upcast/internal/logger"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// DefaultFileMode is applied to the replaced artifact.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction guards the apply step against a staged file
	// changing between verification and replacement.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512
)

var errHashUnavailable = errors.New("hash function unavailable")

// Apply replaces the installed artifact at targetPath with the staged,
// trust-verified download at artifactPath. The swap is atomic and guarded by
// a checksum of the staged bytes.
//
// Apply performs no trust decision of its own; callers must only hand it
// artifacts that passed verification.
func Apply(ctx context.Context, artifactPath, targetPath string) error {
	ctx = logger.WithName(ctx, "upcast-apply")

	data, err := os.ReadFile(filepath.Clean(artifactPath))
	if err != nil {
		return fmt.Errorf("read staged artifact: %w", err)
	}

	checksum, err := contentChecksum(data)
	if err != nil {
		return err
	}

	if _, err = os.Stat(targetPath); err != nil && errors.Is(err, os.ErrNotExist) {
		if _, err = os.Create(targetPath); err != nil {
			return fmt.Errorf("create target: %w", err)
		}
	}

	logger.InfoKV(ctx, "Applying update", "artifact", artifactPath, "target", targetPath)

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: DefaultFileMode,
		Checksum:   checksum,
		Hash:       DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	oldFileName := targetPath + ".old"
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	logger.Info(ctx, "Update applied")

	return nil
}

// contentChecksum returns the checksum of the staged bytes using DefaultChecksumFunction.
func contentChecksum(data []byte) ([]byte, error) {
	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
