package signature

import (
	"context"
	"os"
	"path/filepath"

	"github.com/oshokin/upcast/internal/logger"
)

// VerifyArtifact decides whether a downloaded artifact may be trusted.
//
// A nil or empty signature means the channel publishes unsigned artifacts and
// the artifact is trusted as-is; warning the operator about that case is the
// caller's job. Otherwise the public key behind publicKeyPath is loaded, the
// artifact's full content is read and the signature is verified with the
// scheme selected by the configuration.
//
// Every failure mode maps to a false result. Nothing is raised past this
// boundary: the caller's only decision is trust or no trust.
func VerifyArtifact(ctx context.Context, sig []byte, artifactPath, publicKeyPath, scheme string) bool {
	if len(sig) == 0 {
		logger.DebugKV(ctx, "Artifact is unsigned, trusting as-is", "artifact", artifactPath)
		return true
	}

	key, err := LoadPublicKey(publicKeyPath)
	if err != nil {
		logger.WarnKV(ctx, "Rejecting artifact: public key unavailable",
			"key", publicKeyPath, "error", err)

		return false
	}

	verifier, err := VerifierForScheme(scheme, key)
	if err != nil {
		logger.WarnKV(ctx, "Rejecting artifact: no usable verification scheme",
			"scheme", scheme, "error", err)

		return false
	}

	content, err := os.ReadFile(filepath.Clean(artifactPath))
	if err != nil {
		logger.WarnKV(ctx, "Rejecting artifact: content unreadable",
			"artifact", artifactPath, "error", err)

		return false
	}

	if err = verifier.Verify(content, sig, key); err != nil {
		logger.WarnKV(ctx, "Rejecting artifact: signature verification failed",
			"artifact", artifactPath, "error", err)

		return false
	}

	logger.DebugKV(ctx, "Artifact signature verified", "artifact", artifactPath)

	return true
}
