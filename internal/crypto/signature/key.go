package signature

import (
	"crypto"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// errUnsupportedKeyFormat reports key material that is neither PEM nor raw hex.
var errUnsupportedKeyFormat = errors.New("unsupported public key format")

// LoadPublicKey reads trusted public key material from the provided path.
//
// Two formats are accepted: a PEM-encoded PKIX "PUBLIC KEY" block, and a raw
// 32-byte Ed25519 key as a hex string.
func LoadPublicKey(path string) (crypto.PublicKey, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	if block, _ := pem.Decode(contents); block != nil {
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}

		return key, nil
	}

	trimmed := strings.TrimSpace(string(contents))

	decoded, err := hex.DecodeString(trimmed)
	if err == nil && len(decoded) == ed25519.PublicKeySize {
		return ed25519.PublicKey(decoded), nil
	}

	return nil, errUnsupportedKeyFormat
}
