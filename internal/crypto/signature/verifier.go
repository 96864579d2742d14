package signature

import (
	"crypto"
	//nolint:staticcheck // Legacy channels are still signed with DSA.
	"crypto/dsa"
	"crypto/ed25519"
	"crypto/sha1" //nolint:gosec // SHA-1 is what the legacy DSA scheme signs.
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"
)

// Known verification scheme names, as they appear in the configuration.
const (
	// SchemeAuto picks the scheme matching the public key type.
	SchemeAuto = ""
	// SchemeEd25519 is the default modern scheme.
	SchemeEd25519 = "ed25519"
	// SchemeDSA is the deprecated legacy scheme (DSA over SHA-1).
	SchemeDSA = "dsa"
)

var (
	// ErrInvalidSignature reports a signature that does not match the content.
	ErrInvalidSignature = errors.New("signature does not match content")
	// ErrKeyMismatch reports a public key of a type the verifier cannot use.
	ErrKeyMismatch = errors.New("public key does not match verification scheme")
	// errUnknownScheme reports an unrecognized scheme name.
	errUnknownScheme = errors.New("unknown verification scheme")
)

// Verifier validates a detached signature over full artifact content.
// Implementations must be stateless and safe for concurrent use.
type Verifier interface {
	Verify(content, sig []byte, key crypto.PublicKey) error
}

// Ed25519Verifier verifies Ed25519 signatures over the raw content bytes.
type Ed25519Verifier struct{}

// Verify checks an Ed25519 signature.
func (Ed25519Verifier) Verify(content, sig []byte, key crypto.PublicKey) error {
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return fmt.Errorf("%w: want ed25519, got %T", ErrKeyMismatch, key)
	}

	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return ErrInvalidSignature
	}

	if !ed25519.Verify(pub, content, sig) {
		return ErrInvalidSignature
	}

	return nil
}

// dsaSignature is the ASN.1 structure of an encoded DSA signature.
type dsaSignature struct {
	R, S *big.Int
}

// DSAVerifier verifies legacy DSA signatures over the SHA-1 digest of the content.
type DSAVerifier struct{}

// Verify checks a DSA signature.
func (DSAVerifier) Verify(content, sig []byte, key crypto.PublicKey) error {
	pub, ok := key.(*dsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: want dsa, got %T", ErrKeyMismatch, key)
	}

	var decoded dsaSignature

	rest, err := asn1.Unmarshal(sig, &decoded)
	if err != nil || len(rest) != 0 {
		return ErrInvalidSignature
	}

	digest := sha1.Sum(content) //nolint:gosec // Legacy scheme, see package doc.
	if !dsa.Verify(pub, digest[:], decoded.R, decoded.S) {
		return ErrInvalidSignature
	}

	return nil
}

// VerifierForScheme returns the verifier selected by the scheme name,
// checking that the provided key is usable with it. SchemeAuto picks the
// scheme matching the key type.
//
//nolint:ireturn // Strategy selection intentionally returns the interface.
func VerifierForScheme(scheme string, key crypto.PublicKey) (Verifier, error) {
	switch scheme {
	case SchemeAuto:
		switch key.(type) {
		case ed25519.PublicKey:
			return Ed25519Verifier{}, nil
		case *dsa.PublicKey:
			return DSAVerifier{}, nil
		default:
			return nil, fmt.Errorf("%w: no scheme for key type %T", ErrKeyMismatch, key)
		}
	case SchemeEd25519:
		if _, ok := key.(ed25519.PublicKey); !ok {
			return nil, fmt.Errorf("%w: want ed25519, got %T", ErrKeyMismatch, key)
		}

		return Ed25519Verifier{}, nil
	case SchemeDSA:
		if _, ok := key.(*dsa.PublicKey); !ok {
			return nil, fmt.Errorf("%w: want dsa, got %T", ErrKeyMismatch, key)
		}

		return DSAVerifier{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownScheme, scheme)
	}
}

// KnownScheme reports whether the scheme name is recognized.
func KnownScheme(scheme string) bool {
	switch scheme {
	case SchemeAuto, SchemeEd25519, SchemeDSA:
		return true
	default:
		return false
	}
}
