// Package signature gates downloaded artifacts behind asymmetric signature
// verification.
//
// The Verifier interface keeps the algorithm pluggable: Ed25519 is the
// default scheme, DSA over SHA-1 remains available for channels signed by the
// legacy toolchain. VerifyArtifact is the trust boundary: it collapses every
// failure mode into a false result and never propagates an error, because the
// caller's only decision is trust or no trust.
package signature
