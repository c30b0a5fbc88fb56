// Package cryptoutil provides the pluggable SHA3-256 provider
// interface the replay container uses for its manifest hash. The
// FNV-1a 64-bit content hash lives in package tlv (tlv.FNV1a64).
package cryptoutil

import "golang.org/x/crypto/sha3"

// Provider abstracts the hash function used for DMRP manifest
// hashing, the way the rest of the stack abstracts signing/transport —
// so a host can substitute a hardware or FIPS-validated implementation
// without touching replay code. Signature verification methods are
// deliberately absent: nothing in this domain enforces authorization,
// so there is no digest to verify against a signature.
type Provider interface {
	SHA3_256(input []byte) ([32]byte, error)
}

// StdProvider is the standard-library-backed Provider, sufficient for
// development and for any host that does not need a hardware-backed
// implementation.
type StdProvider struct{}

// SHA3_256 hashes input with SHA3-256.
func (StdProvider) SHA3_256(input []byte) ([32]byte, error) {
	h := sha3.New256()
	_, _ = h.Write(input)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
