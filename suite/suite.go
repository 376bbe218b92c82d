// Package suite maps wire suite identifiers to signature-verification
// capabilities.
//
// The registry is populated once at startup and read-only thereafter:
// suite support is a deployment-time property, not a per-request one.
// Key resolution and the signature algorithms themselves live behind
// VerifyFunc, the external collaborator boundary.
package suite

import (
	"crypto/ed25519"
	"fmt"
	"sort"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"amulet.dev/core/frame"
)

// Suite identifiers. The hash/signature pairings follow the algorithm
// profiles of the wire format: best-effort, FIPS-140-3, post-quantum and
// a classical/post-quantum hybrid.
const (
	Classic uint16 = 0 // BLAKE3-256 + Ed25519
	FIPS    uint16 = 1 // SHA3-256 + ECDSA P-256
	PQC     uint16 = 2 // SHAKE-256 + Dilithium3
	Hybrid  uint16 = 3 // Ed25519 over SHA3-256 and Dilithium3 over SHAKE-256
)

// ContextID identifies a signing context: a digest of the key material a
// signature verified against. Capability records remember the context
// that issued them, so collisions between different issuers are
// detectable without the validator ever touching keys.
type ContextID [32]byte

// VerifyFunc checks a signature over the signed portion of a frame and,
// on success, reports the signing context that verified it.
type VerifyFunc func(op frame.Op, cid frame.CID, counter uint64, sig []byte) (ContextID, bool)

// Spec declares the verification capability for one suite id.
type Spec struct {
	ID        uint16
	Name      string
	MinSigLen uint16
	MaxSigLen uint16
	PQC       bool
	Verify    VerifyFunc
}

// SigLenOK reports whether a declared signature length is within the
// suite's expected class.
func (s Spec) SigLenOK(n int) bool {
	return n >= int(s.MinSigLen) && n <= int(s.MaxSigLen)
}

// ClassicSpec returns the suite 0 descriptor for the given verifier.
func ClassicSpec(v VerifyFunc) Spec {
	return Spec{
		ID:        Classic,
		Name:      "classic",
		MinSigLen: ed25519.SignatureSize,
		MaxSigLen: ed25519.SignatureSize,
		Verify:    v,
	}
}

// FIPSSpec returns the suite 1 descriptor for the given verifier.
// ECDSA P-256 signatures are ASN.1 DER encoded and vary in length.
func FIPSSpec(v VerifyFunc) Spec {
	return Spec{
		ID:        FIPS,
		Name:      "fips",
		MinSigLen: 64,
		MaxSigLen: 72,
		Verify:    v,
	}
}

// PQCSpec returns the suite 2 descriptor for the given verifier.
func PQCSpec(v VerifyFunc) Spec {
	return Spec{
		ID:        PQC,
		Name:      "pqc",
		MinSigLen: mode3.SignatureSize,
		MaxSigLen: mode3.SignatureSize,
		PQC:       true,
		Verify:    v,
	}
}

// HybridSpec returns the suite 3 descriptor for the given verifier.
// Hybrid signatures are an Ed25519 signature followed by a Dilithium3
// signature.
func HybridSpec(v VerifyFunc) Spec {
	return Spec{
		ID:        Hybrid,
		Name:      "hybrid",
		MinSigLen: ed25519.SignatureSize + mode3.SignatureSize,
		MaxSigLen: ed25519.SignatureSize + mode3.SignatureSize,
		PQC:       true,
		Verify:    v,
	}
}

// Registry is an immutable suite table.
type Registry struct {
	specs map[uint16]Spec
}

// NewRegistry builds a registry from the given specs. Every spec must
// carry a verify function; duplicate ids are rejected.
func NewRegistry(specs ...Spec) (*Registry, error) {
	m := make(map[uint16]Spec, len(specs))
	for _, s := range specs {
		if s.Verify == nil {
			return nil, fmt.Errorf("suite %d (%s): missing verify function", s.ID, s.Name)
		}
		if _, dup := m[s.ID]; dup {
			return nil, fmt.Errorf("suite %d registered twice", s.ID)
		}
		m[s.ID] = s
	}
	return &Registry{specs: m}, nil
}

// Lookup returns the spec for a suite id.
func (r *Registry) Lookup(id uint16) (Spec, bool) {
	if r == nil {
		return Spec{}, false
	}
	s, ok := r.specs[id]
	return s, ok
}

// IDs returns the registered suite ids in ascending order.
func (r *Registry) IDs() []uint16 {
	if r == nil {
		return nil
	}
	ids := make([]uint16, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
