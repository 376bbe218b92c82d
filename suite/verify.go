package suite

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"amulet.dev/core/frame"
)

// Digest hashes msg with the hash profile of the given suite:
// BLAKE3-256 for Classic, SHA3-256 for FIPS and Hybrid, SHAKE-256 for
// PQC.
func Digest(id uint16, msg []byte) ([]byte, error) {
	switch id {
	case Classic:
		s := blake3.Sum256(msg)
		return s[:], nil
	case FIPS, Hybrid:
		s := sha3.Sum256(msg)
		return s[:], nil
	case PQC:
		d := make([]byte, 32)
		sha3.ShakeSum256(d, msg)
		return d, nil
	}
	return nil, fmt.Errorf("unsupported suite id %d", id)
}

// KeyContext derives the ContextID for raw public key material under a
// suite id. Hybrid contexts cover the concatenated classical and
// post-quantum keys.
func KeyContext(suiteID uint16, pub []byte) ContextID {
	h := blake3.New(32, nil)
	_, _ = h.Write([]byte{byte(suiteID), byte(suiteID >> 8)})
	_, _ = h.Write(pub)
	var id ContextID
	copy(id[:], h.Sum(nil))
	return id
}

func signedBytes(suiteID uint16, op frame.Op, cid frame.CID, counter uint64) []byte {
	f := frame.Frame{Op: op, CID: cid, Counter: counter, Suite: suiteID}
	return f.SignedBytes()
}

// Ed25519Verifier returns a Classic verifier for one public key.
func Ed25519Verifier(pub ed25519.PublicKey) VerifyFunc {
	ctx := KeyContext(Classic, pub)
	return func(op frame.Op, cid frame.CID, counter uint64, sig []byte) (ContextID, bool) {
		if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
			return ContextID{}, false
		}
		digest, err := Digest(Classic, signedBytes(Classic, op, cid, counter))
		if err != nil {
			return ContextID{}, false
		}
		if !ed25519.Verify(pub, digest, sig) {
			return ContextID{}, false
		}
		return ctx, true
	}
}

// ECDSAP256Verifier returns a FIPS verifier for one public key.
// Signatures are ASN.1 DER encoded.
func ECDSAP256Verifier(pub *ecdsa.PublicKey) VerifyFunc {
	raw := append(pub.X.Bytes(), pub.Y.Bytes()...)
	ctx := KeyContext(FIPS, raw)
	return func(op frame.Op, cid frame.CID, counter uint64, sig []byte) (ContextID, bool) {
		digest, err := Digest(FIPS, signedBytes(FIPS, op, cid, counter))
		if err != nil {
			return ContextID{}, false
		}
		if !ecdsa.VerifyASN1(pub, digest, sig) {
			return ContextID{}, false
		}
		return ctx, true
	}
}

// Dilithium3Verifier returns a PQC verifier for one public key.
func Dilithium3Verifier(pub *mode3.PublicKey) VerifyFunc {
	ctx := KeyContext(PQC, pub.Bytes())
	return func(op frame.Op, cid frame.CID, counter uint64, sig []byte) (ContextID, bool) {
		if len(sig) != mode3.SignatureSize {
			return ContextID{}, false
		}
		digest, err := Digest(PQC, signedBytes(PQC, op, cid, counter))
		if err != nil {
			return ContextID{}, false
		}
		if !mode3.Verify(pub, digest, sig) {
			return ContextID{}, false
		}
		return ctx, true
	}
}

// HybridVerifier returns a Hybrid verifier over an Ed25519 and a
// Dilithium3 key. Both component signatures must verify: the Ed25519
// part over the SHA3-256 digest, the Dilithium3 part over the SHAKE-256
// digest of the same signed bytes.
func HybridVerifier(ed ed25519.PublicKey, dl *mode3.PublicKey) VerifyFunc {
	ctx := KeyContext(Hybrid, append(append([]byte{}, ed...), dl.Bytes()...))
	return func(op frame.Op, cid frame.CID, counter uint64, sig []byte) (ContextID, bool) {
		if len(ed) != ed25519.PublicKeySize {
			return ContextID{}, false
		}
		if len(sig) != ed25519.SignatureSize+mode3.SignatureSize {
			return ContextID{}, false
		}
		msg := signedBytes(Hybrid, op, cid, counter)
		edDigest, err := Digest(Hybrid, msg)
		if err != nil {
			return ContextID{}, false
		}
		dlDigest := make([]byte, 32)
		sha3.ShakeSum256(dlDigest, msg)
		if !ed25519.Verify(ed, edDigest, sig[:ed25519.SignatureSize]) {
			return ContextID{}, false
		}
		if !mode3.Verify(dl, dlDigest, sig[ed25519.SignatureSize:]) {
			return ContextID{}, false
		}
		return ctx, true
	}
}

// Multi combines verifiers for several trusted keys of the same suite;
// the first one that verifies wins.
func Multi(vfs ...VerifyFunc) VerifyFunc {
	return func(op frame.Op, cid frame.CID, counter uint64, sig []byte) (ContextID, bool) {
		for _, vf := range vfs {
			if ctx, ok := vf(op, cid, counter, sig); ok {
				return ctx, true
			}
		}
		return ContextID{}, false
	}
}
