package suite

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// ParseIssuer turns an encoded trusted-issuer key into a verifier for its
// suite. Supported encodings:
//   - ed25519:<base64>              (suite 0)
//   - ecdsa-p256:<base64 PKIX DER>  (suite 1)
//   - dilithium3:<base64>           (suite 2)
//   - hybrid:<base64 ed25519 || dilithium3>  (suite 3)
func ParseIssuer(encoded string) (uint16, VerifyFunc, error) {
	alg, enc, ok := strings.Cut(encoded, ":")
	if !ok {
		return 0, nil, fmt.Errorf("invalid issuer key encoding: missing algorithm prefix")
	}
	pub, err := decodeBase64(enc)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid issuer key base64: %w", err)
	}

	switch alg {
	case "ed25519":
		if len(pub) != ed25519.PublicKeySize {
			return 0, nil, fmt.Errorf("invalid ed25519 public key length %d", len(pub))
		}
		return Classic, Ed25519Verifier(ed25519.PublicKey(pub)), nil
	case "ecdsa-p256":
		parsed, err := x509.ParsePKIXPublicKey(pub)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid ecdsa-p256 public key: %w", err)
		}
		ec, ok := parsed.(*ecdsa.PublicKey)
		if !ok {
			return 0, nil, fmt.Errorf("ecdsa-p256 key is %T, not *ecdsa.PublicKey", parsed)
		}
		return FIPS, ECDSAP256Verifier(ec), nil
	case "dilithium3":
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return 0, nil, fmt.Errorf("invalid dilithium3 public key: %w", err)
		}
		return PQC, Dilithium3Verifier(&pk), nil
	case "hybrid":
		if len(pub) != ed25519.PublicKeySize+mode3.PublicKeySize {
			return 0, nil, fmt.Errorf("invalid hybrid public key length %d", len(pub))
		}
		ed := ed25519.PublicKey(pub[:ed25519.PublicKeySize])
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub[ed25519.PublicKeySize:]); err != nil {
			return 0, nil, fmt.Errorf("invalid hybrid dilithium3 component: %w", err)
		}
		return Hybrid, HybridVerifier(ed, &pk), nil
	default:
		return 0, nil, fmt.Errorf("unsupported issuer key encoding %q", alg)
	}
}

func decodeBase64(s string) ([]byte, error) {
	// Prefer standard padded encoding, but accept raw encoding too.
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
