package keys

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"amulet.dev/core/frame"
	"amulet.dev/core/suite"
)

func signedDigest(suiteID uint16, op frame.Op, cid frame.CID, counter uint64) ([]byte, error) {
	f := frame.Frame{Op: op, CID: cid, Counter: counter, Suite: suiteID}
	return suite.Digest(suiteID, f.SignedBytes())
}

// SignClassic signs a frame header with Ed25519 over its BLAKE3-256
// digest (suite 0).
func SignClassic(op frame.Op, cid frame.CID, counter uint64, priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key length %d", len(priv))
	}
	digest, err := signedDigest(suite.Classic, op, cid, counter)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(priv, digest), nil
}

// SignFIPS signs a frame header with ECDSA P-256 over its SHA3-256
// digest (suite 1). The signature is ASN.1 DER encoded.
func SignFIPS(op frame.Op, cid frame.CID, counter uint64, priv *ecdsa.PrivateKey, rand io.Reader) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("missing private key")
	}
	digest, err := signedDigest(suite.FIPS, op, cid, counter)
	if err != nil {
		return nil, err
	}
	return ecdsa.SignASN1(rand, priv, digest)
}

// SignPQC signs a frame header with Dilithium3 over its SHAKE-256
// digest (suite 2).
func SignPQC(op frame.Op, cid frame.CID, counter uint64, priv *mode3.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, fmt.Errorf("missing private key")
	}
	digest, err := signedDigest(suite.PQC, op, cid, counter)
	if err != nil {
		return nil, err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(priv, digest, sig)
	return sig, nil
}

// SignHybrid signs a frame header with both Ed25519 (over the SHA3-256
// digest) and Dilithium3 (over the SHAKE-256 digest), concatenated in
// that order (suite 3).
func SignHybrid(op frame.Op, cid frame.CID, counter uint64, ed ed25519.PrivateKey, dl *mode3.PrivateKey) ([]byte, error) {
	if len(ed) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid ed25519 private key length %d", len(ed))
	}
	if dl == nil {
		return nil, fmt.Errorf("missing dilithium3 private key")
	}
	f := frame.Frame{Op: op, CID: cid, Counter: counter, Suite: suite.Hybrid}
	msg := f.SignedBytes()
	edDigest, err := suite.Digest(suite.Hybrid, msg)
	if err != nil {
		return nil, err
	}
	dlDigest := make([]byte, 32)
	sha3.ShakeSum256(dlDigest, msg)

	sig := ed25519.Sign(ed, edDigest)
	dlSig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(dl, dlDigest, dlSig)
	return append(sig, dlSig...), nil
}

// GenerateEd25519 returns a new Ed25519 keypair.
func GenerateEd25519(rand io.Reader) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand)
}

// GenerateECDSAP256 returns a new ECDSA P-256 private key.
func GenerateECDSAP256(rand io.Reader) (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand)
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}
