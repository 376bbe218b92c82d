// Package cidutil bridges 32-byte frame CIDs and IPLD CIDs.
//
// Frames carry raw 32-byte identifiers on the wire; tooling and logs
// display them as CIDv1 strings, and issuers derive them from content.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"amulet.dev/core/frame"
	"amulet.dev/core/suite"
)

// DeriveCID derives a frame CID from content using the given suite's
// hash profile, so issuers on different suites produce distinct
// identifiers for the same content.
func DeriveCID(suiteID uint16, content []byte) (frame.CID, error) {
	sum, err := suite.Digest(suiteID, content)
	if err != nil {
		return frame.CID{}, err
	}
	var id frame.CID
	copy(id[:], sum)
	return id, nil
}

// Display returns the CIDv1 string form (raw multicodec, sha2-256
// multihash wrapper) of a frame CID.
func Display(id frame.CID) string {
	sum, err := multihash.Encode(id[:], multihash.SHA2_256)
	if err != nil {
		// Encode only errors for unknown codes; with SHA2_256 and a
		// 32-byte digest, this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// Parse reverses Display: it accepts a CIDv1 string carrying a 32-byte
// digest and returns the frame CID.
func Parse(s string) (frame.CID, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return frame.CID{}, fmt.Errorf("parse cid: %w", err)
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil {
		return frame.CID{}, fmt.Errorf("parse cid multihash: %w", err)
	}
	if dec.Length != len(frame.CID{}) {
		return frame.CID{}, fmt.Errorf("cid digest is %d bytes, want %d", dec.Length, len(frame.CID{}))
	}
	var id frame.CID
	copy(id[:], dec.Digest)
	return id, nil
}
