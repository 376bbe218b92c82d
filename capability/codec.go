package capability

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"amulet.dev/core/frame"
	"amulet.dev/core/rights"
	"amulet.dev/core/suite"
)

// Records persist as canonical CBOR so stored bytes are deterministic
// for a given record.
var recordEnc cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	recordEnc = em
}

type storedRecord struct {
	CID       []byte `cbor:"cid"`
	Suite     uint16 `cbor:"suite"`
	Context   []byte `cbor:"context"`
	Rights    uint32 `cbor:"rights"`
	IssuedAt  uint64 `cbor:"issued_at"`
	ExpiresAt uint64 `cbor:"expires_at"`
	State     uint8  `cbor:"state"`
}

// EncodeRecord serializes a record to canonical CBOR. The same bytes
// back a stored record and a record on the wire.
func EncodeRecord(r *Record) ([]byte, error) {
	sr := storedRecord{
		CID:       r.CID[:],
		Suite:     r.Suite,
		Context:   r.Context[:],
		Rights:    uint32(r.Rights),
		IssuedAt:  uint64(r.IssuedAt),
		ExpiresAt: uint64(r.ExpiresAt),
		State:     uint8(r.State),
	}
	return recordEnc.Marshal(sr)
}

// DecodeRecord is the inverse of EncodeRecord.
func DecodeRecord(data []byte) (*Record, error) {
	var sr storedRecord
	if err := cbor.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if len(sr.CID) != len(frame.CID{}) {
		return nil, fmt.Errorf("decode record: cid is %d bytes", len(sr.CID))
	}
	if len(sr.Context) != len(suite.ContextID{}) {
		return nil, fmt.Errorf("decode record: context is %d bytes", len(sr.Context))
	}
	if sr.State > uint8(StateSuperseded) {
		return nil, fmt.Errorf("decode record: unknown state %d", sr.State)
	}
	r := &Record{
		Suite:     sr.Suite,
		Rights:    rights.Mask(sr.Rights),
		IssuedAt:  Tick(sr.IssuedAt),
		ExpiresAt: Tick(sr.ExpiresAt),
		State:     State(sr.State),
	}
	copy(r.CID[:], sr.CID)
	copy(r.Context[:], sr.Context)
	return r, nil
}
