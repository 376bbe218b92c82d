// Package frame implements the binary capability-frame codec.
//
// A frame is a 1-byte op code, a 32-byte CID, an 8-byte little-endian
// counter, a 2-byte little-endian suite id, a 2-byte little-endian
// signature length, the signature bytes, and any trailing extension
// bytes. Decode accepts arbitrary attacker-controlled input and never
// panics or over-reads.
package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Op selects the validator path for a frame.
type Op uint8

const (
	OpIssue  Op = 0x01
	OpRenew  Op = 0x02
	OpRevoke Op = 0x03
)

// Known reports whether the op code is recognized. All other values are
// reserved.
func (o Op) Known() bool {
	switch o {
	case OpIssue, OpRenew, OpRevoke:
		return true
	}
	return false
}

func (o Op) String() string {
	switch o {
	case OpIssue:
		return "issue"
	case OpRenew:
		return "renew"
	case OpRevoke:
		return "revoke"
	}
	return fmt.Sprintf("op(0x%02x)", uint8(o))
}

// CID is an opaque 32-byte content/context identifier, compared
// byte-for-byte.
type CID [32]byte

const (
	// HeaderLen is the fixed prefix before the variable tail.
	HeaderLen = 1 + 32 + 8 + 2 + 2
	// SignedLen is the portion of the header covered by suite signatures
	// (everything up to but excluding the signature length field).
	SignedLen = 1 + 32 + 8 + 2
	// MaxSigLen is the largest declarable signature length.
	MaxSigLen = math.MaxUint16
)

// Frame is a decoded capability frame.
//
// Decode aliases Signature and Extra into the input buffer; a decoded
// Frame is valid only as long as the input bytes are not mutated. Frames
// are immutable once built and transient: validators retain nothing from
// them beyond the validation call.
type Frame struct {
	Op        Op
	CID       CID
	Counter   uint64
	Suite     uint16
	Signature []byte
	Extra     []byte
}

// Decode parses raw bytes into a Frame.
//
// Fields are read in fixed order. A buffer shorter than any field
// requires, including a declared signature length exceeding the
// remaining bytes, fails with KindTruncated. An unrecognized op code fails with
// KindUnknownOp; both are recoverable rejections.
func Decode(data []byte) (*Frame, error) {
	if len(data) == 0 {
		return nil, newError(KindTruncated, "AMU-FRM-001", "empty input")
	}
	op := Op(data[0])
	if !op.Known() {
		return nil, newError(KindUnknownOp, "AMU-FRM-020",
			fmt.Sprintf("unknown op code 0x%02x", uint8(op)))
	}
	if len(data) < HeaderLen {
		return nil, newError(KindTruncated, "AMU-FRM-002",
			fmt.Sprintf("frame header requires %d bytes, have %d", HeaderLen, len(data)))
	}

	f := &Frame{Op: op}
	copy(f.CID[:], data[1:33])
	f.Counter = binary.LittleEndian.Uint64(data[33:41])
	f.Suite = binary.LittleEndian.Uint16(data[41:43])

	sigLen := int(binary.LittleEndian.Uint16(data[43:45]))
	rest := data[HeaderLen:]
	if len(rest) < sigLen {
		return nil, newError(KindTruncated, "AMU-FRM-003",
			fmt.Sprintf("declared signature length %d exceeds %d remaining bytes", sigLen, len(rest)))
	}
	f.Signature = rest[:sigLen:sigLen]
	// Extension bytes are preserved verbatim, even when empty.
	f.Extra = rest[sigLen:]
	return f, nil
}

// Encode serializes the frame. It is the inverse of Decode for every
// frame Decode accepts.
func (f *Frame) Encode() ([]byte, error) {
	if f == nil {
		return nil, newError(KindEncode, "AMU-FRM-050", "nil frame")
	}
	if !f.Op.Known() {
		return nil, newError(KindEncode, "AMU-FRM-051",
			fmt.Sprintf("unknown op code 0x%02x", uint8(f.Op)))
	}
	if len(f.Signature) > MaxSigLen {
		return nil, newError(KindEncode, "AMU-FRM-052",
			fmt.Sprintf("signature length %d exceeds %d", len(f.Signature), MaxSigLen))
	}
	buf := make([]byte, 0, HeaderLen+len(f.Signature)+len(f.Extra))
	buf = append(buf, byte(f.Op))
	buf = append(buf, f.CID[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, f.Counter)
	buf = binary.LittleEndian.AppendUint16(buf, f.Suite)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(f.Signature)))
	buf = append(buf, f.Signature...)
	buf = append(buf, f.Extra...)
	return buf, nil
}

// SignedBytes returns the header prefix covered by suite signatures:
// op, CID, counter and suite id, in wire order.
func (f *Frame) SignedBytes() []byte {
	buf := make([]byte, 0, SignedLen)
	buf = append(buf, byte(f.Op))
	buf = append(buf, f.CID[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, f.Counter)
	buf = binary.LittleEndian.AppendUint16(buf, f.Suite)
	return buf
}

// Equal reports field-wise equality. Nil and empty signature or extension
// slices compare equal.
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	return f.Op == o.Op &&
		f.CID == o.CID &&
		f.Counter == o.Counter &&
		f.Suite == o.Suite &&
		bytes.Equal(f.Signature, o.Signature) &&
		bytes.Equal(f.Extra, o.Extra)
}
