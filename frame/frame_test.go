package frame

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func testCID(b byte) CID {
	var id CID
	for i := range id {
		id[i] = b
	}
	return id
}

func rawFrame(op byte, cidByte byte, counter uint64, suite, sigLen uint16, extra []byte) []byte {
	buf := []byte{op}
	id := testCID(cidByte)
	buf = append(buf, id[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, counter)
	buf = binary.LittleEndian.AppendUint16(buf, suite)
	buf = binary.LittleEndian.AppendUint16(buf, sigLen)
	sig := bytes.Repeat([]byte{0xAA}, int(sigLen))
	buf = append(buf, sig...)
	buf = append(buf, extra...)
	return buf
}

func TestDecode_Basic(t *testing.T) {
	raw := rawFrame(0x01, 0x11, 1, 0, 32, []byte{0x00})
	f, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Op != OpIssue {
		t.Fatalf("op = %v, want issue", f.Op)
	}
	if f.CID != testCID(0x11) {
		t.Fatalf("cid mismatch")
	}
	if f.Counter != 1 {
		t.Fatalf("counter = %d, want 1", f.Counter)
	}
	if f.Suite != 0 {
		t.Fatalf("suite = %d, want 0", f.Suite)
	}
	if len(f.Signature) != 32 {
		t.Fatalf("signature length = %d, want 32", len(f.Signature))
	}
	if !bytes.Equal(f.Extra, []byte{0x00}) {
		t.Fatalf("extra = %x, want 00", f.Extra)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	frames := []*Frame{
		{Op: OpIssue, CID: testCID(0x22), Counter: 2, Suite: 3, Signature: bytes.Repeat([]byte{0xAA}, 80), Extra: []byte{0x00}},
		{Op: OpRenew, CID: testCID(0x66), Counter: 10, Suite: 0, Signature: bytes.Repeat([]byte{0xAA}, 32), Extra: []byte{}},
		{Op: OpRevoke, CID: testCID(0x88), Counter: 9, Suite: 0, Signature: []byte{}, Extra: []byte{}},
		{Op: OpIssue, CID: testCID(0x99), Counter: math.MaxUint64, Suite: 2, Signature: bytes.Repeat([]byte{0xAA}, 32), Extra: []byte{}},
	}
	for i, f := range frames {
		raw, err := f.Encode()
		if err != nil {
			t.Fatalf("frame %d: Encode: %v", i, err)
		}
		got, err := Decode(raw)
		if err != nil {
			t.Fatalf("frame %d: Decode: %v", i, err)
		}
		if !got.Equal(f) {
			t.Fatalf("frame %d: round trip mismatch: %+v != %+v", i, got, f)
		}
	}
}

func TestDecode_AllPrefixesTruncated(t *testing.T) {
	raw := rawFrame(0x01, 0x77, 7, 0, 32, []byte{0xFF, 0xEE})
	for n := 0; n < len(raw); n++ {
		_, err := Decode(raw[:n])
		if err == nil {
			t.Fatalf("prefix of %d bytes: expected error", n)
		}
		if !IsKind(err, KindTruncated) {
			t.Fatalf("prefix of %d bytes: expected KindTruncated, got %v", n, err)
		}
	}
}

func TestDecode_BoundaryCounters(t *testing.T) {
	for _, counter := range []uint64{math.MaxUint64 - 1, math.MaxUint64} {
		raw := rawFrame(0x01, 0x44, counter, 0, 32, nil)
		f, err := Decode(raw)
		if err != nil {
			t.Fatalf("counter %d: Decode: %v", counter, err)
		}
		if f.Counter != counter {
			t.Fatalf("counter = %d, want %d", f.Counter, counter)
		}
	}
}

func TestDecode_SigLenOverrun(t *testing.T) {
	// Declares 64 signature bytes but carries only 10.
	raw := rawFrame(0x01, 0x11, 1, 0, 64, nil)
	raw = raw[:HeaderLen+10]
	_, err := Decode(raw)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindTruncated) {
		t.Fatalf("expected KindTruncated, got %v", err)
	}
	if RuleID(err) != "AMU-FRM-003" {
		t.Fatalf("expected RuleID AMU-FRM-003, got %s", RuleID(err))
	}
}

func TestDecode_ExtraPreserved(t *testing.T) {
	extra := []byte{0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA, 0x99, 0x88, 0x77, 0x66}
	raw := rawFrame(0x01, 0x77, 7, 0, 32, extra)
	f, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(f.Extra, extra) {
		t.Fatalf("extra = %x, want %x", f.Extra, extra)
	}
}

func TestDecode_EmptySignatureAndExtra(t *testing.T) {
	raw := rawFrame(0x02, 0x10, 5, 1, 0, nil)
	f, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(f.Signature) != 0 || len(f.Extra) != 0 {
		t.Fatalf("expected empty signature and extra, got %d/%d bytes", len(f.Signature), len(f.Extra))
	}
}

func TestDecode_UnknownOp(t *testing.T) {
	for _, op := range []byte{0x00, 0x04, 0x7F, 0xFF} {
		raw := rawFrame(op, 0x11, 1, 0, 32, nil)
		_, err := Decode(raw)
		if err == nil {
			t.Fatalf("op 0x%02x: expected error", op)
		}
		if !IsKind(err, KindUnknownOp) {
			t.Fatalf("op 0x%02x: expected KindUnknownOp, got %v", op, err)
		}
	}
}

func TestDecode_AliasesInput(t *testing.T) {
	raw := rawFrame(0x01, 0x11, 1, 0, 4, []byte{0x01, 0x02})
	f, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	raw[HeaderLen] = 0xBB
	if f.Signature[0] != 0xBB {
		t.Fatalf("signature does not alias input buffer")
	}
}

func TestEncode_RejectsOversizedSignature(t *testing.T) {
	f := &Frame{Op: OpIssue, Signature: make([]byte, MaxSigLen+1)}
	_, err := f.Encode()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !IsKind(err, KindEncode) {
		t.Fatalf("expected KindEncode, got %v", err)
	}
}

func TestSignedBytes(t *testing.T) {
	f := &Frame{Op: OpIssue, CID: testCID(0x33), Counter: 3, Suite: 3, Signature: bytes.Repeat([]byte{0xAA}, 32)}
	raw, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(f.SignedBytes(), raw[:SignedLen]) {
		t.Fatalf("SignedBytes is not the %d-byte header prefix", SignedLen)
	}
}
