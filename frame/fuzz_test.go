package frame

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func FuzzDecode(f *testing.F) {
	seed := func(op byte, cidByte byte, counter uint64, suite, sigLen uint16, extra []byte) []byte {
		buf := []byte{op}
		buf = append(buf, bytes.Repeat([]byte{cidByte}, 32)...)
		buf = binary.LittleEndian.AppendUint64(buf, counter)
		buf = binary.LittleEndian.AppendUint16(buf, suite)
		buf = binary.LittleEndian.AppendUint16(buf, sigLen)
		buf = append(buf, bytes.Repeat([]byte{0xAA}, int(sigLen))...)
		return append(buf, extra...)
	}

	f.Add(seed(0x01, 0x11, 1, 0, 32, []byte{0x00}))
	f.Add(seed(0x01, 0x22, 2, 3, 80, []byte{0x00}))
	f.Add(seed(0x01, 0x44, math.MaxUint64-1, 0, 32, []byte{0x00}))
	f.Add(seed(0x01, 0x55, math.MaxUint64, 0, 32, []byte{0x00}))
	f.Add(seed(0x02, 0x66, 10, 0, 32, []byte{0x00}))
	f.Add(seed(0x01, 0x77, 7, 0, 32, []byte{0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA, 0x99, 0x88, 0x77, 0x66}))
	f.Add(seed(0x03, 0x88, 9, 0, 32, []byte{0x00}))
	f.Add(seed(0x01, 0x99, 10, 2, 32, []byte{0x00}))
	f.Add([]byte{})
	f.Add([]byte{0x01})
	f.Add(seed(0x01, 0x11, 1, 0, 0xFFFF, nil))

	f.Fuzz(func(t *testing.T, data []byte) {
		fr, err := Decode(data)
		if err != nil {
			// Rejections must be one of the enumerated kinds.
			if !IsKind(err, KindTruncated) && !IsKind(err, KindUnknownOp) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			return
		}
		// Accepted frames must re-encode to the input bytes exactly.
		raw, err := fr.Encode()
		if err != nil {
			t.Fatalf("Encode after Decode: %v", err)
		}
		if !bytes.Equal(raw, data) {
			t.Fatalf("re-encode mismatch:\n in: %x\nout: %x", data, raw)
		}
	})
}
