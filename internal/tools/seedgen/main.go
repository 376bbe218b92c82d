// Command seedgen writes the fixed fuzz seed corpus: frames probing op
// codes, boundary counters, signature suites and extension bytes.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

func seedFrame(op, cidByte byte, counter uint64, suiteID, sigLen uint16, extra []byte) []byte {
	buf := []byte{op}
	for i := 0; i < 32; i++ {
		buf = append(buf, cidByte)
	}
	buf = binary.LittleEndian.AppendUint64(buf, counter)
	buf = binary.LittleEndian.AppendUint16(buf, suiteID)
	buf = binary.LittleEndian.AppendUint16(buf, sigLen)
	for i := uint16(0); i < sigLen; i++ {
		buf = append(buf, 0xAA)
	}
	return append(buf, extra...)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func main() {
	fs := flag.NewFlagSet("seedgen", flag.ExitOnError)
	outDir := fs.String("out", "fuzz/seeds", "output directory for seed files")
	_ = fs.Parse(os.Args[1:])

	pad := []byte{0x00}
	seeds := map[string][]byte{
		"S1":  seedFrame(0x01, 0x11, 1, 0, 32, pad),
		"S2":  seedFrame(0x01, 0x22, 2, 3, 80, pad),
		"S3":  seedFrame(0x01, 0x33, 3, 3, 32, pad),
		"S4":  seedFrame(0x01, 0x44, math.MaxUint64-1, 0, 32, pad),
		"S5":  seedFrame(0x01, 0x55, math.MaxUint64, 0, 32, pad),
		"S6":  seedFrame(0x02, 0x66, 10, 0, 32, pad), // capability-expiry
		"S7":  seedFrame(0x01, 0x77, 7, 0, 32, mustHex("FFEEDDCCBBAA99887766")),
		"S8":  seedFrame(0x01, 0x11, 8, 0, 32, pad), // CID collision
		"S9":  seedFrame(0x03, 0x88, 9, 0, 32, pad), // rights mask
		"S10": seedFrame(0x01, 0x99, 10, 2, 32, pad), // PQC + 32-B sig
		"S12": seedFrame(0x01, 0xBC, 10, 0, 32, pad),
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for name, blob := range seeds {
		path := filepath.Join(*outDir, name+".bin")
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s.bin (%d bytes)\n", name, len(blob))
	}
}
