// Command amulet is the capability-frame CLI: it builds, signs,
// inspects and submits frames.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"amulet.dev/core/capability"
	"amulet.dev/core/cidutil"
	"amulet.dev/core/frame"
	"amulet.dev/core/grpcauth"
	"amulet.dev/core/keys"
	"amulet.dev/core/suite"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "make":
		return cmdMake(args[1:], out, errOut)
	case "apply":
		return cmdApply(args[1:], out, errOut)
	case "show":
		return cmdShow(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "amulet: capability frame CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  amulet inspect <frame-file>")
	fmt.Fprintln(w, "  amulet cid [--suite <id>] <content-file>")
	fmt.Fprintln(w, "  amulet make --op issue|renew|revoke --cid <CIDv1> --counter <n> --seed-hex <64hex> [--rights <mask>]")
	fmt.Fprintln(w, "  amulet apply [--addr <host:port>] <frame-file>")
	fmt.Fprintln(w, "  amulet show [--addr <host:port>] --cid <CIDv1>")
	fmt.Fprintln(w, "  amulet key gen")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars) ed25519 seed; make signs on suite 0")
	fmt.Fprintln(w, "  - make writes canonical frame bytes to stdout (no trailing newline)")
	fmt.Fprintln(w, "  - key gen prints an issuer line for the daemon config and the matching seed")
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: amulet inspect <frame-file>")
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read frame: %v\n", err)
		return 1
	}
	fr, err := frame.Decode(data)
	if err != nil {
		fmt.Fprintf(errOut, "invalid frame: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "op:       %s\n", fr.Op)
	fmt.Fprintf(out, "cid:      %s\n", cidutil.Display(fr.CID))
	fmt.Fprintf(out, "counter:  %d\n", fr.Counter)
	fmt.Fprintf(out, "suite:    %d\n", fr.Suite)
	fmt.Fprintf(out, "sig_len:  %d\n", len(fr.Signature))
	fmt.Fprintf(out, "extra:    %d bytes\n", len(fr.Extra))
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	suiteID := fs.Uint("suite", uint(suite.Classic), "suite id selecting the hash profile")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: amulet cid [--suite <id>] <content-file>")
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read content: %v\n", err)
		return 1
	}
	id, err := cidutil.DeriveCID(uint16(*suiteID), data)
	if err != nil {
		fmt.Fprintf(errOut, "derive cid: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, cidutil.Display(id))
	return 0
}

func cmdMake(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("make", flag.ContinueOnError)
	fs.SetOutput(errOut)
	opName := fs.String("op", "", "operation: issue, renew or revoke")
	cidStr := fs.String("cid", "", "target CID (CIDv1 string)")
	counter := fs.Uint64("counter", 0, "counter field: ttl for issue, extension for renew, mask for revoke")
	seedHex := fs.String("seed-hex", "", "32-byte ed25519 seed, hex encoded")
	rightsMask := fs.Uint64("rights", 0, "requested rights mask, appended as extension bytes when non-zero")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var op frame.Op
	switch *opName {
	case "issue":
		op = frame.OpIssue
	case "renew":
		op = frame.OpRenew
	case "revoke":
		op = frame.OpRevoke
	default:
		fmt.Fprintf(errOut, "invalid --op %q\n", *opName)
		return 2
	}
	id, err := cidutil.Parse(*cidStr)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --cid: %v\n", err)
		return 2
	}
	seed, err := hex.DecodeString(*seedHex)
	if err != nil || len(seed) != ed25519.SeedSize {
		fmt.Fprintln(errOut, "--seed-hex must be 64 hex chars")
		return 2
	}
	if *rightsMask > 0xFFFFFFFF {
		fmt.Fprintln(errOut, "--rights must fit in 32 bits")
		return 2
	}

	priv := ed25519.NewKeyFromSeed(seed)
	sig, err := keys.SignClassic(op, id, *counter, priv)
	if err != nil {
		fmt.Fprintf(errOut, "sign frame: %v\n", err)
		return 1
	}
	fr := &frame.Frame{
		Op:        op,
		CID:       id,
		Counter:   *counter,
		Suite:     suite.Classic,
		Signature: sig,
	}
	if *rightsMask != 0 {
		fr.Extra = binary.LittleEndian.AppendUint32(nil, uint32(*rightsMask))
	}
	data, err := fr.Encode()
	if err != nil {
		fmt.Fprintf(errOut, "encode frame: %v\n", err)
		return 1
	}
	if _, err := out.Write(data); err != nil {
		fmt.Fprintf(errOut, "write frame: %v\n", err)
		return 1
	}
	return 0
}

func cmdApply(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7878", "amuletd address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: amulet apply [--addr <host:port>] <frame-file>")
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read frame: %v\n", err)
		return 1
	}

	client, err := grpcauth.Dial(*addr, grpcauth.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		fmt.Fprintf(errOut, "dial %s: %v\n", *addr, err)
		return 1
	}
	defer client.Close()
	client.Timeout = 5 * time.Second

	outcome, err := client.Apply(data)
	if err != nil {
		fmt.Fprintf(errOut, "apply: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, outcome)
	return 0
}

func cmdShow(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(errOut)
	addr := fs.String("addr", "127.0.0.1:7878", "amuletd address")
	cidStr := fs.String("cid", "", "CID to look up (CIDv1 string)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	id, err := cidutil.Parse(*cidStr)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --cid: %v\n", err)
		return 2
	}

	client, err := grpcauth.Dial(*addr, grpcauth.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		fmt.Fprintf(errOut, "dial %s: %v\n", *addr, err)
		return 1
	}
	defer client.Close()
	client.Timeout = 5 * time.Second

	rec, err := client.Inspect(id)
	if err != nil {
		fmt.Fprintf(errOut, "inspect: %v\n", err)
		return 1
	}
	printRecord(out, rec)
	return 0
}

func printRecord(out io.Writer, rec *capability.Record) {
	fmt.Fprintf(out, "cid:        %s\n", cidutil.Display(rec.CID))
	fmt.Fprintf(out, "suite:      %d\n", rec.Suite)
	fmt.Fprintf(out, "context:    %s\n", hex.EncodeToString(rec.Context[:8]))
	fmt.Fprintf(out, "rights:     %#x\n", uint32(rec.Rights))
	fmt.Fprintf(out, "issued_at:  %d\n", rec.IssuedAt)
	fmt.Fprintf(out, "expires_at: %d\n", rec.ExpiresAt)
	fmt.Fprintf(out, "state:      %s\n", rec.State)
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 || args[0] != "gen" {
		fmt.Fprintln(errOut, "usage: amulet key gen")
		return 2
	}
	fs := flag.NewFlagSet("key gen", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	pub, priv, err := keys.GenerateEd25519(rand.Reader)
	if err != nil {
		fmt.Fprintf(errOut, "generate key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "issuer:   ed25519:%s\n", base64.StdEncoding.EncodeToString(pub))
	fmt.Fprintf(out, "seed-hex: %s\n", hex.EncodeToString(priv.Seed()))
	return 0
}
