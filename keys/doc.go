// Package keys provides signing helpers for capability frames.
//
// The helpers mirror the suite verifiers: each signs the frame's signed
// bytes under the hash profile of its suite. They exist for issuers,
// tooling and tests; the validator core never signs.
package keys
