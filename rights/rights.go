// Package rights implements the capability rights algebra.
package rights

// Mask is a 32-bit rights field.
//
// Bits 0-4 are core rights, bits 5-15 are reserved and must be zero for
// now, bits 16-31 are available for application overlays (preserved but
// not interpreted here).
type Mask uint32

// Core rights bit flags.
const (
	// Read permits observing an entity's state.
	Read Mask = 1 << 0
	// Write permits mutating an entity's state. Implies Read.
	Write Mask = 1 << 1
	// Delegate permits creating a child capability with a subset of the
	// current rights.
	Delegate Mask = 1 << 2
	// Issue permits creating an independent capability.
	Issue Mask = 1 << 3
	// Revoke permits revoking an issued or delegated capability.
	Revoke Mask = 1 << 4
)

// Core covers all defined core rights bits.
const Core = Read | Write | Delegate | Issue | Revoke

// Canonicalize adds implied rights: Write implies Read.
func Canonicalize(m Mask) Mask {
	if m&Write == Write {
		m |= Read
	}
	return m
}

// Sufficient reports whether have satisfies need. The have mask is
// canonicalized first, so rights it implies count toward need.
func Sufficient(have, need Mask) bool {
	return Canonicalize(have)&need == need
}
