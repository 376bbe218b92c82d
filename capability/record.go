// Package capability implements the capability state machine: a sharded
// CID table, a logical clock and a validator applying decoded frames to
// it under a suite registry.
package capability

import (
	"amulet.dev/core/frame"
	"amulet.dev/core/rights"
	"amulet.dev/core/suite"
)

// Tick is a point on the logical timeline. Ticks only move forward;
// arithmetic on them fails closed on overflow.
type Tick uint64

// State is the lifecycle state of a capability record.
type State uint8

const (
	// StateActive records grant their rights until expiry.
	StateActive State = iota
	// StateExpired records outlived their expiry tick. The transition
	// is lazy: it is observed at lookup, never by a background sweep.
	StateExpired
	// StateRevoked records were explicitly revoked. Terminal.
	StateRevoked
	// StateSuperseded records were replaced by a reissue of the same
	// CID. Only ever seen on the previous record of a decision.
	StateSuperseded
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	case StateRevoked:
		return "revoked"
	case StateSuperseded:
		return "superseded"
	}
	return "unknown"
}

// Record is one capability: the live state tracked for a CID.
type Record struct {
	CID       frame.CID
	Suite     uint16
	Context   suite.ContextID
	Rights    rights.Mask
	IssuedAt  Tick
	ExpiresAt Tick
	State     State
}

// EffectiveState resolves lazy expiry: an active record whose expiry
// tick has been reached is expired. Expiry is half-open, a record
// expires exactly at its expiry tick.
func (r *Record) EffectiveState(now Tick) State {
	if r.State == StateActive && now >= r.ExpiresAt {
		return StateExpired
	}
	return r.State
}
