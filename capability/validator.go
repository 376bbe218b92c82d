package capability

import (
	"encoding/binary"
	"fmt"
	"math"

	"amulet.dev/core/frame"
	"amulet.dev/core/rights"
	"amulet.dev/core/suite"
)

// Policy holds the issuance knobs of a validator.
type Policy struct {
	// DefaultTTL is the lifetime granted when an issue frame requests
	// none (counter zero).
	DefaultTTL Tick
	// MaxTTL caps requested lifetimes. Zero means DefaultTTL.
	MaxTTL Tick
	// DefaultRights is granted when an issue frame carries no rights
	// prefix in its extension bytes.
	DefaultRights rights.Mask
}

// DefaultPolicy returns the policy used when the host configures none.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL:    1 << 10,
		MaxTTL:        1 << 20,
		DefaultRights: rights.Read,
	}
}

func (p Policy) normalized() Policy {
	d := DefaultPolicy()
	if p.DefaultTTL == 0 {
		p.DefaultTTL = d.DefaultTTL
	}
	if p.MaxTTL == 0 {
		p.MaxTTL = p.DefaultTTL
	}
	if p.MaxTTL < p.DefaultTTL {
		p.DefaultTTL = p.MaxTTL
	}
	if p.DefaultRights == 0 {
		p.DefaultRights = d.DefaultRights
	}
	return p
}

// Outcome names what an accepted frame did to the table.
type Outcome string

const (
	// OutcomeIssued is a new record for a previously unknown CID.
	OutcomeIssued Outcome = "issued"
	// OutcomeReissued replaced a dead or same-context record.
	OutcomeReissued Outcome = "reissued"
	// OutcomeRenewed extended a record's expiry.
	OutcomeRenewed Outcome = "renewed"
	// OutcomeNarrowed removed some of a record's rights.
	OutcomeNarrowed Outcome = "narrowed"
	// OutcomeRevoked removed all of a record's rights.
	OutcomeRevoked Outcome = "revoked"
	// OutcomeNoop accepted the frame without changing the table.
	OutcomeNoop Outcome = "noop"
)

// Decision reports what an accepted frame did.
type Decision struct {
	Outcome Outcome
	// Record is the record after the operation.
	Record Record
	// Previous is the record a reissue superseded, nil otherwise. Its
	// state is StateSuperseded.
	Previous *Record
}

// Validator applies decoded frames to a table under a suite registry.
//
// Apply is safe for concurrent use: signature verification runs outside
// the table locks and each mutation holds only its CID's shard lock.
type Validator struct {
	registry *suite.Registry
	table    *Table
	policy   Policy
}

// NewValidator builds a validator. Zero policy fields fall back to
// DefaultPolicy values.
func NewValidator(reg *suite.Registry, table *Table, pol Policy) *Validator {
	return &Validator{registry: reg, table: table, policy: pol.normalized()}
}

// Table returns the table the validator mutates.
func (v *Validator) Table() *Table {
	return v.table
}

// Apply validates one frame at the given tick and applies its
// operation to the table.
//
// The pipeline is fixed: suite lookup, signature length class,
// signature verification, then the per-op state machine. Every
// rejection is recoverable and leaves the table untouched.
func (v *Validator) Apply(fr *frame.Frame, now Tick) (Decision, error) {
	spec, ok := v.registry.Lookup(fr.Suite)
	if !ok {
		return Decision{}, newError(KindUnsupportedSuite, "AMU-VAL-110",
			fmt.Sprintf("suite %d is not registered", fr.Suite))
	}
	if !spec.SigLenOK(len(fr.Signature)) {
		return Decision{}, newError(KindBadSigLen, "AMU-VAL-120",
			fmt.Sprintf("suite %s expects %d..%d signature bytes, frame carries %d",
				spec.Name, spec.MinSigLen, spec.MaxSigLen, len(fr.Signature)))
	}
	ctx, ok := spec.Verify(fr.Op, fr.CID, fr.Counter, fr.Signature)
	if !ok {
		return Decision{}, newError(KindBadSignature, "AMU-VAL-130",
			fmt.Sprintf("signature does not verify under suite %s", spec.Name))
	}

	switch fr.Op {
	case frame.OpIssue:
		return v.applyIssue(fr, ctx, now)
	case frame.OpRenew:
		return v.applyRenew(fr, ctx, now)
	case frame.OpRevoke:
		return v.applyRevoke(fr, ctx, now)
	}
	// Decode rejects unknown ops before frames reach the validator.
	return Decision{}, newError(KindInternal, "AMU-VAL-199",
		fmt.Sprintf("unreachable op %s", fr.Op))
}

// addTicks fails closed when the sum would wrap.
func addTicks(base, d Tick) (Tick, error) {
	if uint64(d) > math.MaxUint64-uint64(base) {
		return 0, newError(KindOverflow, "AMU-VAL-140",
			fmt.Sprintf("tick %d + %d overflows", base, d))
	}
	return base + d, nil
}

// issueRights reads the requested rights mask from the first four
// extension bytes (little-endian), falling back to the policy default.
func (v *Validator) issueRights(extra []byte) rights.Mask {
	if len(extra) >= 4 {
		return rights.Canonicalize(rights.Mask(binary.LittleEndian.Uint32(extra)))
	}
	return rights.Canonicalize(v.policy.DefaultRights)
}

func (v *Validator) applyIssue(fr *frame.Frame, ctx suite.ContextID, now Tick) (Decision, error) {
	ttl := Tick(fr.Counter)
	if ttl == 0 {
		ttl = v.policy.DefaultTTL
	}
	if ttl > v.policy.MaxTTL {
		ttl = v.policy.MaxTTL
	}
	expiresAt, err := addTicks(now, ttl)
	if err != nil {
		return Decision{}, err
	}

	rec := Record{
		CID:       fr.CID,
		Suite:     fr.Suite,
		Context:   ctx,
		Rights:    v.issueRights(fr.Extra),
		IssuedAt:  now,
		ExpiresAt: expiresAt,
		State:     StateActive,
	}

	var dec Decision
	err = v.table.Update(fr.CID, func(cur *Record) (*Record, error) {
		if cur == nil {
			dec = Decision{Outcome: OutcomeIssued, Record: rec}
			return &rec, nil
		}
		if cur.EffectiveState(now) == StateActive && cur.Context != ctx {
			return nil, newError(KindCidCollision, "AMU-VAL-150",
				fmt.Sprintf("cid is held by another signing context until tick %d", cur.ExpiresAt))
		}
		prev := *cur
		prev.State = StateSuperseded
		dec = Decision{Outcome: OutcomeReissued, Record: rec, Previous: &prev}
		return &rec, nil
	})
	if err != nil {
		return Decision{}, err
	}
	return dec, nil
}

// requireMatch enforces that renew/revoke frames operate under the
// suite and signing context the record was issued with.
func requireMatch(cur *Record, fr *frame.Frame, ctx suite.ContextID) error {
	if cur.Suite != fr.Suite {
		return newError(KindSuiteMismatch, "AMU-VAL-165",
			fmt.Sprintf("record uses suite %d, frame carries %d", cur.Suite, fr.Suite))
	}
	if cur.Context != ctx {
		return newError(KindSuiteMismatch, "AMU-VAL-166",
			"frame is signed by a different context than the record")
	}
	return nil
}

func (v *Validator) applyRenew(fr *frame.Frame, ctx suite.ContextID, now Tick) (Decision, error) {
	var dec Decision
	err := v.table.Update(fr.CID, func(cur *Record) (*Record, error) {
		if cur == nil {
			return nil, newError(KindUnknownCid, "AMU-VAL-160", "renew of unknown cid")
		}
		if err := requireMatch(cur, fr, ctx); err != nil {
			return nil, err
		}
		if cur.State == StateRevoked {
			return nil, newError(KindRevoked, "AMU-VAL-170", "record is revoked")
		}
		if fr.Counter == 0 && cur.EffectiveState(now) == StateActive {
			dec = Decision{Outcome: OutcomeNoop, Record: *cur}
			return nil, nil
		}
		expiresAt, err := addTicks(cur.ExpiresAt, Tick(fr.Counter))
		if err != nil {
			return nil, err
		}
		// An expired record is renewable; the extension must carry the
		// expiry strictly past the current tick.
		if expiresAt <= now {
			return nil, newError(KindExpired, "AMU-VAL-171",
				fmt.Sprintf("extension leaves record expired at tick %d", expiresAt))
		}
		next := *cur
		next.ExpiresAt = expiresAt
		next.State = StateActive
		dec = Decision{Outcome: OutcomeRenewed, Record: next}
		return &next, nil
	})
	if err != nil {
		return Decision{}, err
	}
	return dec, nil
}

func (v *Validator) applyRevoke(fr *frame.Frame, ctx suite.ContextID, now Tick) (Decision, error) {
	if fr.Counter > math.MaxUint32 {
		return Decision{}, newError(KindOverflow, "AMU-VAL-142",
			fmt.Sprintf("revocation mask %#x exceeds 32 bits", fr.Counter))
	}
	mask := rights.Canonicalize(rights.Mask(fr.Counter))

	var dec Decision
	err := v.table.Update(fr.CID, func(cur *Record) (*Record, error) {
		if cur == nil {
			return nil, newError(KindUnknownCid, "AMU-VAL-160", "revoke of unknown cid")
		}
		if err := requireMatch(cur, fr, ctx); err != nil {
			return nil, err
		}
		if cur.State == StateRevoked {
			// Revocation is idempotent.
			dec = Decision{Outcome: OutcomeNoop, Record: *cur}
			return nil, nil
		}
		remaining := rights.Canonicalize(cur.Rights &^ mask)
		if remaining == cur.Rights {
			dec = Decision{Outcome: OutcomeNoop, Record: *cur}
			return nil, nil
		}
		next := *cur
		next.Rights = remaining
		if remaining == 0 {
			next.State = StateRevoked
			dec = Decision{Outcome: OutcomeRevoked, Record: next}
		} else {
			dec = Decision{Outcome: OutcomeNarrowed, Record: next}
		}
		return &next, nil
	})
	if err != nil {
		return Decision{}, err
	}
	return dec, nil
}
