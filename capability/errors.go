package capability

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Every validation failure is recoverable: the validator rejects the
// frame, leaves the table untouched and stays available for the next
// frame. Callers branch on Kind (or RuleID), never on message text.
type Kind string

const (
	// KindUnsupportedSuite marks frames naming a suite id absent from
	// the registry.
	KindUnsupportedSuite Kind = "UnsupportedSuite"
	// KindBadSigLen marks signature lengths outside the suite's class.
	KindBadSigLen Kind = "BadSigLen"
	// KindBadSignature marks signatures that fail verification.
	KindBadSignature Kind = "BadSignature"
	// KindCidCollision marks an issue against a live CID held by a
	// different signing context.
	KindCidCollision Kind = "CidCollision"
	// KindUnknownCid marks renew/revoke against an absent CID.
	KindUnknownCid Kind = "UnknownCid"
	// KindSuiteMismatch marks renew/revoke whose suite or signing
	// context differs from the record being operated on.
	KindSuiteMismatch Kind = "SuiteMismatch"
	// KindRevoked marks operations on a revoked record.
	KindRevoked Kind = "Revoked"
	// KindExpired marks renewals whose extension would not carry the
	// record's expiry past the current tick.
	KindExpired Kind = "Expired"
	// KindOverflow marks tick arithmetic or mask values that would
	// overflow; the operation fails closed.
	KindOverflow Kind = "Overflow"
	// KindInternal marks persistence and codec failures.
	KindInternal Kind = "Internal"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. AMU-VAL-110) naming the violated
// validation rule. Use errors.As to extract *Error for structured
// handling.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

func wrapError(kind Kind, ruleID, msg string, cause error) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if
// unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
