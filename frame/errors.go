package frame

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind (or RuleID) rather than matching error
// strings; Error() messages are human-readable and may evolve.
type Kind string

const (
	// KindTruncated marks inputs with fewer bytes than a field requires.
	KindTruncated Kind = "Truncated"
	// KindUnknownOp marks frames whose op code is not recognized.
	KindUnknownOp Kind = "UnknownOp"
	// KindEncode marks frames that cannot be serialized.
	KindEncode Kind = "Encode"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. AMU-FRM-001) naming the violated
// framing rule. Use errors.As to extract *Error for structured handling.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
