// Package sessionerrors classifies the failures that terminate a signing
// session. Every error built here wipes the session that produced it; the
// decoder's "need more data" outcome is deliberately not an error and never
// appears in this package.
package sessionerrors

import (
	"github.com/pkg/errors"
)

// Kind is the class of a session-terminating failure. The protocol layer
// maps each kind to the status word reported to the host.
type Kind int

const (
	// KindMalformedInput marks a structural violation in the transaction
	// bytes: a bad script shape, non-zero input data, or missing bytes at a
	// required boundary once the full chunk is in.
	KindMalformedInput Kind = iota + 1

	// KindProtocolViolation marks an out-of-order request: a signature
	// before approval, data after approval, or a change index that cannot
	// reference any output.
	KindProtocolViolation

	// KindVerificationFailure marks a change output whose pubkey hash does
	// not match the key the host claimed for it.
	KindVerificationFailure

	// KindResourceExhaustion marks a chunk that would overflow the fixed
	// decode window. Fatal rather than recoverable: the device never grows
	// memory to accommodate the host.
	KindResourceExhaustion

	// KindUserRejected marks an explicit reject gesture at a confirmation
	// point. Not a fault, but terminal for the session all the same.
	KindUserRejected
)

func (k Kind) String() string {
	switch k {
	case KindMalformedInput:
		return "malformed input"
	case KindProtocolViolation:
		return "protocol violation"
	case KindVerificationFailure:
		return "verification failure"
	case KindResourceExhaustion:
		return "resource exhaustion"
	case KindUserRejected:
		return "rejected by user"
	default:
		return "unknown"
	}
}

// SessionError is an error that terminates the signing session it occurred
// in.
type SessionError struct {
	Kind  Kind
	Cause error
}

func (e *SessionError) Error() string {
	return e.Cause.Error()
}

// Unwrap satisfies the errors.Unwrap interface
func (e *SessionError) Unwrap() error {
	return e.Cause
}

// ErrUserRejected is returned when the user rejects an output or the final
// send confirmation.
var ErrUserRejected = &SessionError{
	Kind:  KindUserRejected,
	Cause: errors.New("rejected by the user"),
}

// MalformedInputf formats a new malformed-input error.
func MalformedInputf(format string, args ...interface{}) error {
	return &SessionError{
		Kind:  KindMalformedInput,
		Cause: errors.Errorf(format, args...),
	}
}

// ProtocolViolationf formats a new protocol-violation error.
func ProtocolViolationf(format string, args ...interface{}) error {
	return &SessionError{
		Kind:  KindProtocolViolation,
		Cause: errors.Errorf(format, args...),
	}
}

// VerificationFailuref formats a new verification-failure error.
func VerificationFailuref(format string, args ...interface{}) error {
	return &SessionError{
		Kind:  KindVerificationFailure,
		Cause: errors.Errorf(format, args...),
	}
}

// ResourceExhaustionf formats a new resource-exhaustion error.
func ResourceExhaustionf(format string, args ...interface{}) error {
	return &SessionError{
		Kind:  KindResourceExhaustion,
		Cause: errors.Errorf(format, args...),
	}
}

// Wrapf wraps the given error into a SessionError of the given kind.
func Wrapf(kind Kind, err error, format string, args ...interface{}) error {
	return &SessionError{
		Kind:  kind,
		Cause: errors.Wrapf(err, format, args...),
	}
}

// KindOf extracts the session error kind out of err. ok is false when err
// does not wrap a SessionError anywhere in its chain.
func KindOf(err error) (kind Kind, ok bool) {
	var sessionErr *SessionError
	if errors.As(err, &sessionErr) {
		return sessionErr.Kind, true
	}
	return 0, false
}
