package dao

import "errors"

// ErrorKind classifies client errors so callers can branch on the kind
// instead of parsing message text.
type ErrorKind int

const (
	// ErrKindConfig covers missing signers, unknown network selectors and
	// features unavailable on the current network. No remote call was made.
	ErrKindConfig ErrorKind = iota

	// ErrKindPrecondition covers write guards that failed before a
	// transaction was submitted: proposal not active, already voted, zero
	// voting power.
	ErrKindPrecondition

	// ErrKindTransport covers RPC failures, malformed responses and
	// reverted transactions.
	ErrKindTransport

	// ErrKindDataIntegrity covers remote values outside the documented
	// contract interface, e.g. an out-of-range status code.
	ErrKindDataIntegrity
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindConfig:
		return "config"
	case ErrKindPrecondition:
		return "precondition"
	case ErrKindTransport:
		return "transport"
	case ErrKindDataIntegrity:
		return "data integrity"
	}

	return "unknown"
}

// Error is the tagged error type returned by all client operations.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

func NewConfigError(msg string, err error) *Error {
	return &Error{Kind: ErrKindConfig, msg: msg, err: err}
}

func NewPreconditionError(msg string, err error) *Error {
	return &Error{Kind: ErrKindPrecondition, msg: msg, err: err}
}

func NewTransportError(msg string, err error) *Error {
	return &Error{Kind: ErrKindTransport, msg: msg, err: err}
}

func NewDataIntegrityError(msg string, err error) *Error {
	return &Error{Kind: ErrKindDataIntegrity, msg: msg, err: err}
}

// KindOf extracts the kind from an error returned by the client. The second
// return is false when the error did not originate here.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}
