package domain

import "errors"

// Kind classifies an error into one of the abstract error kinds the
// orchestrator and its collaborators reason about. It is not a concrete
// error type: wrap an underlying error with one of the constructors below
// and callers can recover the kind with KindOf, which uses errors.As.
type Kind int

const (
	KindUnknown Kind = iota
	KindProviderTransient
	KindProviderUnavailable
	KindParseError
	KindStoreError
	KindCancelled
	KindInvariantViolation
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindProviderTransient:
		return "provider_transient"
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindParseError:
		return "parse_error"
	case KindStoreError:
		return "store_error"
	case KindCancelled:
		return "cancelled"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can branch on
// error policy without inspecting message strings.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ErrCancelled is returned (wrapped) when a run is cancelled mid-flight.
var ErrCancelled = errors.New("cancelled")

// KindOf returns the Kind carried by err, or KindUnknown if err does not
// wrap a *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
