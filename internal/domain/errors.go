package domain

import (
	"errors"
	"fmt"
)

// Kind classifies every error this core produces. The set is closed so each
// boundary (handler, gate, sync action) can match it exhaustively.
type Kind int

const (
	KindUnauthenticated Kind = iota
	KindForbidden
	KindValidationFailed
	KindServiceUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindValidationFailed:
		return "VALIDATION_FAILED"
	case KindServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// Error carries a Kind alongside a human-readable message and an optional
// wrapped cause. Causes stay server-side; only Kind and Message are ever
// rendered to clients.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the Kind from err. Unknown errors classify as internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func Unauthenticated(message string, cause error) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message, cause: cause}
}

func Forbidden(message string, cause error) *Error {
	return &Error{Kind: KindForbidden, Message: message, cause: cause}
}

func ValidationFailed(message string, cause error) *Error {
	return &Error{Kind: KindValidationFailed, Message: message, cause: cause}
}

func ServiceUnavailable(message string, cause error) *Error {
	return &Error{Kind: KindServiceUnavailable, Message: message, cause: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// Upstream identity provider outcomes. Wrapped inside *Error so callers can
// tell throttling apart from rejection without widening the Kind set.
var (
	ErrTokenRejected       = errors.New("identity provider rejected token")
	ErrProviderRateLimited = errors.New("identity provider rate limited")
	ErrProviderUnreachable = errors.New("identity provider unreachable")
	ErrMalformedIdentity   = errors.New("identity provider returned malformed payload")
)
