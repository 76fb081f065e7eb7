// Package domainerrors defines the error vocabulary shared by services,
// stores, and transport. Errors carry a stable code so handlers can translate
// them into HTTP responses without string matching, and services can branch on
// failure class without knowing which store produced the error.
//
// Stores return sentinel errors (pkg/platform/sentinel) for infrastructure
// facts; services wrap them into domain errors with the appropriate code
// before they cross the service boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error. The string value is wire-stable: it appears
// verbatim in JSON error envelopes and must not change once shipped.
type Code string

const (
	// CodeInvalidInput marks a caller contract violation: the input failed a
	// domain invariant (bad UUID, primary id not in group, unknown feature key).
	CodeInvalidInput Code = "invalid_input"

	// CodeBadRequest marks a malformed request at the transport boundary
	// (unparseable body, missing required field).
	CodeBadRequest Code = "bad_request"

	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"

	// CodeConflict marks a state conflict (duplicate check-in, concurrent edit).
	CodeConflict Code = "conflict"

	// CodeInvariantViolation marks a broken internal invariant. These indicate
	// a programming bug, not bad user data, and are logged loudly.
	CodeInvariantViolation Code = "invariant_violation"

	// CodeUnauthorized marks a missing or failed authentication.
	CodeUnauthorized Code = "unauthorized"

	// CodeTimeout marks an operation aborted by deadline or cancellation.
	CodeTimeout Code = "timeout"

	// CodeUnavailable marks a dependency that is temporarily unreachable.
	CodeUnavailable Code = "unavailable"

	// CodeInternal marks an unexpected failure. The message is never exposed
	// to clients.
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a classification code. The message is meant for
// operators and (for non-internal codes) API clients.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while preserving the cause chain.
// Wrapping nil returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err's chain, defaulting to CodeInternal for
// errors that never went through this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeInvariantViolation, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
