package core

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the stable, language-neutral
// categories a caller can switch on without inspecting driver internals.
type Kind string

const (
	KindConfiguration      Kind = "configuration"
	KindValidation         Kind = "validation"
	KindBadFilter          Kind = "bad-filter"
	KindQueryFailed        Kind = "query-failed"
	KindRateLimited        Kind = "rate-limited"
	KindServiceUnavailable Kind = "service-unavailable"
	KindTimeout            Kind = "timeout"
	KindNotFound           Kind = "not-found"
	KindPreconditionFailed Kind = "precondition-failed"
	KindConflict           Kind = "conflict"
	KindTypeConflict       Kind = "type-conflict"
)

// Error is the structured error type returned across the pipeline. It
// carries enough context to log and classify without string-matching,
// mirroring the teacher framework's FrameworkError shape.
type Error struct {
	Op      string // operation that failed, e.g. "sampling.top", "resolver.create"
	Kind    Kind
	ID      string // optional identifier of the entity involved (container, field, doc id)
	Message string
	Err     error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Op != "" && e.Err != nil {
		if e.ID != "" {
			return fmt.Sprintf("%s [%s]: %v", e.Op, e.ID, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s error", e.Kind)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error carrying only a message (no wrapped cause).
func New(op string, kind Kind, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// WithID attaches the entity identifier involved in the failure and
// returns the receiver for chaining.
func (e *Error) WithID(id string) *Error {
	e.ID = id
	return e
}

// KindOf extracts the Kind from err. A *Error yields its own Kind; any
// other non-nil error is treated as an opaque driver failure
// (KindQueryFailed). A nil err yields the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindQueryFailed
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsRetryable reports whether err belongs to a kind the retry wrapper (C2)
// retries by default: rate-limited, service-unavailable, and timeout.
// not-found, bad-request/validation, precondition-failed, and
// configuration errors are never retryable (spec.md §7).
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindRateLimited, KindServiceUnavailable, KindTimeout:
		return true
	default:
		return false
	}
}

// IsNotFound reports whether err is a not-found classification.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsPreconditionFailed reports whether err is an ETag precondition mismatch.
func IsPreconditionFailed(err error) bool {
	return IsKind(err, KindPreconditionFailed)
}

// IsValidation reports whether err is a validation, bad-filter, or
// configuration error — all three fail fast and are never retried.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindValidation, KindBadFilter, KindConfiguration:
		return true
	default:
		return false
	}
}
