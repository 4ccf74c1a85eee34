package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConstruct   Phase = "construct"   // handle construction
	PhaseMaterialize Phase = "materialize" // buffer materialization
	PhaseMutate      Phase = "mutate"      // in-place mutation
	PhaseConvert     Phase = "convert"     // encoding conversion
	PhaseLookup      Phase = "lookup"      // encoding registry lookup
	PhaseGuest       Phase = "guest"       // guest ABI boundary
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindBufferOverflow  Kind = "buffer_overflow"
	KindUnknownEncoding Kind = "unknown_encoding"
	KindConversion      Kind = "conversion"
	KindTypeConversion  Kind = "type_conversion"
	KindInvalidHandle   Kind = "invalid_handle"
	KindFrozen          Kind = "frozen"
	KindUnsupported     Kind = "unsupported"
	KindOutOfBounds     Kind = "out_of_bounds"
)

// Error is the structured error type used throughout the bridge.
// Requested and Limit carry the offending value and the bound it violated
// where that applies (sizes, capacities, offsets).
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Detail    string
	Requested int64
	Limit     int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// InvalidArgument creates an invalid argument error
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// NegativeSize reports a negative size argument. The message matches the
// wording foreign callers historically relied on.
func NegativeSize(phase Phase, requested int64) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidArgument,
		Detail:    "negative string size (or size too big)",
		Requested: requested,
	}
}

// NegativeExpand reports a negative expansion request.
func NegativeExpand(requested int64) *Error {
	return &Error{
		Phase:     PhaseMutate,
		Kind:      KindInvalidArgument,
		Detail:    "negative expanding string size",
		Requested: requested,
	}
}

// SizeTooBig reports a size that would overflow the maximum string length.
func SizeTooBig(requested, limit int64) *Error {
	return &Error{
		Phase:     PhaseMutate,
		Kind:      KindInvalidArgument,
		Detail:    "string size too big",
		Requested: requested,
		Limit:     limit,
	}
}

// BufferOverflow reports a requested extent exceeding the current capacity.
// Both values are carried so the failure is diagnosable as-is.
func BufferOverflow(phase Phase, requested, capacity int64) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindBufferOverflow,
		Detail:    fmt.Sprintf("probable buffer overflow: %d for %d", requested, capacity),
		Requested: requested,
		Limit:     capacity,
	}
}

// UnknownEncoding reports an encoding registry lookup miss.
func UnknownEncoding(name string) *Error {
	return &Error{
		Phase:  PhaseLookup,
		Kind:   KindUnknownEncoding,
		Detail: fmt.Sprintf("unknown encoding name - %s", name),
	}
}

// Conversion reports an undefined or invalid byte sequence during transcoding.
func Conversion(from, to, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConvert,
		Kind:   KindConversion,
		Detail: fmt.Sprintf("%s from %s to %s", detail, from, to),
		Cause:  cause,
	}
}

// TypeConversion reports a foreign value that cannot be coerced to a string.
func TypeConversion(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeConversion,
		Detail: detail,
	}
}

// InvalidHandle reports an operation on a handle with no live entry.
func InvalidHandle(phase Phase, handle uint32) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidHandle,
		Detail:    fmt.Sprintf("no string for handle %d", handle),
		Requested: int64(handle),
	}
}

// Frozen reports a mutation attempt on a frozen string.
func Frozen(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFrozen,
		Detail: "can't modify frozen string",
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds reports an offset/length pair outside addressable storage.
func OutOfBounds(phase Phase, offset, length int64) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindOutOfBounds,
		Detail:    fmt.Sprintf("offset %d out of bounds (length %d)", offset, length),
		Requested: offset,
		Limit:     length,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
