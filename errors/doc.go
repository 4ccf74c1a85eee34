// Package errors provides structured error types for the strbridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the requested value and the limit that
// was exceeded, so callers can diagnose a failure without re-deriving state.
//
// Convenience constructors cover the common cases:
//
//	err := errors.NegativeSize(errors.PhaseConstruct, -1)
//	err := errors.BufferOverflow(errors.PhaseMutate, 12, 8)
//	err := errors.UnknownEncoding("KOI8-X")
//
// All errors implement the standard error interface and support errors.Is/As;
// Is matches on Phase and Kind.
package errors
