// Package errors is the error toolkit used across worktodo.
//
// It re-exports github.com/cockroachdb/errors so every error created in the
// module carries a stack trace and can be annotated with hints and details:
//
//	if err := os.Rename(tmp, path); err != nil {
//	    return errors.Wrapf(err, "failed to replace %s", path)
//	}
//
//	return errors.WithHint(err, "check that the queue directory is writable")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
)

// Inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinel errors shared by the queue, the ledger and the CLI.
// Wrap them with Wrap/Wrapf to add context; match them with Is.
var (
	// ErrNotFound indicates nothing runnable (or nothing recorded) was found
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates a malformed argument or configuration value
	ErrInvalidRequest = New("invalid request")

	// ErrIO indicates a queue, archive or temp file could not be accessed
	ErrIO = New("i/o failure")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsIOError checks if an error is or wraps ErrIO
func IsIOError(err error) bool {
	return err != nil && Is(err, ErrIO)
}

// WrapIO marks err as an I/O failure on path while keeping err in the chain.
func WrapIO(err error, op, path string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrapf(err, "%s %s", op, path), ErrIO)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
