// Package errutil defines the error types shared across the apputil packages.
//
// Errors produced by this library are regular Go errors wrapped with %w.
// The types here exist so that callers can branch on the failure class with
// errors.Is / errors.As instead of string matching.
package errutil

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when an operation does not complete within its
// allotted time.
var ErrTimeout = errors.New("timeout expired")

// InvalidArgumentError reports a value that failed validation or type
// conversion. Name identifies the argument when known.
type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid value for %s: %s", e.Name, e.Reason)
	}
	return e.Reason
}

// InvalidArg builds an InvalidArgumentError with a formatted reason.
// An empty name is allowed for contexts where the argument is implied.
func InvalidArg(name, format string, args ...any) error {
	return &InvalidArgumentError{Name: name, Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidArg reports whether err is (or wraps) an InvalidArgumentError.
func IsInvalidArg(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}

// ExitError carries an explicit process exit code out of an application
// main function. The app runner unwraps it to set the exit status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit wraps err with an explicit exit code. A nil err is allowed; the
// runner then exits silently with the given code.
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// retryable is probed by IsRetryable. Error types that represent transient
// conditions can implement it to opt in to caller-side retry loops.
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether any error in the chain marks itself retryable.
func IsRetryable(err error) bool {
	for err != nil {
		if r, ok := err.(retryable); ok {
			return r.Retryable()
		}
		err = errors.Unwrap(err)
	}
	return false
}
