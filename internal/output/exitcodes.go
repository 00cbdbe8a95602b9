// Package output provides structured output and error handling for the progress-sync CLI.
package output

import "errors"

// Exit codes. Every failure exits 1; there are no per-kind codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitError is an error that carries an exit code for the CLI.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

// Error implements the error interface. The cause, if any, follows the
// message on the next line so git diagnostics stay readable.
func (e *ExitError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ":\n" + e.Cause.Error()
}

// Unwrap returns the underlying cause for errors.Is/errors.As support.
func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewUserError creates an error for bad arguments or flags.
func NewUserError(message string) *ExitError {
	return &ExitError{
		Code:    ExitFailure,
		Message: message,
	}
}

// NewErrorWithCause creates an error wrapping an underlying cause.
func NewErrorWithCause(message string, cause error) *ExitError {
	return &ExitError{
		Code:    ExitFailure,
		Message: message,
		Cause:   cause,
	}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure for untyped errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
