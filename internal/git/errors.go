package git

import (
	"errors"
	"fmt"
	"strings"
)

// LaunchError reports that git could not be started at all
// (binary missing, permission denied, bad working directory).
type LaunchError struct {
	Args []string
	Err  error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to run 'git %s': %v", strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitCodeError reports that git ran and exited with a non-zero status.
type ExitCodeError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("failed to run 'git %s': non zero exit code %d:\nstderr:\n%s",
		strings.Join(e.Args, " "), e.ExitCode, e.Stderr)
}

// ExitCode returns the exit code carried by err and true if err wraps an
// *ExitCodeError.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode, true
	}
	return 0, false
}
