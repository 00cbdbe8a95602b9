// Package git runs the git executable for progress-sync.
package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes git subcommands in a given working directory.
// The zero value runs "git" from PATH and discards log output.
type Runner struct {
	// Binary is the git executable. Empty means "git".
	Binary string
	// Logger receives one debug record per invocation. Nil disables logging.
	Logger *slog.Logger
}

// NewRunner creates a Runner that logs invocations to logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Logger: logger}
}

// Run executes git with args in dir and discards stdout.
// Returns *LaunchError if git could not be started and *ExitCodeError if it
// exited non-zero.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) error {
	return r.exec(ctx, dir, io.Discard, args)
}

// Output executes git with args in dir and returns stdout trimmed of
// surrounding whitespace.
func (r *Runner) Output(ctx context.Context, dir string, args ...string) (string, error) {
	var stdout bytes.Buffer
	if err := r.exec(ctx, dir, &stdout, args); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunToFile executes git with args in dir, streaming stdout directly into out.
// The file is not truncated or removed on failure.
func (r *Runner) RunToFile(ctx context.Context, dir string, out *os.File, args ...string) error {
	return r.exec(ctx, dir, out, args)
}

func (r *Runner) exec(ctx context.Context, dir string, stdout io.Writer, args []string) error {
	cmd := exec.CommandContext(ctx, r.binary(), args...)
	cmd.Dir = dir
	cmd.Stdout = stdout

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	r.log(ctx, dir, args, cmd, time.Since(start), err)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitCodeError{
			Args:     cloneArgs(args),
			ExitCode: exitErr.ExitCode(),
			Stderr:   decodeStderr(stderr.Bytes()),
		}
	}
	return &LaunchError{Args: cloneArgs(args), Err: err}
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return "git"
	}
	return r.Binary
}

func (r *Runner) log(ctx context.Context, dir string, args []string, cmd *exec.Cmd, took time.Duration, err error) {
	if r.Logger == nil {
		return
	}
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	attrs := []any{
		slog.String("args", strings.Join(args, " ")),
		slog.String("dir", dir),
		slog.Int("exit_code", exitCode),
		slog.Duration("took", took),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	r.Logger.DebugContext(ctx, "git", attrs...)
}

// decodeStderr converts captured stderr to text, replacing invalid UTF-8.
func decodeStderr(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func cloneArgs(args []string) []string {
	return append([]string(nil), args...)
}
