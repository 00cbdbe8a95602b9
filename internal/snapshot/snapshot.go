// Package snapshot captures, restores and serializes working-tree state
// through git's stash list.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorewood/progress-sync/internal/git"
)

// Message tags every stash entry created by progress-sync.
const Message = "progress-sync stash (temporary)"

// stashRef names the top of the stash list.
const stashRef = "refs/stash"

// Runner is the subset of *git.Runner used by Git.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) error
	Output(ctx context.Context, dir string, args ...string) (string, error)
	RunToFile(ctx context.Context, dir string, out *os.File, args ...string) error
}

// Git implements the capture/drop/restore/export/import capability on top
// of git stash and git apply.
type Git struct {
	runner Runner
}

// New creates a Git snapshot store backed by runner.
func New(runner Runner) *Git {
	return &Git{runner: runner}
}

// Capture pushes working-tree, index and untracked changes onto the stash
// list, keeping the index. It reports whether a new entry was created; git
// creates none when there is nothing to save.
func (g *Git) Capture(ctx context.Context, dir string) (bool, error) {
	before, err := g.Top(ctx, dir)
	if err != nil {
		return false, err
	}
	if err := g.runner.Run(ctx, dir, "stash", "push", "--keep-index", "--include-untracked", "-m", Message); err != nil {
		return false, err
	}
	after, err := g.Top(ctx, dir)
	if err != nil {
		return false, err
	}
	return after != "" && after != before, nil
}

// DropTop removes the most recent stash entry.
// git exits 1 when the stash list is empty.
func (g *Git) DropTop(ctx context.Context, dir string) error {
	return g.runner.Run(ctx, dir, "stash", "drop")
}

// RestoreTop pops the most recent stash entry back into the working tree.
// git exits 1 when the stash list is empty.
func (g *Git) RestoreTop(ctx context.Context, dir string) error {
	return g.runner.Run(ctx, dir, "stash", "pop")
}

// Export writes the most recent stash entry, untracked files included, as a
// binary patch to path. Parent directories are created first. A partially
// written file is left in place if git fails.
func (g *Git) Export(ctx context.Context, dir, path string) (err error) {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing stash file %s: %w", path, closeErr)
		}
	}()

	return g.runner.RunToFile(ctx, dir, file, "stash", "show", "--binary", "--include-untracked")
}

// ExportEmpty writes a zero-length stash file, the encoding of an empty
// change set.
func (g *Git) ExportEmpty(path string) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing stash file %s: %w", path, err)
	}
	return nil
}

// Import applies the binary patch at path onto the working tree. An empty
// patch is accepted.
func (g *Git) Import(ctx context.Context, dir, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving stash file path: %w", err)
	}
	return g.runner.Run(ctx, dir, "apply", "--binary", "--allow-empty", abs)
}

// Top returns the object id at the top of the stash list, or "" if the
// list is empty.
func (g *Git) Top(ctx context.Context, dir string) (string, error) {
	oid, err := g.runner.Output(ctx, dir, "rev-parse", "--quiet", "--verify", stashRef)
	if err != nil {
		if code, ok := git.ExitCode(err); ok && code == 1 {
			return "", nil
		}
		return "", err
	}
	return oid, nil
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating stash directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating stash file: %w", err)
	}
	return file, nil
}
