// Package identity derives the (repository, branch) pair that names a
// stash file.
package identity

import (
	"context"
	"fmt"
	"path/filepath"
)

// Identity names the repository and branch a stash file belongs to.
type Identity struct {
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
	Root   string `json:"root"`
}

// Querier runs a git query and returns its trimmed stdout.
type Querier interface {
	Output(ctx context.Context, dir string, args ...string) (string, error)
}

// Error reports a failed identity query. It is always fatal: no stash path
// can be computed without both values.
type Error struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("resolving %s: %v", e.Query, e.Err)
}

// Unwrap returns the underlying git error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Resolve queries git in dir for the repository root and current branch.
// The repository name is the last element of the root; dir stands in for
// the root when git reports an empty top-level path.
func Resolve(ctx context.Context, q Querier, dir string) (Identity, error) {
	root, err := q.Output(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return Identity{}, &Error{Query: "repository root", Err: err}
	}
	if root == "" {
		root = dir
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return Identity{}, &Error{Query: "repository root", Err: err}
	}

	repo := filepath.Base(root)
	if repo == string(filepath.Separator) || repo == "." {
		return Identity{}, &Error{
			Query: "repository name",
			Err:   fmt.Errorf("root directory %q has no final path element", root),
		}
	}

	branch, err := q.Output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Identity{}, &Error{Query: "current branch", Err: err}
	}
	if branch == "" {
		return Identity{}, &Error{Query: "current branch", Err: fmt.Errorf("git reported an empty branch name")}
	}

	return Identity{Repo: repo, Branch: branch, Root: root}, nil
}
