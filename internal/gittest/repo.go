// Package gittest creates throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Repo is a git repository in a temp directory.
type Repo struct {
	t   *testing.T
	Dir string
}

// RequireGit skips the test when git is not on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}
}

// NewRepo initializes a repository named name on branch main with one
// commit containing README.md.
func NewRepo(t *testing.T, name string) *Repo {
	t.Helper()
	RequireGit(t)

	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating repo dir: %v", err)
	}

	repo := &Repo{t: t, Dir: dir}
	repo.Git("init", "--initial-branch=main")
	repo.Git("config", "user.email", "test@example.com")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "commit.gpgsign", "false")
	repo.WriteFile("README.md", "hello\n")
	repo.Commit("initial commit")
	return repo
}

// Clone creates a second checkout of r in a new temp directory with the
// same final directory name, so both resolve to the same repository name.
func (r *Repo) Clone() *Repo {
	r.t.Helper()

	dir := filepath.Join(r.t.TempDir(), filepath.Base(r.Dir))
	out, err := exec.Command("git", "clone", "--quiet", r.Dir, dir).CombinedOutput()
	if err != nil {
		r.t.Fatalf("git clone failed: %v\n%s", err, out)
	}
	clone := &Repo{t: r.t, Dir: dir}
	clone.Git("config", "user.email", "test@example.com")
	clone.Git("config", "user.name", "Test User")
	return clone
}

// Git runs git in the repository and fails the test on error.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()

	out, err := r.GitMayFail(args...)
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return out
}

// GitMayFail runs git in the repository and returns combined output.
func (r *Repo) GitMayFail(args ...string) (string, error) {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// WriteFile writes content to a path relative to the repository root.
func (r *Repo) WriteFile(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("writing %s: %v", name, err)
	}
}

// ReadFile returns the content of a path relative to the repository root.
func (r *Repo) ReadFile(name string) string {
	r.t.Helper()

	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		r.t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

// Exists reports whether a path relative to the repository root exists.
func (r *Repo) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(r.Dir, name))
	return err == nil
}

// Commit stages everything and commits it.
func (r *Repo) Commit(msg string) {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "--quiet", "-m", msg)
}

// Status returns `git status --porcelain` output.
func (r *Repo) Status() string {
	r.t.Helper()
	return r.Git("status", "--porcelain", "--untracked-files=all")
}

// StashCount returns the number of entries in the stash list.
func (r *Repo) StashCount() int {
	r.t.Helper()
	out := r.Git("stash", "list")
	if out == "" {
		return 0
	}
	return len(strings.Split(out, "\n"))
}
