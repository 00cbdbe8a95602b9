package workflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/progress-sync/internal/git"
	"github.com/gorewood/progress-sync/internal/gittest"
	"github.com/gorewood/progress-sync/internal/snapshot"
)

func newGitEngine() *Engine {
	return NewEngine(snapshot.New(&git.Runner{}), nil)
}

func TestGit_SaveLoad_CleanTree(t *testing.T) {
	repo := gittest.NewRepo(t, "clean")
	engine := newGitEngine()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "clean - main.stash")

	result, err := engine.Save(ctx, repo.Dir, path)
	require.NoError(t, err)
	assert.True(t, result.Empty)

	require.NoError(t, engine.Load(ctx, repo.Dir, path))
	assert.Empty(t, repo.Status())
	assert.Equal(t, 0, repo.StashCount())
}

func TestGit_Save_PreservesWorkingTree(t *testing.T) {
	repo := gittest.NewRepo(t, "foo")
	repo.WriteFile("README.md", "modified\n")
	repo.WriteFile("scratch/todo.txt", "untracked\n")
	before := repo.Status()
	path := filepath.Join(t.TempDir(), "foo - main.stash")

	result, err := newGitEngine().Save(context.Background(), repo.Dir, path)
	require.NoError(t, err)
	assert.False(t, result.Empty)

	assert.Equal(t, before, repo.Status())
	assert.Equal(t, "modified\n", repo.ReadFile("README.md"))
	assert.Equal(t, "untracked\n", repo.ReadFile("scratch/todo.txt"))
	assert.Equal(t, 0, repo.StashCount(), "temporary stash entry should be popped")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGit_Load_ReplacesLocalChanges(t *testing.T) {
	source := gittest.NewRepo(t, "foo")
	target := source.Clone()
	engine := newGitEngine()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "foo - main.stash")

	source.WriteFile("README.md", "from source\n")
	source.WriteFile("added.txt", "new file\n")
	_, err := engine.Save(ctx, source.Dir, path)
	require.NoError(t, err)

	target.WriteFile("README.md", "local edit to discard\n")
	target.WriteFile("local-only.txt", "discard me\n")

	require.NoError(t, engine.Load(ctx, target.Dir, path))
	assert.Equal(t, "from source\n", target.ReadFile("README.md"))
	assert.Equal(t, "new file\n", target.ReadFile("added.txt"))
	assert.False(t, target.Exists("local-only.txt"), "local untracked file should be discarded")
	assert.Equal(t, 0, target.StashCount(), "safety stash should be dropped")
}

// conflictingPatch is well formed but does not apply to README.md.
const conflictingPatch = "diff --git a/README.md b/README.md\n--- a/README.md\n+++ b/README.md\n@@ -1 +1 @@\n-not the content\n+other\n"

func TestGit_Load_CorruptStashIsFatal(t *testing.T) {
	repo := gittest.NewRepo(t, "corrupt")
	path := filepath.Join(t.TempDir(), "corrupt - main.stash")
	require.NoError(t, os.WriteFile(path, []byte(conflictingPatch), 0o644))

	err := newGitEngine().Load(context.Background(), repo.Dir, path)

	_, ok := git.ExitCode(err)
	require.True(t, ok, "expected *git.ExitCodeError, got %v", err)
}

func TestGit_Save_LeavesUserStashAlone(t *testing.T) {
	repo := gittest.NewRepo(t, "userstash")
	repo.WriteFile("README.md", "user work\n")
	repo.Git("stash", "push", "-m", "user work")
	path := filepath.Join(t.TempDir(), "userstash - main.stash")

	result, err := newGitEngine().Save(context.Background(), repo.Dir, path)
	require.NoError(t, err)
	assert.True(t, result.Empty)
	assert.Equal(t, 1, repo.StashCount())
}

func TestGit_Save_ConflictedPopWarns(t *testing.T) {
	repo := gittest.NewRepo(t, "conflict")
	repo.WriteFile("README.md", "staged\n")
	repo.Git("add", "README.md")
	repo.WriteFile("README.md", "staged and edited\n")
	path := filepath.Join(t.TempDir(), "conflict - main.stash")

	result, err := newGitEngine().Save(context.Background(), repo.Dir, path)
	require.NoError(t, err, "exit 1 from pop stays benign")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "git stash drop")
	assert.Equal(t, 1, repo.StashCount(), "git keeps the entry after a conflicted pop")
}
