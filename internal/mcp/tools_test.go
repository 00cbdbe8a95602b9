package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/progress-sync/internal/config"
	"github.com/gorewood/progress-sync/internal/git"
	"github.com/gorewood/progress-sync/internal/gittest"
	"github.com/gorewood/progress-sync/internal/identity"
	"github.com/gorewood/progress-sync/internal/snapshot"
	"github.com/gorewood/progress-sync/internal/workflow"
)

// --- Test helpers ---

// makeTestService wires the real git-backed stack with a config rooted at
// a temp directory.
func makeTestService(t *testing.T) (*workflow.Service, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "stashes")
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := (&config.Config{RootDirectory: root}).Save(configPath); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	runner := &git.Runner{}
	resolve := func(ctx context.Context, dir string) (identity.Identity, error) {
		return identity.Resolve(ctx, runner, dir)
	}
	engine := workflow.NewEngine(snapshot.New(runner), nil)
	return workflow.NewService(engine, resolve, configPath), root
}

// --- Status handler tests ---

func TestHandleStatus_NoStash(t *testing.T) {
	repo := gittest.NewRepo(t, "foo")
	svc, root := makeTestService(t)

	_, out, err := handleStatus(svc)(context.Background(), &mcp.CallToolRequest{}, TargetInput{Dir: repo.Dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Target.Repo != "foo" || out.Target.Branch != "main" {
		t.Errorf("Target = %+v, want foo/main", out.Target)
	}
	if want := filepath.Join(root, "foo - main.stash"); out.Target.Path != want {
		t.Errorf("Path = %q, want %q", out.Target.Path, want)
	}
	if out.Exists || out.Stash != nil {
		t.Errorf("Exists = %v, Stash = %+v, want no stash", out.Exists, out.Stash)
	}
}

func TestHandleStatus_NotARepo(t *testing.T) {
	gittest.RequireGit(t)
	svc, _ := makeTestService(t)

	_, _, err := handleStatus(svc)(context.Background(), &mcp.CallToolRequest{}, TargetInput{Dir: t.TempDir()})
	var idErr *identity.Error
	if !errors.As(err, &idErr) {
		t.Fatalf("error = %v, want *identity.Error", err)
	}
}

// --- Save/Load handler tests ---

func TestHandleSave_ThenLoadInClone(t *testing.T) {
	source := gittest.NewRepo(t, "foo")
	target := source.Clone()
	svc, _ := makeTestService(t)
	ctx := context.Background()

	source.WriteFile("README.md", "changed\n")
	_, saved, err := handleSave(svc)(ctx, &mcp.CallToolRequest{}, TargetInput{Dir: source.Dir})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Empty {
		t.Error("Empty = true, want false for a modified tree")
	}
	if got := source.ReadFile("README.md"); got != "changed\n" {
		t.Errorf("source README.md = %q, save should leave it unchanged", got)
	}

	_, loaded, err := handleLoad(svc)(ctx, &mcp.CallToolRequest{}, TargetInput{Dir: target.Dir})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Target.Path != saved.Target.Path {
		t.Errorf("load path = %q, save path = %q", loaded.Target.Path, saved.Target.Path)
	}
	if loaded.SavedAt == "" {
		t.Error("SavedAt is empty, want metadata from the save")
	}
	if got := target.ReadFile("README.md"); got != "changed\n" {
		t.Errorf("target README.md = %q, want %q", got, "changed\n")
	}
}

func TestHandleSave_CleanTree(t *testing.T) {
	repo := gittest.NewRepo(t, "foo")
	svc, _ := makeTestService(t)

	_, out, err := handleSave(svc)(context.Background(), &mcp.CallToolRequest{}, TargetInput{Dir: repo.Dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Empty {
		t.Error("Empty = false, want true for a clean tree")
	}
}

func TestHandleLoad_MissingStash(t *testing.T) {
	repo := gittest.NewRepo(t, "foo")
	repo.WriteFile("README.md", "keep me\n")
	svc, _ := makeTestService(t)

	_, _, err := handleLoad(svc)(context.Background(), &mcp.CallToolRequest{}, TargetInput{Dir: repo.Dir})
	if !errors.Is(err, workflow.ErrNoStashFile) {
		t.Fatalf("error = %v, want ErrNoStashFile", err)
	}
	if got := repo.ReadFile("README.md"); got != "keep me\n" {
		t.Errorf("README.md = %q, local changes must survive a failed load", got)
	}
}

func TestHandleSave_ExplicitFile(t *testing.T) {
	repo := gittest.NewRepo(t, "foo")
	repo.WriteFile("notes.txt", "untracked\n")
	svc, _ := makeTestService(t)
	file := filepath.Join(t.TempDir(), "custom.stash")

	_, out, err := handleSave(svc)(context.Background(), &mcp.CallToolRequest{}, TargetInput{Dir: repo.Dir, File: file})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Target.Path != file {
		t.Errorf("Path = %q, want %q", out.Target.Path, file)
	}
}

// --- List handler tests ---

func TestHandleList(t *testing.T) {
	repo := gittest.NewRepo(t, "foo")
	svc, root := makeTestService(t)
	ctx := context.Background()

	_, empty, err := handleList(svc)(ctx, &mcp.CallToolRequest{}, ListInput{})
	if err != nil {
		t.Fatalf("list before save: %v", err)
	}
	if empty.Count != 0 || empty.Stashes == nil {
		t.Errorf("empty list = %+v, want zero non-nil stashes", empty)
	}

	repo.WriteFile("README.md", "changed\n")
	if _, _, err := handleSave(svc)(ctx, &mcp.CallToolRequest{}, TargetInput{Dir: repo.Dir}); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, out, err := handleList(svc)(ctx, &mcp.CallToolRequest{}, ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out.RootDirectory != root {
		t.Errorf("RootDirectory = %q, want %q", out.RootDirectory, root)
	}
	if out.Count != 1 {
		t.Fatalf("Count = %d, want 1", out.Count)
	}
	if s := out.Stashes[0]; s.Repo != "foo" || s.Branch != "main" || s.SavedAt == "" {
		t.Errorf("stash = %+v, want foo/main with metadata", s)
	}
}

// --- Server registration test ---

func TestNewServer_RegistersTools(t *testing.T) {
	svc, _ := makeTestService(t)

	// Should not panic
	server := NewServer("test-version", svc)
	if server == nil {
		t.Fatal("NewServer returned nil")
	}
}
