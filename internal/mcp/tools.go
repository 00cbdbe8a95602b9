package mcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/progress-sync/internal/stashfile"
	"github.com/gorewood/progress-sync/internal/workflow"
)

// --- Shared types ---

// TargetInput selects the working directory and, optionally, an explicit
// stash file.
type TargetInput struct {
	Dir  string `json:"dir,omitempty"  jsonschema:"repository working directory (default: server working directory)"`
	File string `json:"file,omitempty" jsonschema:"stash file path overriding <root>/<repo> - <branch>.stash"`
}

// Target describes the resolved stash file.
type Target struct {
	Repo          string `json:"repo"           jsonschema:"repository name"`
	Branch        string `json:"branch"         jsonschema:"current branch"`
	RootDirectory string `json:"root_directory" jsonschema:"configured stash root directory"`
	Path          string `json:"path"           jsonschema:"stash file path"`
}

// Stash describes a stash file on disk.
type Stash struct {
	Repo    string `json:"repo"               jsonschema:"repository name"`
	Branch  string `json:"branch"             jsonschema:"branch name"`
	Path    string `json:"path"               jsonschema:"stash file path"`
	Size    int64  `json:"size"               jsonschema:"file size in bytes"`
	SavedAt string `json:"saved_at,omitempty" jsonschema:"save timestamp (RFC3339)"`
	Host    string `json:"host,omitempty"     jsonschema:"machine the stash was saved on"`
	Empty   bool   `json:"empty,omitempty"    jsonschema:"true if the stash holds no changes"`
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}

func toTarget(t workflow.Target) Target {
	return Target{
		Repo:          t.Identity.Repo,
		Branch:        t.Identity.Branch,
		RootDirectory: t.RootDirectory,
		Path:          t.Path,
	}
}

func toStash(info stashfile.Info) Stash {
	s := Stash{
		Repo:   info.Repo,
		Branch: info.Branch,
		Path:   info.Path,
		Size:   info.Size,
	}
	if info.Meta != nil {
		s.SavedAt = info.Meta.SavedAt.Format(time.RFC3339)
		s.Host = info.Meta.Host
		s.Empty = info.Meta.Empty
	}
	return s
}

// --- Status tool ---

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	ConfigPath string `json:"config_path"     jsonschema:"config file in use"`
	Target     Target `json:"target"          jsonschema:"resolved stash file"`
	Exists     bool   `json:"exists"          jsonschema:"true if the stash file exists"`
	Stash      *Stash `json:"stash,omitempty" jsonschema:"stash file details when it exists"`
}

func handleStatus(svc *workflow.Service) mcp.ToolHandlerFor[TargetInput, StatusOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TargetInput) (*mcp.CallToolResult, StatusOutput, error) {
		dir, err := resolveDir(input.Dir)
		if err != nil {
			return nil, StatusOutput{}, err
		}
		status, err := svc.Status(ctx, dir, input.File)
		if err != nil {
			return nil, StatusOutput{}, err
		}

		out := StatusOutput{
			ConfigPath: status.ConfigPath,
			Target:     toTarget(status.Target),
			Exists:     status.Exists,
		}
		if status.Stash != nil {
			stash := toStash(*status.Stash)
			out.Stash = &stash
		}
		return nil, out, nil
	}
}

// --- List tool ---

// ListInput is the input for the list tool (no parameters needed).
type ListInput struct{}

// ListOutput is the output for the list tool.
type ListOutput struct {
	RootDirectory string  `json:"root_directory" jsonschema:"configured stash root directory"`
	Count         int     `json:"count"          jsonschema:"number of stash files"`
	Stashes       []Stash `json:"stashes"        jsonschema:"stash files sorted by repository then branch"`
}

func handleList(svc *workflow.Service) mcp.ToolHandlerFor[ListInput, ListOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, ListOutput, error) {
		root, infos, err := svc.List()
		if err != nil {
			return nil, ListOutput{}, err
		}

		stashes := make([]Stash, 0, len(infos))
		for _, info := range infos {
			stashes = append(stashes, toStash(info))
		}
		return nil, ListOutput{RootDirectory: root, Count: len(stashes), Stashes: stashes}, nil
	}
}

// --- Save tool ---

// SaveOutput is the output for the save tool.
type SaveOutput struct {
	Target   Target   `json:"target"             jsonschema:"stash file written"`
	Empty    bool     `json:"empty"              jsonschema:"true if there were no changes to save"`
	Warnings []string `json:"warnings,omitempty" jsonschema:"non-fatal warnings"`
}

func handleSave(svc *workflow.Service) mcp.ToolHandlerFor[TargetInput, SaveOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TargetInput) (*mcp.CallToolResult, SaveOutput, error) {
		dir, err := resolveDir(input.Dir)
		if err != nil {
			return nil, SaveOutput{}, err
		}
		res, err := svc.Save(ctx, workflow.SaveRequest{Dir: dir, File: input.File})
		if err != nil {
			return nil, SaveOutput{}, err
		}

		out := SaveOutput{Target: toTarget(res.Target), Warnings: res.Warnings}
		if res.Meta != nil {
			out.Empty = res.Meta.Empty
		}
		return nil, out, nil
	}
}

// --- Load tool ---

// LoadOutput is the output for the load tool.
type LoadOutput struct {
	Target   Target   `json:"target"             jsonschema:"stash file applied"`
	SavedAt  string   `json:"saved_at,omitempty" jsonschema:"when the applied stash was saved (RFC3339)"`
	Host     string   `json:"host,omitempty"     jsonschema:"machine the applied stash was saved on"`
	Warnings []string `json:"warnings,omitempty" jsonschema:"non-fatal warnings"`
}

func handleLoad(svc *workflow.Service) mcp.ToolHandlerFor[TargetInput, LoadOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TargetInput) (*mcp.CallToolResult, LoadOutput, error) {
		dir, err := resolveDir(input.Dir)
		if err != nil {
			return nil, LoadOutput{}, err
		}
		res, err := svc.Load(ctx, workflow.LoadRequest{Dir: dir, File: input.File})
		if err != nil {
			return nil, LoadOutput{}, err
		}

		out := LoadOutput{Target: toTarget(res.Target), Warnings: res.Warnings}
		if res.Meta != nil {
			out.SavedAt = res.Meta.SavedAt.Format(time.RFC3339)
			out.Host = res.Meta.Host
		}
		return nil, out, nil
	}
}
