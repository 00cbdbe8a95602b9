// Package mcp provides a Model Context Protocol server for progress-sync.
// It exposes the save and load workflows as MCP tools that any MCP-capable
// agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/progress-sync/internal/workflow"
)

// NewServer creates an MCP server with all progress-sync tools registered.
func NewServer(version string, svc *workflow.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "progress-sync",
		Version: version,
	}, nil)
	registerTools(server, svc)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for write tools (additive, not destructive).
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

// destructiveAnnotations returns annotations for tools that discard local
// changes.
func destructiveAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all progress-sync tools to the server.
func registerTools(server *mcp.Server, svc *workflow.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show the repository, branch and stash file progress-sync resolves for a directory, and whether the stash file exists.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list",
		Description: "List every saved stash file under the configured root directory.",
		Annotations: readOnlyAnnotations(),
	}, handleList(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save",
		Description: "Save uncommitted changes (tracked, staged and untracked) of the current branch to its stash file. The working tree is left unchanged.",
		Annotations: writeAnnotations(),
	}, handleSave(svc))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "load",
		Description: "Discard uncommitted changes of the current branch and apply its saved stash file instead.",
		Annotations: destructiveAnnotations(),
	}, handleLoad(svc))
}
