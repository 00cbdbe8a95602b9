package main

import (
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	syncmcp "github.com/gorewood/progress-sync/internal/mcp"
	"github.com/gorewood/progress-sync/internal/output"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run progress-sync as a Model Context Protocol (MCP) server over stdio.

This exposes the save and load workflows as MCP tools that any MCP-capable
agent environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "progress-sync": {
        "command": "progress-sync",
        "args": ["serve"]
      }
    }
  }

Available tools: status, list, save, load`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol; progress steps are dropped.
			quiet := output.NewPrinter(io.Discard, true, false)
			svc, err := newService(cmd, quiet)
			if err != nil {
				return err
			}
			server := syncmcp.NewServer(buildVersion(), svc)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
