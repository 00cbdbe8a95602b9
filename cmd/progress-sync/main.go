// Package main provides the entry point for the progress-sync CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/progress-sync/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd,
		fang.WithVersion(buildVersion()),
		fang.WithErrorHandler(printFailure),
	)
	return output.GetExitCode(err)
}

// printFailure renders a fatal error as a multi-line message on stderr.
func printFailure(w io.Writer, _ fang.Styles, err error) {
	output.NewPrinter(w, false, output.IsTTY(w)).Error(err)
}

// newRootCmd creates the root command for the progress-sync CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress-sync",
		Short: "Carry uncommitted changes between machines",
		Long: `progress-sync - move uncommitted work between machines through a stash file.

Changes for the current repository and branch are stored in
<root_directory>/<repo> - <branch>.stash:
  - save captures tracked, staged and untracked changes into the file
    and leaves the working tree untouched
  - load discards local changes and applies the file in their place

Running progress-sync with no command performs a load.`,
		Version:           buildVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: validateFlags,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd)
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().String("config", "", "Config file (default: "+defaultConfigHint()+")")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log every git invocation to stderr")
	cmd.PersistentFlags().StringP("file", "f", "", "Stash file to use instead of the computed path")

	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "sync", Title: "Sync Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "query", Title: "Query Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newLoadCmd(), "sync")
	addGroupedCommand(cmd, newSaveCmd(), "sync")

	addGroupedCommand(cmd, newStatusCmd(), "query")
	addGroupedCommand(cmd, newListCmd(), "query")

	addGroupedCommand(cmd, newConfigureCmd(), "admin")
	addGroupedCommand(cmd, newServeCmd(), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
