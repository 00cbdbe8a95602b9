package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/progress-sync/internal/workflow"
)

// newLoadCmd creates the load command. Running the root command without a
// subcommand does the same.
func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Replace local changes with the saved stash file",
		Long: `Replace uncommitted changes of the current branch with the contents of
<root_directory>/<repo> - <branch>.stash.

Local tracked, staged and untracked changes are discarded before the
saved patch is applied. Nothing is discarded if the stash file does not
exist. This is the default command.

Examples:
  progress-sync                         # Load from the configured root directory
  progress-sync load --file work.stash  # Load from an explicit file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoad(cmd)
		},
	}
}

func runLoad(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	dir, err := workingDir()
	if err != nil {
		return fail(printer, err)
	}
	svc, err := newService(cmd, printer)
	if err != nil {
		return fail(printer, err)
	}

	out, err := svc.Load(cmd.Context(), workflow.LoadRequest{Dir: dir, File: persistentFlag(cmd, "file")})
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(out)
	}

	for _, w := range out.Warnings {
		printer.Warn("%s", w)
	}
	msg := "Loaded changes from " + out.Target.Path
	if out.Meta != nil && !out.Meta.SavedAt.IsZero() {
		msg += printer.Dim(fmt.Sprintf(" (saved %s", out.Meta.SavedAt.Local().Format("2006-01-02 15:04")))
		if out.Meta.Host != "" {
			msg += printer.Dim(" on " + out.Meta.Host)
		}
		msg += printer.Dim(")")
	}
	return printer.Success(map[string]any{"message": msg})
}
