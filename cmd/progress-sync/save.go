package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/progress-sync/internal/workflow"
)

// newSaveCmd creates the save command.
func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save uncommitted changes to the stash file",
		Long: `Save tracked, staged and untracked changes of the current branch to
<root_directory>/<repo> - <branch>.stash.

The changes are stashed, written to the file as a binary patch and
popped back, so the working tree is left as it was. A clean tree writes
an empty stash file.

Examples:
  progress-sync save                    # Save to the configured root directory
  progress-sync save --file work.stash  # Save to an explicit file
  progress-sync save --json             # Report the saved file as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSave(cmd)
		},
	}
}

func runSave(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	dir, err := workingDir()
	if err != nil {
		return fail(printer, err)
	}
	svc, err := newService(cmd, printer)
	if err != nil {
		return fail(printer, err)
	}

	out, err := svc.Save(cmd.Context(), workflow.SaveRequest{Dir: dir, File: persistentFlag(cmd, "file")})
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(out)
	}

	for _, w := range out.Warnings {
		printer.Warn("%s", w)
	}
	msg := "Saved changes to " + out.Target.Path
	if out.Meta != nil && out.Meta.Empty {
		msg = "No changes to save; wrote empty stash file " + out.Target.Path
	}
	return printer.Success(map[string]any{"message": msg})
}
