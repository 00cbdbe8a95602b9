package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/progress-sync/internal/output"
	"github.com/gorewood/progress-sync/internal/stashfile"
	"github.com/gorewood/progress-sync/internal/workflow"
)

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stash file for the current branch",
		Long: `Show the repository and branch progress-sync resolves for the current
directory, where its stash file lives and what the file holds.

Examples:
  progress-sync status         # Show human-readable status
  progress-sync status --json  # Output status as JSON for scripting`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	dir, err := workingDir()
	if err != nil {
		return fail(printer, err)
	}
	svc, err := newService(cmd, printer)
	if err != nil {
		return fail(printer, err)
	}

	status, err := svc.Status(cmd.Context(), dir, persistentFlag(cmd, "file"))
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.WriteJSON(status)
	}

	printHumanStatus(printer, status)
	return nil
}

func printHumanStatus(printer *output.Printer, status *workflow.Status) {
	printer.Section("Repository")
	printer.KeyValue("Name", status.Target.Identity.Repo)
	printer.KeyValue("Branch", status.Target.Identity.Branch)
	printer.KeyValue("Root", status.Target.Identity.Root)

	printer.Section("Stash")
	printer.KeyValue("Config file", status.ConfigPath)
	printer.KeyValue("Root directory", status.Target.RootDirectory)
	printer.KeyValue("Stash file", status.Target.Path)
	if !status.Exists {
		printer.KeyValue("Exists", "no")
		return
	}
	printer.KeyValue("Exists", "yes")
	printer.KeyValue("Size", formatSize(status.Stash.Size))
	printStashMeta(printer, status.Stash)
}

func printStashMeta(printer *output.Printer, info *stashfile.Info) {
	if info.MetaErr != "" {
		printer.Warn("%s", info.MetaErr)
		return
	}
	if info.Meta == nil {
		return
	}
	printer.KeyValue("Saved at", info.Meta.SavedAt.Local().Format("2006-01-02 15:04:05"))
	if info.Meta.Host != "" {
		printer.KeyValue("Saved on", info.Meta.Host)
	}
	if info.Meta.Empty {
		printer.KeyValue("Changes", "none (empty stash)")
	}
}

// formatSize renders a byte count for humans.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	value := float64(n)
	suffix := []string{"KiB", "MiB", "GiB", "TiB"}
	i := -1
	for value >= unit && i < len(suffix)-1 {
		value /= unit
		i++
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + " " + suffix[i]
}
