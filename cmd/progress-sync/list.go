package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/progress-sync/internal/stashfile"
)

// listResult is the JSON shape of the list command.
type listResult struct {
	RootDirectory string           `json:"root_directory"`
	Stashes       []stashfile.Info `json:"stashes"`
}

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved stash files",
		Long: `List every stash file under the configured root directory, across all
repositories and branches.

Examples:
  progress-sync list
  progress-sync list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	printer := newPrinter(cmd)

	svc, err := newService(cmd, printer)
	if err != nil {
		return fail(printer, err)
	}
	root, infos, err := svc.List()
	if err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		if infos == nil {
			infos = []stashfile.Info{}
		}
		return printer.WriteJSON(listResult{RootDirectory: root, Stashes: infos})
	}

	if len(infos) == 0 {
		printer.Println("No stash files in " + root)
		return nil
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		saved := info.ModTime.Local().Format("2006-01-02 15:04")
		host := ""
		if info.Meta != nil {
			saved = info.Meta.SavedAt.Local().Format("2006-01-02 15:04")
			host = info.Meta.Host
		}
		rows = append(rows, []string{info.Repo, info.Branch, formatSize(info.Size), saved, host})
	}
	printer.Table([]string{"REPO", "BRANCH", "SIZE", "SAVED", "HOST"}, rows)
	printer.Println()
	printer.Println(printer.Dim(root))
	return nil
}
