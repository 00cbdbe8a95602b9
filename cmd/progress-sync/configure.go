package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/progress-sync/internal/config"
	"github.com/gorewood/progress-sync/internal/output"
)

// newConfigureCmd creates the configure command.
func newConfigureCmd() *cobra.Command {
	var rootDirFlag string
	var showFlag bool
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set the directory holding stash files",
		Long: `Persist the root directory that stash files are saved to and loaded from.

Relative paths are made absolute. Point the root directory at a folder
shared between machines (a synced drive, a network mount) to move work
between them. No repository is touched.

Examples:
  progress-sync configure --root-directory ~/Dropbox/stashes
  progress-sync configure --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigure(cmd, rootDirFlag, showFlag)
		},
	}
	cmd.Flags().StringVar(&rootDirFlag, "root-directory", "", "Directory holding stash files")
	cmd.Flags().BoolVar(&showFlag, "show", false, "Print the current configuration")
	return cmd
}

func runConfigure(cmd *cobra.Command, rootDir string, show bool) error {
	printer := newPrinter(cmd)

	path, err := configPath(cmd)
	if err != nil {
		return fail(printer, err)
	}

	rootDir = strings.TrimSpace(rootDir)
	if rootDir == "" && !show {
		return fail(printer, output.NewUserError("--root-directory is required (or use --show)"))
	}

	if rootDir == "" {
		cfg, _, err := config.LoadOrCreate(path)
		if err != nil {
			return fail(printer, err)
		}
		return printConfig(printer, path, cfg)
	}

	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return fail(printer, output.NewErrorWithCause("invalid root directory "+rootDir, err))
	}
	cfg := &config.Config{RootDirectory: abs}
	if err := cfg.Save(path); err != nil {
		return fail(printer, err)
	}

	if show {
		return printConfig(printer, path, cfg)
	}
	if printer.IsJSON() {
		return printer.Success(map[string]any{"config_path": path, "root_directory": abs})
	}
	return printer.Success(map[string]any{"message": "Root directory set to " + abs})
}

func printConfig(printer *output.Printer, path string, cfg *config.Config) error {
	if printer.IsJSON() {
		return printer.Success(map[string]any{"config_path": path, "root_directory": cfg.RootDirectory})
	}
	printer.KeyValue("Config file", path)
	printer.KeyValue("Root directory", cfg.RootDirectory)
	return nil
}
