package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/progress-sync/internal/config"
	"github.com/gorewood/progress-sync/internal/git"
	"github.com/gorewood/progress-sync/internal/identity"
	"github.com/gorewood/progress-sync/internal/logging"
	"github.com/gorewood/progress-sync/internal/output"
	"github.com/gorewood/progress-sync/internal/snapshot"
	"github.com/gorewood/progress-sync/internal/workflow"
)

// persistentFlag looks a flag up on the command, then on the root's
// persistent flags.
func persistentFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return persistentFlag(cmd, "json") == "true"
}

// useColor resolves --color against TTY detection on stdout. An invalid
// mode was already rejected by validateFlags and falls back to auto.
func useColor(cmd *cobra.Command) bool {
	mode, err := output.ParseColorMode(persistentFlag(cmd, "color"))
	if err != nil {
		mode = output.ColorAuto
	}
	return mode.Enabled(output.IsTTY(cmd.OutOrStdout()))
}

// validateFlags rejects persistent flag values before any command runs.
func validateFlags(cmd *cobra.Command, _ []string) error {
	if _, err := output.ParseColorMode(persistentFlag(cmd, "color")); err != nil {
		if isJSONMode(cmd) {
			output.NewPrinter(cmd.OutOrStdout(), true, false).Error(err)
		}
		return err
	}
	return nil
}

// newPrinter creates a printer writing results to stdout and warnings to
// stderr.
func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).
		WithStderr(cmd.ErrOrStderr())
}

func defaultConfigHint() string {
	if path := config.FilePath(); path != "" {
		return path
	}
	return "$PROGRESS_SYNC_CONFIG_HOME/config.toml"
}

// configPath returns --config or the platform default location.
func configPath(cmd *cobra.Command) (string, error) {
	if path := persistentFlag(cmd, "config"); path != "" {
		return path, nil
	}
	if path := config.FilePath(); path != "" {
		return path, nil
	}
	return "", output.NewUserError("cannot determine a config directory; pass --config or set PROGRESS_SYNC_CONFIG_HOME")
}

// newService wires the git runner, snapshot store and engine. Workflow
// steps are reported through printer.
func newService(cmd *cobra.Command, printer *output.Printer) (*workflow.Service, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.Options{Verbose: persistentFlag(cmd, "verbose") == "true"})
	runner := git.NewRunner(logger)
	reporter := workflow.ReporterFunc(func(step workflow.Step) {
		printer.Step(string(step))
	})
	engine := workflow.NewEngine(snapshot.New(runner), reporter)
	resolve := func(ctx context.Context, dir string) (identity.Identity, error) {
		return identity.Resolve(ctx, runner, dir)
	}
	return workflow.NewService(engine, resolve, path), nil
}

// workingDir returns the directory whose repository commands act on.
func workingDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", output.NewErrorWithCause("cannot determine working directory", err)
	}
	return dir, nil
}

// fail prints err in JSON mode (human errors are printed once by main)
// and returns it.
func fail(printer *output.Printer, err error) error {
	if printer.IsJSON() {
		printer.Error(err)
	}
	return err
}
