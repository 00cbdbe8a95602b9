// Package output provides structured output handling for the progress-sync CLI.
//
// # Printer
//
// The Printer is the primary interface for command output. It switches
// between human-readable and JSON output based on the --json flag:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//
//	printer.Step("Collecting changes...")
//	printer.Success(map[string]any{"message": "Saved changes", "path": path})
//	printer.Error(err)
//
// # JSON Mode
//
// In JSON mode progress steps are suppressed and results are single
// objects:
//
//	// Success: {"message": "...", "path": "...", ...}
//	// Error: {"error": "message", "code": 1}
//
// # Styling
//
// Human-readable output uses lipgloss styles, disabled when output is not
// a terminal or --color never is given.
//
// # Exit Codes
//
// Every failure exits 1:
//
//	output.ExitSuccess // 0
//	output.ExitFailure // 1
package output
