// Package workflow sequences the Save and Load workflows over a snapshot
// store and applies the benign-failure policy for drop and pop.
package workflow

import (
	"context"
	"fmt"
)

// Snapshots is the capability the workflows run against. *snapshot.Git
// implements it with git stash and git apply.
type Snapshots interface {
	// Capture stashes all local changes and reports whether an entry was
	// created.
	Capture(ctx context.Context, dir string) (bool, error)
	// Top returns the object id of the most recent stash entry, or "" if
	// the stash list is empty.
	Top(ctx context.Context, dir string) (string, error)
	DropTop(ctx context.Context, dir string) error
	RestoreTop(ctx context.Context, dir string) error
	Export(ctx context.Context, dir, path string) error
	// ExportEmpty writes a stash file encoding no changes.
	ExportEmpty(path string) error
	Import(ctx context.Context, dir, path string) error
}

// Step names a workflow state, reported as it is entered.
type Step string

// Workflow steps in execution order.
const (
	StepCollecting Step = "Collecting changes..."
	StepSaving     Step = "Saving changes..."
	StepRestoring  Step = "Restoring changes..."
	StepClearing   Step = "Removing old changes..."
	StepApplying   Step = "Applying new changes..."
)

// Reporter receives progress as each step starts.
type Reporter interface {
	Step(step Step)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Step)

// Step calls f(step).
func (f ReporterFunc) Step(step Step) { f(step) }

type nopReporter struct{}

func (nopReporter) Step(Step) {}

// Engine runs the Save and Load workflows. Workflows are strictly
// sequential and never retried; concurrent runs against the same working
// directory are not guarded against.
type Engine struct {
	snaps    Snapshots
	reporter Reporter
}

// NewEngine creates an Engine. A nil reporter discards progress.
func NewEngine(snaps Snapshots, reporter Reporter) *Engine {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Engine{snaps: snaps, reporter: reporter}
}

// SaveResult describes a completed Save.
type SaveResult struct {
	// Empty is true when there were no changes and an empty stash file was
	// written.
	Empty bool
	// Warnings describe tolerated failures the user should act on.
	Warnings []string
}

// popConflictWarning is reported when a tolerated pop left the captured
// entry on the stash list.
const popConflictWarning = "git stash pop exited 1 and stash entry %s is still on the stash list; " +
	"the working tree may hold conflict markers. Resolve them, then run 'git stash drop'"

// Save captures local changes in dir, writes them to path and restores
// them, leaving the working tree as it was.
//
// If writing the stash file fails the captured entry stays on the stash
// list so no changes are lost.
func (e *Engine) Save(ctx context.Context, dir, path string) (SaveResult, error) {
	e.reporter.Step(StepCollecting)
	captured, err := e.snaps.Capture(ctx, dir)
	if err != nil {
		return SaveResult{}, fmt.Errorf("collecting changes: %w", err)
	}

	e.reporter.Step(StepSaving)
	if !captured {
		if err := e.snaps.ExportEmpty(path); err != nil {
			return SaveResult{}, fmt.Errorf("saving changes: %w", err)
		}
		return SaveResult{Empty: true}, nil
	}
	if err := e.snaps.Export(ctx, dir, path); err != nil {
		return SaveResult{}, fmt.Errorf("saving changes: %w", err)
	}

	e.reporter.Step(StepRestoring)
	popErr := e.snaps.RestoreTop(ctx, dir)
	if err := tolerate(OpRestoreTop, popErr); err != nil {
		return SaveResult{}, fmt.Errorf("restoring changes: %w", err)
	}

	var result SaveResult
	if popErr != nil {
		// An entry was captured, so a tolerated exit 1 is a conflicted pop
		// and git keeps the entry.
		if top, err := e.snaps.Top(ctx, dir); err == nil && top != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf(popConflictWarning, top))
		}
	}
	return result, nil
}

// Load discards local changes in dir and applies the stash file at path.
// Local changes are captured and then dropped, so they are gone once Load
// returns.
func (e *Engine) Load(ctx context.Context, dir, path string) error {
	e.reporter.Step(StepClearing)
	captured, err := e.snaps.Capture(ctx, dir)
	if err != nil {
		return fmt.Errorf("removing old changes: %w", err)
	}
	if captured {
		if err := tolerate(OpDropTop, e.snaps.DropTop(ctx, dir)); err != nil {
			return fmt.Errorf("removing old changes: %w", err)
		}
	}

	e.reporter.Step(StepApplying)
	if err := e.snaps.Import(ctx, dir, path); err != nil {
		return fmt.Errorf("applying new changes: %w", err)
	}
	return nil
}
