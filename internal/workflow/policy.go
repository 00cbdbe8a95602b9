package workflow

import "github.com/gorewood/progress-sync/internal/git"

// Op identifies a snapshot operation for error classification.
type Op string

// Snapshot operations issued by the workflows.
const (
	OpCapture    Op = "capture"
	OpDropTop    Op = "drop"
	OpRestoreTop Op = "restore"
	OpExport     Op = "export"
	OpImport     Op = "import"
)

// Verdict is the outcome of classifying a failed operation.
type Verdict int

const (
	// Fatal aborts the workflow.
	Fatal Verdict = iota
	// Benign means the operation found nothing to act on.
	Benign
)

// String returns the verdict name.
func (v Verdict) String() string {
	if v == Benign {
		return "benign"
	}
	return "fatal"
}

// emptyStashExitCode is what git stash drop/pop exit with when the stash
// list is empty.
const emptyStashExitCode = 1

// benign lists the (operation, exit code) pairs that mean "no stash entry".
// Anything absent is Fatal.
var benign = map[Op]int{
	OpDropTop:    emptyStashExitCode,
	OpRestoreTop: emptyStashExitCode,
}

// Classify decides whether op exiting with exitCode is fatal.
func Classify(op Op, exitCode int) Verdict {
	if code, ok := benign[op]; ok && code == exitCode {
		return Benign
	}
	return Fatal
}

// tolerate returns nil if err is a benign failure of op and err otherwise.
// Launch failures carry no exit code and are always fatal.
func tolerate(op Op, err error) error {
	if err == nil {
		return nil
	}
	if code, ok := git.ExitCode(err); ok && Classify(op, code) == Benign {
		return nil
	}
	return err
}
