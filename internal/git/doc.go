// Package git runs the git executable for progress-sync.
//
// Every call spawns exactly one git process in an explicit working
// directory. Nothing is retried; failures come back classified so that
// callers can decide what is benign.
//
// # Running Commands
//
//	r := git.NewRunner(logger)
//	err := r.Run(ctx, dir, "stash", "drop")
//	root, err := r.Output(ctx, dir, "rev-parse", "--show-toplevel")
//	err = r.RunToFile(ctx, dir, file, "stash", "show", "--binary", "-u")
//
// # Errors
//
// Two error types are returned:
//   - *LaunchError when the process could not be started
//   - *ExitCodeError when git exited non-zero; it carries the argument
//     list, exit code and captured stderr
//
// Use ExitCode to pull the exit status out of a wrapped error:
//
//	if code, ok := git.ExitCode(err); ok && code == 1 {
//	    // nothing to drop
//	}
package git
