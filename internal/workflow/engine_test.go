package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/progress-sync/internal/git"
)

// fakeSnapshots records calls and returns configured results.
type fakeSnapshots struct {
	captured bool
	top      string
	errs     map[Op]error
	calls    []string
	dirs     []string
}

func (f *fakeSnapshots) Capture(_ context.Context, dir string) (bool, error) {
	f.calls = append(f.calls, "capture")
	f.dirs = append(f.dirs, dir)
	return f.captured, f.errs[OpCapture]
}

func (f *fakeSnapshots) Top(context.Context, string) (string, error) {
	f.calls = append(f.calls, "top")
	return f.top, nil
}

func (f *fakeSnapshots) DropTop(context.Context, string) error {
	f.calls = append(f.calls, "drop")
	return f.errs[OpDropTop]
}

func (f *fakeSnapshots) RestoreTop(context.Context, string) error {
	f.calls = append(f.calls, "restore")
	return f.errs[OpRestoreTop]
}

func (f *fakeSnapshots) Export(context.Context, string, string) error {
	f.calls = append(f.calls, "export")
	return f.errs[OpExport]
}

func (f *fakeSnapshots) ExportEmpty(string) error {
	f.calls = append(f.calls, "export-empty")
	return f.errs[OpExport]
}

func (f *fakeSnapshots) Import(context.Context, string, string) error {
	f.calls = append(f.calls, "import")
	return f.errs[OpImport]
}

func exitCode(code int, args ...string) error {
	return &git.ExitCodeError{Args: args, ExitCode: code, Stderr: "stderr text"}
}

func TestEngineSave(t *testing.T) {
	tests := []struct {
		name         string
		captured     bool
		top          string
		errs         map[Op]error
		wantCalls    []string
		wantEmpty    bool
		wantWarnings int
		wantErr      string
	}{
		{
			name:      "changes are captured, exported and restored",
			captured:  true,
			wantCalls: []string{"capture", "export", "restore"},
		},
		{
			name:      "clean tree writes an empty stash file",
			captured:  false,
			wantCalls: []string{"capture", "export-empty"},
			wantEmpty: true,
		},
		{
			name:      "pop with nothing to pop is benign",
			captured:  true,
			errs:      map[Op]error{OpRestoreTop: exitCode(1, "stash", "pop")},
			wantCalls: []string{"capture", "export", "restore", "top"},
		},
		{
			name:         "pop exit 1 leaving the entry is benign with a warning",
			captured:     true,
			top:          "0123abcd",
			errs:         map[Op]error{OpRestoreTop: exitCode(1, "stash", "pop")},
			wantCalls:    []string{"capture", "export", "restore", "top"},
			wantWarnings: 1,
		},
		{
			name:      "pop conflict is fatal",
			captured:  true,
			errs:      map[Op]error{OpRestoreTop: exitCode(2, "stash", "pop")},
			wantCalls: []string{"capture", "export", "restore"},
			wantErr:   "restoring changes",
		},
		{
			name:      "capture failure aborts",
			errs:      map[Op]error{OpCapture: exitCode(1, "stash", "push")},
			wantCalls: []string{"capture"},
			wantErr:   "collecting changes",
		},
		{
			name:      "export failure keeps the captured entry",
			captured:  true,
			errs:      map[Op]error{OpExport: exitCode(1, "stash", "show")},
			wantCalls: []string{"capture", "export"},
			wantErr:   "saving changes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := &fakeSnapshots{captured: tt.captured, top: tt.top, errs: tt.errs}
			var steps []Step
			engine := NewEngine(snaps, ReporterFunc(func(s Step) { steps = append(steps, s) }))

			result, err := engine.Save(context.Background(), "/repo", "/stashes/repo - main.stash")

			assert.Equal(t, tt.wantCalls, snaps.calls)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEmpty, result.Empty)
			assert.Len(t, result.Warnings, tt.wantWarnings)
			if tt.wantWarnings > 0 {
				assert.Contains(t, result.Warnings[0], tt.top)
			}
			assert.Equal(t, StepCollecting, steps[0])
		})
	}
}

func TestEngineLoad(t *testing.T) {
	tests := []struct {
		name      string
		captured  bool
		errs      map[Op]error
		wantCalls []string
		wantErr   string
	}{
		{
			name:      "local changes are captured and dropped before apply",
			captured:  true,
			wantCalls: []string{"capture", "drop", "import"},
		},
		{
			name:      "clean tree skips drop",
			captured:  false,
			wantCalls: []string{"capture", "import"},
		},
		{
			name:      "drop with nothing to drop is benign",
			captured:  true,
			errs:      map[Op]error{OpDropTop: exitCode(1, "stash", "drop")},
			wantCalls: []string{"capture", "drop", "import"},
		},
		{
			name:      "drop with other exit code is fatal",
			captured:  true,
			errs:      map[Op]error{OpDropTop: exitCode(128, "stash", "drop")},
			wantCalls: []string{"capture", "drop"},
			wantErr:   "removing old changes",
		},
		{
			name:      "apply failure with code 1 is fatal",
			captured:  true,
			errs:      map[Op]error{OpImport: exitCode(1, "apply")},
			wantCalls: []string{"capture", "drop", "import"},
			wantErr:   "applying new changes",
		},
		{
			name:      "capture failure aborts before apply",
			errs:      map[Op]error{OpCapture: &git.LaunchError{Args: []string{"stash"}, Err: errors.New("no git")}},
			wantCalls: []string{"capture"},
			wantErr:   "removing old changes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := &fakeSnapshots{captured: tt.captured, errs: tt.errs}
			engine := NewEngine(snaps, nil)

			err := engine.Load(context.Background(), "/repo", "/stashes/repo - main.stash")

			assert.Equal(t, tt.wantCalls, snaps.calls)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEngine_FatalErrorsKeepDiagnostics(t *testing.T) {
	gitErr := exitCode(1, "apply", "--binary", "--allow-empty", "/x.stash")
	engine := NewEngine(&fakeSnapshots{errs: map[Op]error{OpImport: gitErr}}, nil)

	err := engine.Load(context.Background(), "/repo", "/x.stash")

	var exitErr *git.ExitCodeError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.Contains(t, err.Error(), "git apply --binary --allow-empty /x.stash")
	assert.Contains(t, err.Error(), "stderr text")
}

func TestEngine_ReportsLoadSteps(t *testing.T) {
	var steps []Step
	engine := NewEngine(&fakeSnapshots{captured: true}, ReporterFunc(func(s Step) { steps = append(steps, s) }))

	require.NoError(t, engine.Load(context.Background(), "/repo", "/x.stash"))
	assert.Equal(t, []Step{StepClearing, StepApplying}, steps)
}
