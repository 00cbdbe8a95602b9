package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gorewood/progress-sync/internal/config"
	"github.com/gorewood/progress-sync/internal/identity"
	"github.com/gorewood/progress-sync/internal/stashfile"
)

// ErrNoStashFile is returned by Load when the target stash file does not
// exist. It is checked before any local changes are discarded.
var ErrNoStashFile = errors.New("no stash file")

// ResolveFunc derives the repository identity for a working directory.
type ResolveFunc func(ctx context.Context, dir string) (identity.Identity, error)

// Service resolves configuration and identity, runs the Engine and keeps
// the stash metadata sidecar up to date. The config file is read on every
// call so a new root directory takes effect immediately.
type Service struct {
	engine     *Engine
	resolve    ResolveFunc
	configPath string

	now      func() time.Time
	hostname func() (string, error)
}

// NewService creates a Service reading its configuration from configPath.
func NewService(engine *Engine, resolve ResolveFunc, configPath string) *Service {
	return &Service{
		engine:     engine,
		resolve:    resolve,
		configPath: configPath,
		now:        time.Now,
		hostname:   os.Hostname,
	}
}

// ConfigPath returns the config file the service reads.
func (s *Service) ConfigPath() string {
	return s.configPath
}

// Target is the stash file a workflow reads or writes.
type Target struct {
	Identity      identity.Identity `json:"identity"`
	RootDirectory string            `json:"root_directory"`
	Path          string            `json:"path"`
}

// Config loads the configuration, creating the default on first use.
func (s *Service) Config() (*config.Config, error) {
	cfg, _, err := config.LoadOrCreate(s.configPath)
	return cfg, err
}

// Target resolves the stash file for dir. A non-empty override replaces
// the computed path.
func (s *Service) Target(ctx context.Context, dir, override string) (Target, error) {
	cfg, err := s.Config()
	if err != nil {
		return Target{}, err
	}
	id, err := s.resolve(ctx, dir)
	if err != nil {
		return Target{}, err
	}

	path := cfg.StashPath(id.Repo, id.Branch)
	if override != "" {
		if path, err = filepath.Abs(override); err != nil {
			return Target{}, fmt.Errorf("resolving stash file path: %w", err)
		}
	}
	return Target{Identity: id, RootDirectory: cfg.RootDirectory, Path: path}, nil
}

// SaveRequest parameterizes Service.Save.
type SaveRequest struct {
	Dir  string
	File string
}

// SaveOutcome describes a completed save.
type SaveOutcome struct {
	Target   Target          `json:"target"`
	Meta     *stashfile.Meta `json:"meta,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Save runs the Save workflow from the repository root and records metadata
// next to the stash file. A metadata failure is reported as a warning; the
// stash file is intact.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*SaveOutcome, error) {
	target, err := s.Target(ctx, req.Dir, req.File)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Save(ctx, target.Identity.Root, target.Path)
	if err != nil {
		return nil, err
	}

	out := &SaveOutcome{Target: target, Warnings: result.Warnings}
	meta, err := s.recordMeta(target, result)
	if err != nil {
		out.Warnings = append(out.Warnings, err.Error())
		return out, nil
	}
	out.Meta = meta
	return out, nil
}

func (s *Service) recordMeta(target Target, result SaveResult) (*stashfile.Meta, error) {
	fi, err := os.Stat(target.Path)
	if err != nil {
		return nil, fmt.Errorf("reading stash file: %w", err)
	}
	host, err := s.hostname()
	if err != nil {
		host = ""
	}
	meta := stashfile.Meta{
		Repository: target.Identity.Repo,
		Branch:     target.Identity.Branch,
		SavedAt:    s.now().UTC().Truncate(time.Second),
		Host:       host,
		Size:       fi.Size(),
		Empty:      result.Empty,
	}
	if err := stashfile.WriteMeta(target.Path, meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRequest parameterizes Service.Load.
type LoadRequest struct {
	Dir  string
	File string
}

// LoadOutcome describes a completed load.
type LoadOutcome struct {
	Target   Target          `json:"target"`
	Meta     *stashfile.Meta `json:"meta,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// Load runs the Load workflow from the repository root, so git apply sees
// every path in the patch. It fails with ErrNoStashFile before touching the
// working tree if the stash file is missing.
func (s *Service) Load(ctx context.Context, req LoadRequest) (*LoadOutcome, error) {
	target, err := s.Target(ctx, req.Dir, req.File)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(target.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w for %s on branch %s: %s",
				ErrNoStashFile, target.Identity.Repo, target.Identity.Branch, target.Path)
		}
		return nil, fmt.Errorf("reading stash file: %w", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("stash file %s is a directory", target.Path)
	}

	out := &LoadOutcome{Target: target}
	meta, err := stashfile.ReadMeta(target.Path)
	if err != nil {
		out.Warnings = append(out.Warnings, err.Error())
	}
	out.Meta = meta

	if err := s.engine.Load(ctx, target.Identity.Root, target.Path); err != nil {
		return nil, err
	}
	return out, nil
}

// Status describes the stash state of a working directory.
type Status struct {
	ConfigPath string          `json:"config_path"`
	Target     Target          `json:"target"`
	Exists     bool            `json:"exists"`
	Stash      *stashfile.Info `json:"stash,omitempty"`
}

// Status reports where the stash file for dir lives and what it holds.
func (s *Service) Status(ctx context.Context, dir, override string) (*Status, error) {
	target, err := s.Target(ctx, dir, override)
	if err != nil {
		return nil, err
	}

	status := &Status{ConfigPath: s.configPath, Target: target}
	info, err := stashfile.Stat(target.Path)
	switch {
	case err == nil:
		info.Repo = target.Identity.Repo
		info.Branch = target.Identity.Branch
		status.Exists = true
		status.Stash = info
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("reading stash file: %w", err)
	}
	return status, nil
}

// List returns every stash file under the configured root directory.
func (s *Service) List() (root string, infos []stashfile.Info, err error) {
	cfg, err := s.Config()
	if err != nil {
		return "", nil, err
	}
	infos, err = stashfile.List(cfg.RootDirectory)
	if err != nil {
		return "", nil, err
	}
	return cfg.RootDirectory, infos, nil
}
