package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/gorewood/progress-sync/internal/stashfile"
)

// ErrNotFound is returned by Load when the config file does not exist.
var ErrNotFound = errors.New("config file not found")

// Config is the persisted progress-sync configuration.
type Config struct {
	// RootDirectory holds all stash files.
	RootDirectory string `toml:"root_directory"`
}

// Error reports a config file that could not be read, parsed or written.
type Error struct {
	Op   string // "read", "parse", "write", "resolve"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Default returns a config rooted at DataDir()/stashes.
func Default() (*Config, error) {
	dir := DataDir()
	if dir == "" {
		return nil, &Error{Op: "resolve", Err: errors.New("cannot determine a data directory")}
	}
	return &Config{RootDirectory: filepath.Join(dir, "stashes")}, nil
}

// Load reads the config file at path. Returns ErrNotFound if it is absent.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, &Error{Op: "read", Path: path, Err: err}
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Op: "parse", Path: path, Err: err}
	}
	if cfg.RootDirectory == "" {
		return nil, &Error{Op: "parse", Path: path, Err: errors.New("root_directory is not set")}
	}
	return &cfg, nil
}

// LoadOrCreate reads the config at path, writing and returning the
// default configuration if none exists yet. created reports whether the
// default was written.
func LoadOrCreate(path string) (cfg *Config, created bool, err error) {
	cfg, err = Load(path)
	if err == nil {
		return cfg, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	cfg, err = Default()
	if err != nil {
		return nil, false, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}

// StashPath returns the stash file location for repo and branch.
func (c *Config) StashPath(repo, branch string) string {
	return stashfile.Path(c.RootDirectory, repo, branch)
}
