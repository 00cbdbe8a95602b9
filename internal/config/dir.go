// Package config loads and persists the progress-sync configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "progress-sync"

// Dir returns the progress-sync configuration directory.
//
// Resolution:
//   - $PROGRESS_SYNC_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/progress-sync if set (respects XDG on any platform)
//   - %AppData%/progress-sync on Windows
//   - ~/.config/progress-sync on macOS and Linux
func Dir() string {
	if dir := os.Getenv("PROGRESS_SYNC_CONFIG_HOME"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the directory holding progress-sync data.
//
// Resolution:
//   - $PROGRESS_SYNC_DATA_HOME if set
//   - $XDG_DATA_HOME/progress-sync if set
//   - %LocalAppData%/progress-sync on Windows
//   - ~/.local/share/progress-sync on macOS and Linux
func DataDir() string {
	if dir := os.Getenv("PROGRESS_SYNC_DATA_HOME"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// FilePath returns the default config file location, or "" if no
// configuration directory can be determined.
func FilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}
