// Package stashfile names stash files, records their metadata and
// catalogues the stash root directory.
package stashfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Ext is the stash file extension.
const Ext = ".stash"

// metaExt is appended to a stash path to name its metadata sidecar.
const metaExt = ".yaml"

// nameSep separates repository and branch in a stash file name.
const nameSep = " - "

// Path returns root/"<repo> - <branch>.stash". Branch names containing
// slashes produce nested directories.
func Path(root, repo, branch string) string {
	return filepath.Join(root, repo+nameSep+branch+Ext)
}

// Meta describes a saved stash file.
type Meta struct {
	Repository string    `yaml:"repository" json:"repository"`
	Branch     string    `yaml:"branch"     json:"branch"`
	SavedAt    time.Time `yaml:"saved_at"   json:"saved_at"`
	Host       string    `yaml:"host"       json:"host,omitempty"`
	Size       int64     `yaml:"size"       json:"size"`
	Empty      bool      `yaml:"empty"      json:"empty"`
}

// MetaPath returns the sidecar location for a stash file.
func MetaPath(stashPath string) string {
	return stashPath + metaExt
}

// WriteMeta writes meta next to the stash file at stashPath.
func WriteMeta(stashPath string, meta Meta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding stash metadata: %w", err)
	}
	if err := os.WriteFile(MetaPath(stashPath), data, 0o644); err != nil {
		return fmt.Errorf("writing stash metadata: %w", err)
	}
	return nil
}

// ReadMeta reads the sidecar for stashPath. Returns (nil, nil) if there is
// none.
func ReadMeta(stashPath string) (*Meta, error) {
	data, err := os.ReadFile(MetaPath(stashPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading stash metadata: %w", err)
	}

	var meta Meta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing stash metadata %s: %w", MetaPath(stashPath), err)
	}
	return &meta, nil
}

// Info describes a stash file found under the root directory.
type Info struct {
	Path    string    `json:"path"`
	Repo    string    `json:"repo"`
	Branch  string    `json:"branch"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Meta    *Meta     `json:"meta,omitempty"`
	// MetaErr holds a sidecar parse failure; the stash file itself is fine.
	MetaErr string `json:"meta_error,omitempty"`
}

// Stat describes the stash file at path. Returns an error wrapping
// fs.ErrNotExist if there is no such file.
func Stat(path string) (*Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	info := &Info{Path: path, Size: fi.Size(), ModTime: fi.ModTime()}
	info.Meta, err = ReadMeta(path)
	if err != nil {
		info.MetaErr = err.Error()
	}
	return info, nil
}

// List returns every stash file under root, sorted by repository then
// branch. A missing root yields an empty list.
func List(root string) ([]Info, error) {
	var infos []Info
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), Ext) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		repo, branch, ok := ParseName(rel)
		if !ok {
			return nil
		}

		info, err := Stat(path)
		if err != nil {
			return err
		}
		info.Repo = repo
		info.Branch = branch
		infos = append(infos, *info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing stash files in %s: %w", root, err)
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Repo != infos[j].Repo {
			return infos[i].Repo < infos[j].Repo
		}
		return infos[i].Branch < infos[j].Branch
	})
	return infos, nil
}

// ParseName splits a root-relative stash path back into repository and
// branch. It is the inverse of Path for repository names without " - ".
func ParseName(rel string) (repo, branch string, ok bool) {
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, Ext) {
		return "", "", false
	}
	rel = strings.TrimSuffix(rel, Ext)

	repo, branch, ok = strings.Cut(rel, nameSep)
	if !ok || repo == "" || branch == "" || strings.Contains(repo, "/") {
		return "", "", false
	}
	return repo, branch, true
}
