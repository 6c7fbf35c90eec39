package configloader

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// ConfigPaths lists the config files that apply to a run. Empty fields
// mean no such file.
type ConfigPaths struct {
	// User is $XDG_CONFIG_HOME/mdlite/config.{yaml,yml}.
	User string

	// Project is the nearest project file above the working directory.
	Project string

	// Explicit is the file named by --config.
	Explicit string
}

// Project files in order of preference. JSON is a subset of YAML and is
// decoded by the same parser.
//
//nolint:gochecknoglobals // read-only
var (
	projectConfigFiles = []string{".mdlite.yml", ".mdlite.yaml", ".mdlite.json", "mdlite.yml", "mdlite.yaml"}
	userConfigFiles    = []string{"config.yaml", "config.yml"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths finds the user config file and the project config file
// that apply to workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{User: userConfigPath(), Project: project}, nil
}

// FindProjectConfig looks for a project config file in startDir and its
// parents. The search ends after a directory holding a VCS root marker,
// the home directory or the filesystem root has been checked. It returns
// "" when nothing is found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}

	for candidate := range searchDirs(dir) {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if path := firstFile(candidate, projectConfigFiles); path != "" {
			return path, nil
		}
	}
	return "", nil
}

// searchDirs yields dir and then its parents up to the first search
// boundary, inclusive.
func searchDirs(dir string) iter.Seq[string] {
	home, _ := os.UserHomeDir()

	return func(yield func(string) bool) {
		for {
			if !yield(dir) {
				return
			}
			if dir == home || hasVCSMarker(dir) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

func userConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return firstFile(filepath.Join(base, "mdlite"), userConfigFiles)
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func hasVCSMarker(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
