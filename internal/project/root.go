package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ManifestName is the project file FindManifest looks for.
const ManifestName = "alox.toml"

// ManifestError is a problem with one manifest file. Path is the manifest, or
// the directory being searched when no manifest was reached yet.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

func manifestErrorf(path, format string, args ...any) error {
	return &ManifestError{Path: path, Err: fmt.Errorf(format, args...)}
}

// FindManifest looks for alox.toml in startDir and then in each parent. A
// directory that happens to be called alox.toml is skipped.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, manifestErrorf(startDir, "cannot resolve directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, &ManifestError{Path: candidate, Err: err}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
