package project

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrNoModules is returned when the build globs match no files.
var ErrNoModules = errors.New("no module files matched")

// Defaults applied to keys missing from [build].
const (
	DefaultMaxDiagnostics = 100
)

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	// Modules are globs, relative to the manifest, of parser output files.
	Modules        []string `toml:"modules"`
	Jobs           int      `toml:"jobs"`
	Optimize       bool     `toml:"optimize"`
	Reachability   bool     `toml:"reachability"`
	Cache          bool     `toml:"cache"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

// LoadManifest finds alox.toml at or above startDir and loads it. ok is false
// when there is no manifest.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, manifestErrorf(path, "failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, manifestErrorf(path, "unknown key %s", undecoded[0])
	}
	if !meta.IsDefined("package") {
		return Config{}, manifestErrorf(path, "missing [package]")
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, manifestErrorf(path, "missing [package].name")
	}
	if !meta.IsDefined("build") {
		return Config{}, manifestErrorf(path, "missing [build]")
	}
	if !meta.IsDefined("build", "modules") || len(cfg.Build.Modules) == 0 {
		return Config{}, manifestErrorf(path, "missing [build].modules")
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, manifestErrorf(path, "[build].jobs must not be negative")
	}

	if !meta.IsDefined("build", "optimize") {
		cfg.Build.Optimize = true
	}
	if !meta.IsDefined("build", "cache") {
		cfg.Build.Cache = true
	}
	if !meta.IsDefined("build", "max_diagnostics") {
		cfg.Build.MaxDiagnostics = DefaultMaxDiagnostics
	}
	return cfg, nil
}

// ModuleFiles expands the [build].modules globs. The result is sorted and
// free of duplicates.
func (m *Manifest) ModuleFiles() ([]string, error) {
	var files []string
	for _, pattern := range m.Config.Build.Modules {
		matches, err := filepath.Glob(filepath.Join(m.Root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, manifestErrorf(m.Path, "bad module pattern %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	slices.Sort(files)
	files = slices.Compact(files)
	if len(files) == 0 {
		return nil, &ManifestError{Path: m.Path, Err: ErrNoModules}
	}
	return files, nil
}
