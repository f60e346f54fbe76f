package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifestFromSubdir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[package]
name = "demo"

[build]
modules = ["ast/*.json", "ast/*.msgpack", "ast/a.json"]
jobs = 4
reachability = true
`)
	writeFile(t, filepath.Join(root, "ast", "b.json"), "{}")
	writeFile(t, filepath.Join(root, "ast", "a.json"), "{}")
	writeFile(t, filepath.Join(root, "ast", "c.msgpack"), "")
	sub := filepath.Join(root, "ast")

	m, ok, err := LoadManifest(sub)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "demo" || m.Config.Build.Jobs != 4 {
		t.Fatalf("unexpected config %+v", m.Config)
	}
	if !m.Config.Build.Optimize || !m.Config.Build.Cache || !m.Config.Build.Reachability {
		t.Fatalf("defaults not applied: %+v", m.Config.Build)
	}
	if m.Config.Build.MaxDiagnostics != DefaultMaxDiagnostics {
		t.Fatalf("max diagnostics = %d", m.Config.Build.MaxDiagnostics)
	}

	files, err := m.ModuleFiles()
	if err != nil {
		t.Fatalf("ModuleFiles: %v", err)
	}
	want := []string{
		filepath.Join(sub, "a.json"),
		filepath.Join(sub, "b.json"),
		filepath.Join(sub, "c.msgpack"),
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	// t.TempDir lives under the system temp dir, which has no alox.toml.
	_, ok, err := LoadManifest(t.TempDir())
	if err != nil || ok {
		t.Fatalf("expected no manifest, got ok=%v err=%v", ok, err)
	}
}

func TestFindManifestSkipsDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[package]\nname = \"outer\"\n")
	inner := filepath.Join(root, "inner")
	if err := os.MkdirAll(filepath.Join(inner, ManifestName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path, ok, err := FindManifest(inner)
	if err != nil || !ok || path != filepath.Join(root, ManifestName) {
		t.Fatalf("FindManifest = %q, %v, %v", path, ok, err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no package", "[build]\nmodules = [\"x\"]\n", "missing [package]"},
		{"no name", "[package]\n[build]\nmodules = [\"x\"]\n", "missing [package].name"},
		{"no build", "[package]\nname = \"d\"\n", "missing [build]"},
		{"no modules", "[package]\nname = \"d\"\n[build]\njobs = 1\n", "missing [build].modules"},
		{"negative jobs", "[package]\nname = \"d\"\n[build]\nmodules = [\"x\"]\njobs = -1\n", "must not be negative"},
		{"unknown key", "[package]\nname = \"d\"\nversion = 1\n[build]\nmodules = [\"x\"]\n", "unknown key"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
			var me *ManifestError
			if !errors.As(err, &me) || me.Path != path {
				t.Fatalf("err = %#v, want a ManifestError for %s", err, path)
			}
		})
	}
}

func TestModuleFilesNoMatch(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Path: filepath.Join(root, ManifestName), Root: root,
		Config: Config{Build: BuildConfig{Modules: []string{"*.json"}}}}
	if _, err := m.ModuleFiles(); !errors.Is(err, ErrNoModules) {
		t.Fatalf("err = %v, want ErrNoModules", err)
	}
}

func TestCombine(t *testing.T) {
	a := Hash([]byte("module"))
	if Combine(a, []byte("v1")) == Combine(a, []byte("v2")) {
		t.Fatalf("different parts produced the same digest")
	}
	if Combine(a, []byte("v1")) != Combine(a, []byte("v1")) {
		t.Fatalf("combine is not deterministic")
	}
	if len(a.String()) != 64 {
		t.Fatalf("hex digest length = %d", len(a.String()))
	}
}
