package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"alox/internal/diag"
	"alox/internal/source"
)

const mainSrc = "fn main() {\n    ret x\n}\n"

func unresolvedBag(t *testing.T, fs *source.FileSet, path string) *diag.Bag {
	t.Helper()
	id := fs.AddVirtual(path, []byte(mainSrc))
	bag := diag.NewBag(0)
	d := diag.New(diag.SevError, diag.SemaUnresolved, source.Span{File: id, Start: 20, End: 21}, "unresolved reference x").
		WithNote(source.Span{File: id, Start: 3, End: 7}, "referenced from main")
	bag.Add(d)
	return bag
}

func TestPrettyExcerpt(t *testing.T) {
	fs := source.NewFileSet()
	bag := unresolvedBag(t, fs, "/work/app/main.src")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowNotes: true})

	want := "main.src:2:9: ERROR SEM3003: unresolved reference x\n" +
		"1 | fn main() {\n" +
		"2 |     ret x\n" +
		"  |         ^\n" +
		"  note: main.src:1:4: referenced from main\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyHidesNotesAndExcerpt(t *testing.T) {
	fs := source.NewFileSet()
	bag := unresolvedBag(t, fs, "main.src")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: -1, PathMode: PathModeBasename})
	if got, want := buf.String(), "main.src:2:9: ERROR SEM3003: unresolved reference x\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyUnlocatedAndVirtual(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("gen.json", nil)
	bag := diag.NewBag(0)
	bag.Add(diag.Unlocated(diag.SevWarning, diag.IOCacheError, "cache broken"))
	bag.Add(diag.New(diag.SevInfo, diag.LowSkippedNode, source.Span{File: id}, "skipped"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	want := "WARNING IO4003: cache broken\n\ngen.json:1:1: INFO LOW2001: skipped\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	bag := unresolvedBag(t, fs, "main.src")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}

func TestPathModes(t *testing.T) {
	tests := []struct {
		name string
		mode PathMode
		path string
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.src", "/home/user/project/src/test.src"},
		{"relative", PathModeRelative, "/home/user/project/src/test.src", "src/test.src"},
		{"relative outside base", PathModeRelative, "/tmp/x.src", "../../../tmp/x.src"},
		{"basename", PathModeBasename, "/home/user/project/src/test.src", "test.src"},
		{"auto below base", PathModeAuto, "/home/user/project/src/test.src", "src/test.src"},
		{"auto outside base", PathModeAuto, "/tmp/x.src", "/tmp/x.src"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayPath(tt.path, tt.mode, "/home/user/project"); got != tt.want {
				t.Fatalf("displayPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{"": PathModeAuto, "abs": PathModeAbsolute, "relative": PathModeRelative, "base": PathModeBasename} {
		got, ok := ParsePathMode(in)
		if !ok || got != want {
			t.Fatalf("ParsePathMode(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParsePathMode("short"); ok {
		t.Fatalf("unknown mode accepted")
	}
}

func TestIndentWideRunes(t *testing.T) {
	if got := indent("\tlet 名前 = "); got != "\t"+strings.Repeat(" ", 11) {
		t.Fatalf("indent = %q", got)
	}
}
