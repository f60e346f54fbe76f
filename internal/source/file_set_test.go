package source

import "testing"

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.alox", []byte("fun a() {\n  return 1\n}\n"))

	start, end, ok := fs.Resolve(Span{File: id, Start: 12, End: 18})
	if !ok {
		t.Fatalf("expected span to resolve")
	}
	if start != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("start = %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 9}) {
		t.Fatalf("end = %+v", end)
	}
	if got := fs.Get(id).Line(2); got != "  return 1" {
		t.Fatalf("line 2 = %q", got)
	}
	if got := fs.Get(id).Line(9); got != "" {
		t.Fatalf("line 9 = %q", got)
	}
}

func TestFileSetAddKeepsID(t *testing.T) {
	fs := NewFileSet()
	first := fs.AddVirtual("a/b/../c.alox", []byte("x"))
	second := fs.AddVirtual("a/c.alox", []byte("y\nz"))
	if first != second {
		t.Fatalf("expected same id for same normalized path, got %d and %d", first, second)
	}
	if id, ok := fs.Lookup("a/c.alox"); !ok || id != first {
		t.Fatalf("lookup = %d, %v", id, ok)
	}
	if fs.Get(99) != nil {
		t.Fatalf("expected nil for unknown id")
	}
	if _, _, ok := fs.Resolve(Span{File: 99}); ok {
		t.Fatalf("expected unknown file to fail resolution")
	}
}

func TestSpanOrdering(t *testing.T) {
	tests := []struct {
		a, b Span
		want int
	}{
		{Span{File: 0, Start: 9, End: 9}, Span{File: 1, Start: 0, End: 1}, -1},
		{Span{File: 1, Start: 4, End: 8}, Span{File: 1, Start: 2, End: 9}, 1},
		{Span{File: 1, Start: 4, End: 6}, Span{File: 1, Start: 4, End: 8}, -1},
		{Span{File: 2, Start: 4, End: 8}, Span{File: 2, Start: 4, End: 8}, 0},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	moved := Span{File: 3, Start: 1, End: 2}.InFile(7)
	if moved != (Span{File: 7, Start: 1, End: 2}) {
		t.Fatalf("InFile = %v", moved)
	}
}
