package diag

import (
	"testing"

	"alox/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("test/sample.alox", []byte("a\nb\n"))

	diags := []Diagnostic{
		New(SevError, SemaBehaviourOutsideActor, source.Span{File: file, Start: 2, End: 3}, "behaviours are only\nallowed in actors").
			WithNote(source.Span{File: file, Start: 0, End: 1}, "declared here"),
		Unlocated(SevWarning, IOCacheError, "cache unavailable"),
	}

	expected := "warning IO4003 - cache unavailable\n" +
		"note SEM3002 test/sample.alox:1:1 declared here\n" +
		"error SEM3002 test/sample.alox:2:1 behaviours are only allowed in actors"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	r := NewLockedReporter(BagReporter{Bag: bag})
	ReportWarning(r, LowSkippedNode, source.Span{}, "first").Emit()
	if bag.HasErrors() {
		t.Fatal("warning must not count as error")
	}
	b := ReportError(r, SemaUnresolved, source.Span{}, "second")
	b.Emit()
	b.Emit()
	ReportError(r, SemaUnresolved, source.Span{}, "dropped").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected limit of 2 diagnostics, got %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatal("expected HasErrors after error report")
	}
}

func TestSeverityNames(t *testing.T) {
	tests := []struct {
		sev          Severity
		upper, lower string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(9), "UNKNOWN", "unknown"},
	}
	for _, tt := range tests {
		if tt.sev.String() != tt.upper || tt.sev.Label() != tt.lower {
			t.Errorf("severity %d = %s/%s", tt.sev, tt.sev.String(), tt.sev.Label())
		}
	}
}

func TestBagMergeAndDedup(t *testing.T) {
	span := source.Span{File: 1, Start: 4, End: 9}
	module := NewBag(0)
	module.Add(New(SevError, SemaUnresolved, span, "unresolved type m::Foo"))
	module.Add(New(SevError, SemaUnresolved, span, "unresolved type m::Foo"))
	module.Add(New(SevError, SemaUnresolved, span, "unresolved type m::Bar"))

	all := NewBag(2)
	if dropped := all.Merge(module); dropped != 1 || all.Len() != 2 {
		t.Fatalf("Merge dropped %d, kept %d", dropped, all.Len())
	}
	if all.Merge(nil) != 0 {
		t.Fatalf("merging nil dropped diagnostics")
	}
	all.Dedup()
	if all.Len() != 1 || all.Items()[0].Message != "unresolved type m::Foo" {
		t.Fatalf("after Dedup: %+v", all.Items())
	}
}
