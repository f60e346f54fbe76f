package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"alox/internal/diag"
	"alox/internal/source"
)

type palette struct {
	severity map[diag.Severity]*color.Color
	code     *color.Color
	gutter   *color.Color
	caret    *color.Color
	note     *color.Color
	enabled  bool
}

func newPalette(enabled bool) *palette {
	p := &palette{
		severity: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		code:    color.New(color.Faint),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		note:    color.New(color.FgBlue, color.Bold),
		enabled: enabled,
	}
	// Colors follow opts.Color regardless of color.NoColor.
	for _, c := range []*color.Color{p.code, p.gutter, p.caret, p.note} {
		p.toggle(c)
	}
	for _, c := range p.severity {
		p.toggle(c)
	}
	return p
}

func (p *palette) toggle(c *color.Color) {
	if p.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Pretty writes human-readable diagnostics:
//
//	path:line:col: ERROR SEM3004: message
//	  3 | source line
//	    |     ^~~~
//	  note: path:line:col: message
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, d, fs, opts, p)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p *palette) {
	sev := p.severity[d.Severity]
	if sev == nil {
		sev = p.severity[diag.SevInfo]
	}
	header := sev.Sprint(d.Severity.String()) + " " + p.code.Sprint(d.Code.ID()) + ": " + d.Message
	if loc := prettyLocation(fs, d.Primary, d.HasSpan, opts); loc != "" {
		header = loc + ": " + header
	}
	fmt.Fprintln(w, header)

	if d.HasSpan && opts.Context >= 0 {
		writeExcerpt(w, fs, d.Primary, int(opts.Context), p)
	}

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		line := "  " + p.note.Sprint("note") + ": "
		if loc := prettyLocation(fs, n.Span, true, opts); loc != "" {
			line += loc + ": "
		}
		fmt.Fprintln(w, line+n.Msg)
	}
}

func prettyLocation(fs *source.FileSet, span source.Span, hasSpan bool, opts PrettyOpts) string {
	if !hasSpan || fs == nil {
		return ""
	}
	f := fs.Get(span.File)
	if f == nil {
		return ""
	}
	start, _, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", displayPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// writeExcerpt prints the primary line, up to context lines above it, and a
// caret line under the span. Files registered without content print nothing.
func writeExcerpt(w io.Writer, fs *source.FileSet, span source.Span, context int, p *palette) {
	if fs == nil {
		return
	}
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end, ok := fs.Resolve(span)
	if !ok || start.Line == 0 {
		return
	}

	width := len(strconv.FormatUint(uint64(start.Line), 10))
	first := uint32(1)
	if start.Line > uint32(context) {
		first = start.Line - uint32(context)
	}
	for n := first; n <= start.Line; n++ {
		gutter := p.gutter.Sprintf("%*d |", width, n)
		fmt.Fprintf(w, "%s %s\n", gutter, f.Line(n))
	}

	text := f.Line(start.Line)
	from := clamp(int(start.Col)-1, len(text))
	to := len(text)
	if end.Line == start.Line {
		to = clamp(int(end.Col)-1, len(text))
	}
	if to < from {
		to = from
	}
	marks := max(1, runewidth.StringWidth(text[from:to]))
	underline := "^" + strings.Repeat("~", marks-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), indent(text[:from]), p.caret.Sprint(underline))
}

// indent returns whitespace occupying the same columns as prefix, keeping
// tabs so the caret lines up with the quoted line.
func indent(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
