package diag

import (
	"alox/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding. Primary is optional: a zero span with HasSpan
// false means the problem has no source location (e.g. cache or config).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	HasSpan  bool
	Notes    []Note
}
