// Package diag defines the diagnostic model shared by lowering, the pass
// manager and the driver.
//
// Diagnostic is the central record: severity, a numeric Code with a stable
// string form (LOW/SEM/IO prefixes), a short message, an optional primary
// source.Span and optional notes.
//
// Producers emit through a Reporter so they stay decoupled from storage.
// BagReporter appends to a Bag; LockedReporter serializes reports coming from
// modules lowered on different goroutines. The Bag is append-only from the
// producers' point of view and is queried with HasErrors before backends run.
//
// Rendering lives in internal/diagfmt; FormatShort here is the stable
// one-line-per-entry form used by tests.
package diag
