// Package trace records what the compiler is doing while it runs.
//
// Events are spans (begin/end pairs) and points, each tagged with a Scope:
//
//   - ScopeDriver: a whole compile run
//   - ScopePass: one pass or phase over all modules
//   - ScopeModule: lowering or checking one module
//   - ScopeFunction: one function body
//
// A Level filters scopes: phase shows driver and pass events, detail adds
// modules, debug shows everything.
//
// Tracers travel in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "dead-blocks", 0)
//	defer span.End("")
//
// StreamTracer writes text or NDJSON lines as events arrive, RingTracer keeps
// the most recent events in memory for dumping after a crash, and MultiTracer
// fans out to both.
package trace
