package pass

import (
	"context"
	"strconv"

	"alox/internal/diag"
	"alox/internal/ir"
	"alox/internal/trace"
)

// Env is what a pass may consult while it runs.
type Env struct {
	Resolver ir.Resolver
	Reporter diag.Reporter
}

// Pass is one traversal over a module. Passes may rewrite function bodies in
// place but never add or remove declarations.
type Pass interface {
	Name() string
	Run(ctx context.Context, m *ir.Module, env Env)
}

// Source is the set of modules a Manager works on.
type Source interface {
	ir.Resolver
	Modules() []*ir.Module
}

// Manager applies an ordered list of passes.
type Manager struct {
	passes []Pass
}

func NewManager(passes ...Pass) *Manager {
	return &Manager{passes: passes}
}

// Default runs the semantic checks only.
func Default() *Manager {
	return NewManager(SemanticAnalysis{})
}

// Optimize removes dead blocks before checking. With reachability set it also
// removes blocks that cannot be reached from the entry block.
func Optimize(reachability bool) *Manager {
	pm := NewManager(DeadBlockRemoval{})
	if reachability {
		pm.Add(UnreachableBlockRemoval{})
	}
	pm.Add(SemanticAnalysis{})
	pm.Add(ResolutionCheck{})
	return pm
}

func (pm *Manager) Add(p Pass) {
	pm.passes = append(pm.passes, p)
}

// Names lists the passes in application order.
func (pm *Manager) Names() []string {
	names := make([]string, len(pm.passes))
	for i, p := range pm.passes {
		names[i] = p.Name()
	}
	return names
}

// Apply runs every pass over every module of src. Each pass finishes on all
// modules before the next one starts.
func (pm *Manager) Apply(ctx context.Context, src Source, reporter diag.Reporter) {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	env := Env{Resolver: src, Reporter: reporter}
	modules := src.Modules()
	for _, p := range pm.passes {
		span, pctx := trace.StartSpan(ctx, trace.ScopePass, "pass:"+p.Name())
		for _, m := range modules {
			if m == nil {
				continue
			}
			ms, mctx := trace.StartSpan(pctx, trace.ScopeModule, m.FullPath().String())
			p.Run(mctx, m, env)
			ms.End("")
		}
		span.WithExtra("modules", strconv.Itoa(len(modules))).End("")
	}
}
