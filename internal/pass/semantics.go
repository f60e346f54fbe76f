package pass

import (
	"context"

	"alox/internal/diag"
	"alox/internal/ir"
)

// SemanticAnalysis reports structural problems: behaviours declared outside
// an actor, and non-void functions whose end is reachable without a return.
type SemanticAnalysis struct{}

func (SemanticAnalysis) Name() string { return "semantics" }

func (SemanticAnalysis) Run(_ context.Context, m *ir.Module, env Env) {
	Walk(m, &semantics{r: env.Reporter})
}

type semantics struct {
	NopVisitor
	r diag.Reporter
}

func (s *semantics) Declaration(owner, d *ir.Declaration) bool {
	if d.Kind == ir.DeclBehaviour && (owner == nil || owner.Kind != ir.DeclActor) {
		diag.ReportError(s.r, diag.SemaBehaviourOutsideActor, d.Span,
			"behaviours are only allowed in actors").
			WithNote(d.Span, "behaviour "+d.Name+" is declared here").
			Emit()
	}
	return true
}

func (s *semantics) Block(d *ir.Declaration, _ *ir.Function, bb *ir.Block) {
	term, ok := bb.Terminator()
	if !ok || term.Kind != ir.InstrUnreachable || term.Unreachable.Reason != ir.MissingReturn {
		return
	}
	diag.ReportError(s.r, diag.SemaMissingReturn, d.Span,
		"function "+d.Name+" can reach its end without returning a value").Emit()
}
