package pass

import (
	"context"

	"alox/internal/diag"
	"alox/internal/ir"
	"alox/internal/source"
)

// ResolutionCheck re-resolves every name a module mentions and reports the
// ones that still do not resolve. Run it after all modules are registered.
type ResolutionCheck struct{}

func (ResolutionCheck) Name() string { return "resolution" }

func (ResolutionCheck) Run(_ context.Context, m *ir.Module, env Env) {
	Walk(m, &resolution{env: env})
}

type resolution struct {
	NopVisitor
	env Env
}

func (v *resolution) check(id ir.DeclarationID, span source.Span, what string) {
	if v.env.Resolver != nil {
		if _, ok := v.env.Resolver.Resolve(id); ok {
			return
		}
	}
	diag.ReportError(v.env.Reporter, diag.SemaUnresolved, span,
		"unresolved "+what+" "+id.String()).Emit()
}

func (v *resolution) Declaration(_, d *ir.Declaration) bool {
	if d.Kind == ir.DeclVariable {
		v.check(d.VarType, d.Span, "type")
	}
	return true
}

func (v *resolution) Function(d *ir.Declaration, fn *ir.Function) {
	for _, p := range fn.Params {
		v.check(p.Type, d.Span, "type")
	}
	if d.Kind == ir.DeclFunction {
		v.check(fn.Return, d.Span, "type")
	}
}

func (v *resolution) Block(_ *ir.Declaration, _ *ir.Function, bb *ir.Block) {
	for i := range bb.Instrs {
		ins := &bb.Instrs[i]
		switch {
		case ins.Kind == ir.InstrDeclRef:
			v.check(ins.DeclRef.Decl, ins.Span, "reference")
		case ins.Kind == ir.InstrNew:
			v.check(ins.New.Type, ins.Span, "type")
		case ins.Kind == ir.InstrAlloca && !ins.Alloca.Type.IsZero():
			v.check(ins.Alloca.Type, ins.Span, "type")
		}
	}
}
