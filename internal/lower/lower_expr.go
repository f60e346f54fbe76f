package lower

import (
	"alox/internal/ast"
	"alox/internal/ir"
	"alox/internal/trace"
)

func (fl *funcLowering) lowerExpr(e *ast.Expression) ir.InstrID {
	span := fl.ml.span(e.Span)
	switch e.Kind {
	case ast.ExprBool:
		return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrBool, Span: span, Bool: ir.BoolInstr{Value: e.Bool}})
	case ast.ExprInt:
		return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrInt, Span: span, Int: ir.IntInstr{Value: e.Int}})
	case ast.ExprFloat:
		return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrFloat, Span: span, Float: ir.FloatInstr{Value: e.Float}})
	case ast.ExprRef:
		return fl.lowerRef(e)
	case ast.ExprCall:
		callee := fl.lowerExpr(e.Call.Callee)
		args := make([]ir.InstrID, len(e.Call.Args))
		for i, a := range e.Call.Args {
			args[i] = fl.lowerExpr(a)
		}
		return fl.b.AddInstruction(ir.Instr{
			Kind: ir.InstrCall,
			Span: span,
			Call: ir.CallInstr{Callee: callee, Args: args},
		})
	case ast.ExprField:
		value := fl.lowerExpr(e.Field.Value)
		return fl.b.AddInstruction(ir.Instr{
			Kind:     ir.InstrGetField,
			Span:     span,
			GetField: ir.GetFieldInstr{Value: value, Field: e.Field.Name},
		})
	case ast.ExprBinary:
		left := fl.lowerExpr(e.Binary.Left)
		right := fl.lowerExpr(e.Binary.Right)
		return fl.b.AddInstruction(ir.Instr{
			Kind:   ir.InstrBinary,
			Span:   span,
			Binary: ir.BinaryInstr{Op: binaryOps[e.Binary.Op], Left: left, Right: right},
		})
	case ast.ExprNew:
		return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrNew, Span: span, New: ir.NewInstr{Type: fl.ml.typeID(*e.New)}})
	case ast.ExprAddressOf:
		value := fl.lowerExpr(e.Operand)
		return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrAddressOf, Span: span, AddressOf: ir.AddressOfInstr{Value: value}})
	case ast.ExprDeref:
		ptr := fl.lowerExpr(e.Operand)
		return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrDeref, Span: span, Deref: ir.DerefInstr{Ptr: ptr}})
	}
	panic("lower: unknown expression kind " + e.Kind.String())
}

var binaryOps = map[ast.BinaryOp]ir.BinaryOp{
	ast.OpAdd: ir.OpAdd,
	ast.OpSub: ir.OpSub,
	ast.OpMul: ir.OpMul,
	ast.OpDiv: ir.OpDiv,
}

// lowerRef reads a name. Locals load from their slot and parameters read the
// parameter; everything else becomes a declaration reference that may only
// resolve once other modules are registered.
func (fl *funcLowering) lowerRef(e *ast.Expression) ir.InstrID {
	span := fl.ml.span(e.Span)
	ref := e.Ref
	if len(ref.Path) == 0 {
		if slot, ok := fl.locals.Get(ref.Name); ok {
			return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrLoad, Span: span, Load: ir.LoadInstr{Ptr: slot}})
		}
		if fl.locals.IsParameter(ref.Name) {
			return fl.b.AddInstruction(ir.Instr{Kind: ir.InstrParam, Span: span, Param: ir.ParamInstr{Name: ref.Name}})
		}
	}
	return fl.b.AddInstruction(ir.Instr{
		Kind:    ir.InstrDeclRef,
		Span:    span,
		DeclRef: ir.DeclRefInstr{Decl: fl.declRef(ref)},
	})
}

// declRef qualifies a reference that is not a local. Qualified names are
// kept as written. Unqualified names prefer a member of the enclosing struct
// or actor, then a declaration completed earlier in this module, and
// otherwise are assumed to live in this module.
func (fl *funcLowering) declRef(ref *ast.Reference) ir.DeclarationID {
	if len(ref.Path) > 0 {
		return ir.NewID(ref.Path, ref.Name)
	}
	ml := fl.ml
	if fl.owner != nil {
		for _, m := range fl.owner.Members {
			if m.Name == ref.Name {
				return ir.NewID(ml.full.Append(fl.owner.Name), ref.Name)
			}
		}
	}
	id := ir.NewID(ml.full, ref.Name)
	if _, ok := ml.completed[ref.Name]; ok {
		return id
	}
	if ml.t.resolver != nil {
		if _, ok := ml.t.resolver.Resolve(id); ok {
			return id
		}
	}
	trace.Point(ml.ctx, trace.ScopeFunction, "forward-ref", id.String())
	return id
}
