package lower

import (
	"alox/internal/ast"
	"alox/internal/diag"
	"alox/internal/ir"
)

// funcLowering carries the state of one function body.
type funcLowering struct {
	ml     *moduleLowering
	owner  *ast.Node // enclosing struct or actor, nil at top level
	b      *BlockBuilder
	locals *LocalVariableTable
}

func (fl *funcLowering) lowerStatements(stmts []*ast.Statement) {
	for _, s := range stmts {
		fl.lowerStatement(s)
	}
}

func (fl *funcLowering) lowerStatement(s *ast.Statement) {
	switch s.Kind {
	case ast.StmtVariable:
		fl.lowerVariable(s)
	case ast.StmtAssign:
		fl.lowerAssign(s)
	case ast.StmtReturn:
		ret := ir.Instr{Kind: ir.InstrReturn, Span: fl.ml.span(s.Span)}
		if s.Return != nil && s.Return.Value != nil {
			ret.Return = ir.ReturnInstr{HasValue: true, Value: fl.lowerExpr(s.Return.Value)}
		}
		fl.b.AddInstruction(ret)
		fl.b.CreateBlock()
	case ast.StmtCall:
		fl.lowerExpr(s.Call)
	case ast.StmtIf:
		fl.lowerIf(s.If)
	}
}

// lowerVariable allocates a slot for a local and binds the name to it. A
// local with an initializer is typed by it and stored to; one without is
// typed by its declaration and left uninitialised.
func (fl *funcLowering) lowerVariable(s *ast.Statement) {
	v := s.Variable
	span := fl.ml.span(s.Span)
	if v.Value == nil {
		slot := fl.b.AddInstruction(ir.Instr{
			Kind:   ir.InstrAlloca,
			Span:   span,
			Alloca: ir.AllocaInstr{Type: fl.ml.typeID(*v.Type), Name: v.Name},
		})
		fl.locals.Set(v.Name, slot)
		return
	}
	value := fl.lowerExpr(v.Value)
	slot := fl.b.AddInstruction(ir.Instr{
		Kind:   ir.InstrAlloca,
		Span:   span,
		Alloca: ir.AllocaInstr{HasValue: true, Value: value, Name: v.Name},
	})
	fl.b.AddInstruction(ir.Instr{
		Kind:  ir.InstrStore,
		Span:  span,
		Store: ir.StoreInstr{Ptr: slot, Value: value},
	})
	fl.locals.Set(v.Name, slot)
}

// lowerAssign stores into a local, a declaration, a struct field or the
// target of a pointer. The value is lowered before the target.
func (fl *funcLowering) lowerAssign(s *ast.Statement) {
	target := s.Assign.Target
	var ptr ir.InstrID
	var value ir.InstrID
	switch target.Kind {
	case ast.ExprRef:
		value = fl.lowerExpr(s.Assign.Value)
		ref := target.Ref
		if slot, ok := fl.locals.Get(ref.Name); ok && len(ref.Path) == 0 {
			ptr = slot
		} else if len(ref.Path) == 0 && fl.locals.IsParameter(ref.Name) {
			diag.ReportError(fl.ml.t.reporter, diag.LowUnsupportedTarget, fl.ml.span(target.Span),
				"cannot assign to parameter "+ref.Name).Emit()
			return
		} else {
			ptr = fl.b.AddInstruction(ir.Instr{
				Kind:    ir.InstrDeclRef,
				Span:    fl.ml.span(target.Span),
				DeclRef: ir.DeclRefInstr{Decl: fl.declRef(ref)},
			})
		}
	case ast.ExprField:
		value = fl.lowerExpr(s.Assign.Value)
		ptr = fl.lowerExpr(target)
	case ast.ExprDeref:
		value = fl.lowerExpr(s.Assign.Value)
		ptr = fl.lowerExpr(target.Operand)
	default:
		diag.ReportError(fl.ml.t.reporter, diag.LowUnsupportedTarget, fl.ml.span(target.Span),
			"cannot assign to a "+target.Kind.String()+" expression").Emit()
		return
	}
	fl.b.AddInstruction(ir.Instr{
		Kind:  ir.InstrStore,
		Span:  fl.ml.span(s.Span),
		Store: ir.StoreInstr{Ptr: ptr, Value: value},
	})
}

// lowerIf lowers an if / else if / else chain. The condition is evaluated in
// the current block (head); the head is closed last, once both arm entries
// are known. Arms that fall through jump to the block that is current after
// the whole chain.
func (fl *funcLowering) lowerIf(s *ast.If) {
	cond := fl.lowerExpr(s.Cond)
	head := fl.b.CurrentIndex()
	var fallthroughs []int

	thenID := fl.b.CreateBlock()
	fl.locals.Push()
	fl.lowerStatements(s.Body)
	fl.locals.Pop()
	fallthroughs = fl.leaveArm(thenID, fallthroughs)

	elseID := fl.b.CreateBlock()
	fl.closeHead(head, s.Cond, cond, thenID, elseID)

	switch {
	case s.ElseIf != nil:
		fl.lowerIf(s.ElseIf)
		fallthroughs = fl.leaveArm(elseID, fallthroughs)
	case s.HasElse:
		fl.locals.Push()
		fl.lowerStatements(s.Else)
		fl.locals.Pop()
		fallthroughs = fl.leaveArm(elseID, fallthroughs)
	}

	merge := fl.b.CreateBlock()
	for _, idx := range fallthroughs {
		fl.b.retarget(idx, merge)
	}
}

// closeHead terminates the head block: a branch on cond, or a plain jump when
// the condition is a boolean literal.
func (fl *funcLowering) closeHead(head int, expr *ast.Expression, cond ir.InstrID, thenID, elseID ir.BlockID) {
	span := fl.ml.span(expr.Span)
	if expr.Kind == ast.ExprBool {
		target := elseID
		if expr.Bool {
			target = thenID
		}
		fl.b.AddTo(head, ir.Instr{Kind: ir.InstrJump, Span: span, Jump: ir.JumpInstr{Target: target}})
		return
	}
	fl.b.AddTo(head, ir.Instr{
		Kind:   ir.InstrBranch,
		Span:   span,
		Branch: ir.BranchInstr{Cond: cond, Then: thenID, Else: elseID},
	})
}

// leaveArm closes the arm that started at entry if control can fall off its
// end, with a jump whose target is patched once the merge block exists. An
// empty block nothing jumps to is the dead tail after a return and is left
// open for reuse.
func (fl *funcLowering) leaveArm(entry ir.BlockID, fallthroughs []int) []int {
	bb := fl.b.CurrentBlock()
	if bb.Terminated() {
		return fallthroughs
	}
	if len(bb.Instrs) == 0 && bb.ID != entry && !fl.b.Referenced(bb.ID) {
		return fallthroughs
	}
	fl.b.AddInstruction(ir.Instr{Kind: ir.InstrJump, Jump: ir.JumpInstr{Target: bb.ID}})
	return append(fallthroughs, fl.b.CurrentIndex())
}
