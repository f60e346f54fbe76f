package pass

import "alox/internal/ir"

// Visitor receives the parts of a module in declaration order. Owner is the
// struct or actor a declaration is nested in, nil at module level.
type Visitor interface {
	Declaration(owner, d *ir.Declaration) bool
	Function(d *ir.Declaration, fn *ir.Function)
	Block(d *ir.Declaration, fn *ir.Function, bb *ir.Block)
}

// NopVisitor visits everything and does nothing. Embed it to implement only
// the callbacks a pass needs.
type NopVisitor struct{}

func (NopVisitor) Declaration(owner, d *ir.Declaration) bool              { return true }
func (NopVisitor) Function(d *ir.Declaration, fn *ir.Function)            {}
func (NopVisitor) Block(d *ir.Declaration, fn *ir.Function, bb *ir.Block) {}

// Walk visits every declaration of m, recursing into struct and actor
// members. Returning false from Declaration skips that declaration's body
// and members.
func Walk(m *ir.Module, v Visitor) {
	if m == nil {
		return
	}
	for _, d := range m.Declarations {
		walkDecl(nil, d, v)
	}
}

func walkDecl(owner, d *ir.Declaration, v Visitor) {
	if d == nil || !v.Declaration(owner, d) {
		return
	}
	switch d.Kind {
	case ir.DeclFunction, ir.DeclBehaviour:
		fn := d.Function
		if fn == nil {
			return
		}
		v.Function(d, fn)
		for i := range fn.Blocks {
			v.Block(d, fn, &fn.Blocks[i])
		}
	case ir.DeclStruct, ir.DeclActor:
		for _, m := range d.Members {
			walkDecl(d, m, v)
		}
	}
}
