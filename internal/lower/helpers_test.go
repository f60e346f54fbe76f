package lower_test

import (
	"context"
	"strings"
	"testing"

	"alox/internal/ast"
	"alox/internal/diag"
	"alox/internal/ir"
	"alox/internal/lower"
	"alox/internal/symbols"
	"alox/internal/testkit"
)

func ref(name string) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprRef, Ref: &ast.Reference{Name: name}}
}

func qref(path []string, name string) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprRef, Ref: &ast.Reference{Path: path, Name: name}}
}

func intLit(v int64) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprInt, Int: v}
}

func boolLit(v bool) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprBool, Bool: v}
}

func call(callee *ast.Expression, args ...*ast.Expression) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprCall, Call: &ast.Call{Callee: callee, Args: args}}
}

func ret(e *ast.Expression) *ast.Statement {
	return &ast.Statement{Kind: ast.StmtReturn, Return: &ast.Return{Value: e}}
}

func callStmt(e *ast.Expression) *ast.Statement {
	return &ast.Statement{Kind: ast.StmtCall, Call: e}
}

func varStmt(name string, value *ast.Expression) *ast.Statement {
	return &ast.Statement{Kind: ast.StmtVariable, Variable: &ast.Variable{Name: name, Mutable: true, Value: value}}
}

func assign(name string, value *ast.Expression) *ast.Statement {
	return &ast.Statement{Kind: ast.StmtAssign, Assign: &ast.Assignment{Target: ref(name), Value: value}}
}

func declare(name string, t ast.TypeName) *ast.Statement {
	return &ast.Statement{Kind: ast.StmtVariable, Variable: &ast.Variable{Name: name, Mutable: true, Type: &t}}
}

func assignTo(target, value *ast.Expression) *ast.Statement {
	return &ast.Statement{Kind: ast.StmtAssign, Assign: &ast.Assignment{Target: target, Value: value}}
}

func fieldOf(value *ast.Expression, name string) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprField, Field: &ast.FieldAccess{Value: value, Name: name}}
}

func newOf(t ast.TypeName) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprNew, New: &t}
}

func addressOf(e *ast.Expression) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprAddressOf, Operand: e}
}

func deref(e *ast.Expression) *ast.Expression {
	return &ast.Expression{Kind: ast.ExprDeref, Operand: e}
}

func ifStmt(i *ast.If) *ast.Statement {
	return &ast.Statement{Kind: ast.StmtIf, If: i}
}

func body(stmts ...*ast.Statement) []*ast.Statement { return stmts }

func typ(name string, args ...ast.TypeName) ast.TypeName {
	return ast.TypeName{Name: name, Args: args}
}

func param(name string, t ast.TypeName) ast.Param {
	return ast.Param{Name: name, Type: t}
}

func function(name string, params []ast.Param, result string, stmts ...*ast.Statement) *ast.Node {
	fn := &ast.Function{Kind: ast.FuncFunction, Params: params, Body: stmts}
	if result != "" {
		r := typ(result)
		fn.Return = &r
	}
	return &ast.Node{Kind: ast.NodeFunction, Name: name, Function: fn}
}

func behaviour(name string, params []ast.Param, stmts ...*ast.Statement) *ast.Node {
	return &ast.Node{Kind: ast.NodeFunction, Name: name, Function: &ast.Function{
		Kind: ast.FuncBehaviour, Params: params, Body: stmts,
	}}
}

func field(name, t string) *ast.Node {
	tn := typ(t)
	return &ast.Node{Kind: ast.NodeVariable, Name: name, Variable: &ast.Variable{Name: name, Type: &tn}}
}

func program(name string, nodes ...*ast.Node) *ast.Program {
	return &ast.Program{Path: []string{"test"}, Name: name, Nodes: nodes}
}

type lowered struct {
	module *ir.Module
	table  *symbols.Table
	bag    *diag.Bag
}

func lowerProgram(t *testing.T, prog *ast.Program) lowered {
	t.Helper()
	bag := diag.NewBag(0)
	table := symbols.NewTable()
	tr := lower.NewTranslator(table, diag.BagReporter{Bag: bag})
	m := tr.LowerProgram(context.Background(), prog)
	table.RegisterModule(m)
	if err := testkit.CheckModule(m); err != nil {
		t.Fatalf("lowered module is invalid: %v", err)
	}
	return lowered{module: m, table: table, bag: bag}
}

func checkIR(t *testing.T, prog *ast.Program, expected string) lowered {
	t.Helper()
	l := lowerProgram(t, prog)
	got := strings.TrimRight(ir.Sprint(l.table, l.module), "\n")
	expected = strings.TrimRight(expected, "\n")
	if got != expected {
		t.Fatalf("unexpected IR:\n=== want ===\n%s\n=== got ===\n%s", expected, got)
	}
	return l
}
