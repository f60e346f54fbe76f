package lower_test

import (
	"testing"

	"alox/internal/ast"
	"alox/internal/diag"
	"alox/internal/ir"
)

func TestBasicFunction(t *testing.T) {
	checkIR(t, program("basic_function",
		function("test", []ast.Param{param("a", typ("Int32"))}, "Int32", ret(ref("a"))),
	), `
; Module: test::basic_function
fun @test(%a: Int32) -> Int32:
  block#0:
    %0 : Int32 = param %a
    ret %0`[1:])
}

func TestFunctionCall(t *testing.T) {
	checkIR(t, program("function_call",
		function("test", []ast.Param{param("a", typ("Int32"))}, "Int32", ret(ref("a"))),
		function("bar", []ast.Param{param("a", typ("Int32"))}, "Int32", ret(call(ref("test"), ref("a")))),
	), `
; Module: test::function_call
fun @test(%a: Int32) -> Int32:
  block#0:
    %0 : Int32 = param %a
    ret %0
fun @bar(%a: Int32) -> Int32:
  block#0:
    %0 : Int32 -> Int32 = @test::function_call::test
    %1 : Int32 = param %a
    %2 : Int32 = %0(%1)
    ret %2`[1:])
}

func TestIfElse(t *testing.T) {
	l := checkIR(t, program("if_else_statement",
		function("test", []ast.Param{param("a", typ("Bool"))}, "Int32",
			ifStmt(&ast.If{
				Cond:    ref("a"),
				Body:    body(ret(intLit(1))),
				Else:    body(ret(intLit(0))),
				HasElse: true,
			}),
		),
	), `
; Module: test::if_else_statement
fun @test(%a: Bool) -> Int32:
  block#0:
    %0 : Bool = param %a
    branch %0 block#1 block#2
  block#1:
    %1 : ComptimeInt = 1
    ret %1
  block#2:
    %4 : ComptimeInt = 0
    ret %4`[1:])

	// The head is closed once the then arm is lowered, so the branch takes
	// the next id at that point.
	head := l.module.Declarations[0].Function.Blocks[0]
	if term, ok := head.Terminator(); !ok || term.ID != 3 {
		t.Fatalf("head terminator = %+v", term)
	}
}

func TestLiteralConditionJumps(t *testing.T) {
	checkIR(t, program("if_statement",
		function("test", []ast.Param{param("a", typ("Int32"))}, "Int32",
			ifStmt(&ast.If{Cond: boolLit(true), Body: body(ret(ref("a")))}),
			ret(intLit(1234)),
		),
	), `
; Module: test::if_statement
fun @test(%a: Int32) -> Int32:
  block#0:
    %0 : Bool = true
    jump block#1
  block#1:
    %1 : Int32 = param %a
    ret %1
  block#2:
    %4 : ComptimeInt = 1234
    ret %4`[1:])
}

func TestIfElseIfElse(t *testing.T) {
	checkIR(t, program("if_elif_else_statement",
		function("test", []ast.Param{param("a", typ("Bool"))}, "Int32",
			ifStmt(&ast.If{
				Cond: ref("a"),
				Body: body(ret(intLit(1))),
				ElseIf: &ast.If{
					Cond:    boolLit(false),
					Body:    body(ret(intLit(2))),
					Else:    body(ret(intLit(3))),
					HasElse: true,
				},
			}),
		),
	), `
; Module: test::if_elif_else_statement
fun @test(%a: Bool) -> Int32:
  block#0:
    %0 : Bool = param %a
    branch %0 block#1 block#2
  block#1:
    %1 : ComptimeInt = 1
    ret %1
  block#2:
    %4 : Bool = false
    jump block#4
  block#3:
    %5 : ComptimeInt = 2
    ret %5
  block#4:
    %8 : ComptimeInt = 3
    ret %8`[1:])
}

func TestFallthroughArmsJumpToMerge(t *testing.T) {
	checkIR(t, program("m",
		function("h", []ast.Param{param("a", typ("Bool"))}, "Int32",
			varStmt("x", intLit(0)),
			ifStmt(&ast.If{
				Cond:    ref("a"),
				Body:    body(assign("x", intLit(1))),
				Else:    body(assign("x", intLit(2))),
				HasElse: true,
			}),
			ret(ref("x")),
		),
	), `
; Module: test::m
fun @h(%a: Bool) -> Int32:
  block#0:
    %0 : ComptimeInt = 0
    %1 : Pointer[ComptimeInt] = alloca ComptimeInt
    store %0 in %1
    %3 : Bool = param %a
    branch %3 block#1 block#2
  block#1:
    %4 : ComptimeInt = 1
    store %4 in %1
    jump block#3
  block#2:
    %8 : ComptimeInt = 2
    store %8 in %1
    jump block#3
  block#3:
    %11 : ComptimeInt = load %1
    ret %11`[1:])
}

func TestVoidFunctionWithoutElse(t *testing.T) {
	checkIR(t, program("m",
		function("f", []ast.Param{param("a", typ("Bool"))}, "",
			ifStmt(&ast.If{Cond: ref("a"), Body: body(callStmt(call(ref("g"))))}),
		),
		function("g", nil, ""),
	), `
; Module: test::m
fun @f(%a: Bool) -> Void:
  block#0:
    %0 : Bool = param %a
    branch %0 block#1 block#2
  block#1:
    %1 : Void = @test::m::g
    %2 : Void = %1()
    jump block#2
  block#2:
    ret
fun @g() -> Void:
  block#0:
    ret`[1:])
}

func TestMissingReturnIsUnreachable(t *testing.T) {
	checkIR(t, program("m",
		function("k", []ast.Param{param("a", typ("Bool"))}, "Int32",
			ifStmt(&ast.If{Cond: ref("a"), Body: body(ret(intLit(1)))}),
		),
	), `
; Module: test::m
fun @k(%a: Bool) -> Int32:
  block#0:
    %0 : Bool = param %a
    branch %0 block#1 block#2
  block#1:
    %1 : ComptimeInt = 1
    ret %1
  block#2:
    unreachable "missing return"`[1:])
}

func TestStructAndActorMembers(t *testing.T) {
	checkIR(t, program("members",
		&ast.Node{Kind: ast.NodeStruct, Name: "X", Members: []*ast.Node{
			field("x", "Int32"),
			field("y", "Float32"),
			function("fooX", []ast.Param{param("a", typ("Int32"))}, "Int32", ret(ref("a"))),
			function("getX", nil, "Int32", ret(call(ref("fooX"), intLit(1)))),
		}},
		&ast.Node{Kind: ast.NodeActor, Name: "A", Members: []*ast.Node{
			field("b", "Bool"),
			behaviour("ping", []ast.Param{param("n", typ("Int32"))}),
		}},
	), `
; Module: test::members
struct X:
  let x: Int32
  let y: Float32
  fun @fooX(%a: Int32) -> Int32:
    block#0:
      %0 : Int32 = param %a
      ret %0
  fun @getX() -> Int32:
    block#0:
      %0 : Int32 -> Int32 = @test::members::X::fooX
      %1 : ComptimeInt = 1
      %2 : Int32 = %0(%1)
      ret %2
actor A:
  let b: Bool
  behaviour @ping(%n: Int32):
    block#0:
      ret`[1:])
}

func TestReferencesAndTypes(t *testing.T) {
	l := checkIR(t, program("refs",
		function("use", []ast.Param{
			param("p", typ("Point")),
			param("q", typ("Pointer", typ("Int32"))),
		}, "",
			callStmt(call(qref([]string{"other", "mod"}, "run"))),
			callStmt(call(ref("later"))),
		),
	), `
; Module: test::refs
fun @use(%p: test::refs::Point, %q: Pointer[Int32]) -> Void:
  block#0:
    %0 : other::mod::run = @other::mod::run*
    %1 : not a function = %0()
    %2 : test::refs::later = @test::refs::later*
    %3 : not a function = %2()
    ret`[1:])

	fn := l.module.Declarations[0].Function
	if got := fn.Params[1].Type.String(); got != "Pointer[Int32]" {
		t.Fatalf("generic constructor must stay unqualified, got %s", got)
	}
}

func TestScopesAndShadowing(t *testing.T) {
	checkIR(t, program("m",
		function("s", []ast.Param{param("x", typ("Bool"))}, "Bool",
			ifStmt(&ast.If{
				Cond: ref("x"),
				Body: body(varStmt("x", boolLit(false)), ret(ref("x"))),
			}),
			ret(ref("x")),
		),
	), `
; Module: test::m
fun @s(%x: Bool) -> Bool:
  block#0:
    %0 : Bool = param %x
    branch %0 block#1 block#2
  block#1:
    %1 : Bool = false
    %2 : Pointer[Bool] = alloca Bool
    store %1 in %2
    %4 : Bool = load %2
    ret %4
  block#2:
    %7 : Bool = param %x
    ret %7`[1:])
}

func TestAssignToParameterReports(t *testing.T) {
	l := lowerProgram(t, program("m",
		function("f", []ast.Param{param("a", typ("Int32"))}, "", assign("a", intLit(1))),
	))
	if !l.bag.HasErrors() {
		t.Fatalf("expected an error diagnostic")
	}
	if d := l.bag.Items()[0]; d.Code != diag.LowUnsupportedTarget {
		t.Fatalf("unexpected diagnostic %v", d.Code)
	}
}

func TestFieldStore(t *testing.T) {
	l := checkIR(t, program("fields",
		&ast.Node{Kind: ast.NodeStruct, Name: "S", Members: []*ast.Node{field("x", "Int32")}},
		function("setX", []ast.Param{param("s", typ("S"))}, "",
			assignTo(fieldOf(ref("s"), "x"), intLit(1)),
		),
	), `
; Module: test::fields
struct S:
  let x: Int32
fun @setX(%s: S) -> Void:
  block#0:
    %0 : ComptimeInt = 1
    %1 : S = param %s
    %2 : Int32 = %1.x
    store %0 in %2
    ret`[1:])
	if l.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", l.bag.Items())
	}
}

func TestUninitializedLocal(t *testing.T) {
	checkIR(t, program("locals",
		function("local", nil, "Int32",
			declare("n", typ("Int32")),
			assign("n", intLit(2)),
			ret(ref("n")),
		),
	), `
; Module: test::locals
fun @local() -> Int32:
  block#0:
    %0 : Pointer[Int32] = alloca Int32
    %1 : ComptimeInt = 2
    store %1 in %0
    %3 : Int32 = load %0
    ret %3`[1:])
}

func TestPointerExpressions(t *testing.T) {
	checkIR(t, program("ptrs",
		&ast.Node{Kind: ast.NodeStruct, Name: "S", Members: []*ast.Node{field("x", "Int32")}},
		function("ptrs", []ast.Param{param("a", typ("Int32"))}, "Int32",
			varStmt("s", newOf(typ("S"))),
			varStmt("p", addressOf(ref("a"))),
			assignTo(deref(ref("p")), intLit(5)),
			ret(deref(ref("p"))),
		),
	), `
; Module: test::ptrs
struct S:
  let x: Int32
fun @ptrs(%a: Int32) -> Int32:
  block#0:
    %0 : Pointer[S] = new S
    %1 : Pointer[Pointer[S]] = alloca Pointer[S]
    store %0 in %1
    %3 : Int32 = param %a
    %4 : Pointer[Int32] = &%3
    %5 : Pointer[Pointer[Int32]] = alloca Pointer[Int32]
    store %4 in %5
    %7 : ComptimeInt = 5
    %8 : Pointer[Int32] = load %5
    store %7 in %8
    %10 : Pointer[Int32] = load %5
    %11 : Int32 = *%10
    ret %11`[1:])
}

func TestAssignToCallReports(t *testing.T) {
	l := lowerProgram(t, program("m",
		function("f", nil, "", assignTo(call(ref("g")), intLit(1))),
	))
	items := l.bag.Items()
	if len(items) != 1 || items[0].Code != diag.LowUnsupportedTarget || items[0].Message != "cannot assign to a call expression" {
		t.Fatalf("unexpected diagnostics %+v", items)
	}
}

func TestSkippedNodes(t *testing.T) {
	l := lowerProgram(t, program("m",
		&ast.Node{Kind: ast.NodeVariable, Name: "global", Variable: &ast.Variable{Name: "global", Value: intLit(1)}},
		&ast.Node{Kind: ast.NodeTrait, Name: "Show", Members: []*ast.Node{function("show", nil, "")}},
	))
	if len(l.module.Declarations) != 1 {
		t.Fatalf("expected only the trait declaration, got %d", len(l.module.Declarations))
	}
	d := l.module.Declarations[0]
	if d.Kind != ir.DeclTrait || d.Name != "Show" || len(d.Members) != 0 {
		t.Fatalf("unexpected trait declaration %+v", d)
	}
	if l.bag.Len() != 0 {
		t.Fatalf("skipped nodes must not report diagnostics")
	}
}
