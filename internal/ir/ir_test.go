package ir

import (
	"errors"
	"strings"
	"testing"

	"alox/internal/types"
)

// testResolver resolves builtins by name and everything else from a map.
type testResolver map[string]*Declaration

func (r testResolver) Resolve(id DeclarationID) (*Declaration, bool) {
	if !id.IsQualified() && len(id.Args) == 0 {
		if p, ok := types.FromName(id.Name); ok {
			return &Declaration{Kind: DeclType, Name: id.Name, Type: types.NewPrimitive(p)}, true
		}
	}
	if !id.IsQualified() && id.Name == PointerName && len(id.Args) == 1 {
		return &Declaration{Kind: DeclType, Name: PointerName, TypeArgs: id.Args}, true
	}
	d, ok := r[id.Key()]
	return d, ok
}

func builtin(name string) DeclarationID { return NewID(nil, name) }

func TestDeclarationID(t *testing.T) {
	ptr := NewID(nil, "Pointer", builtin("Int32"))
	nested := NewID(Path{"a", "b"}, "Map", ptr, builtin("Bool"))
	if got := nested.String(); got != "a::b::Map[Pointer[Int32], Bool]" {
		t.Fatalf("String() = %q", got)
	}
	if !nested.Equal(NewID(Path{"a", "b"}, "Map", NewID(nil, "Pointer", builtin("Int32")), builtin("Bool"))) {
		t.Fatalf("expected structurally equal ids")
	}
	if nested.Equal(NewID(Path{"a", "b"}, "Map", ptr)) {
		t.Fatalf("ids with different arguments must differ")
	}
	if ptr.IsQualified() || !nested.IsQualified() {
		t.Fatalf("unexpected IsQualified results")
	}
	child := NewID(Path{"test", "m"}, "X").Child("field")
	if child.String() != "test::m::X::field" {
		t.Fatalf("Child() = %s", child)
	}

	path := Path{"test"}
	full := path.Append("m")
	full[0] = "changed"
	if path[0] != "test" {
		t.Fatalf("Append must not alias the receiver")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		kind  DeclKind
		query DeclKind
		want  bool
	}{
		{DeclStruct, DeclType, true},
		{DeclTrait, DeclType, true},
		{DeclFunction, DeclType, true},
		{DeclBehaviour, DeclType, true},
		{DeclActor, DeclType, true},
		{DeclVariable, DeclType, false},
		{DeclType, DeclType, true},
		{DeclStruct, DeclFunction, false},
		{DeclVariable, DeclVariable, true},
	}
	for _, tt := range tests {
		d := &Declaration{Kind: tt.kind}
		if got := d.IsKind(tt.query); got != tt.want {
			t.Errorf("%s.IsKind(%s) = %v, want %v", tt.kind, tt.query, got, tt.want)
		}
	}
}

func TestBlockTerminator(t *testing.T) {
	bb := Block{ID: 0}
	if bb.Terminated() {
		t.Fatalf("empty block must not be terminated")
	}
	bb.Instrs = append(bb.Instrs, Instr{ID: 0, Kind: InstrBool, Bool: BoolInstr{Value: true}})
	if _, ok := bb.Terminator(); ok {
		t.Fatalf("literal is not a terminator")
	}
	bb.Instrs = append(bb.Instrs, Instr{ID: 1, Kind: InstrJump, Jump: JumpInstr{Target: 1}})
	term, ok := bb.Terminator()
	if !ok || term.ID != 1 {
		t.Fatalf("Terminator() = %v, %v", term, ok)
	}
}

func sampleModule() (*Module, testResolver) {
	m := &Module{Path: Path{"test"}, Name: "m"}
	id := m.DeclID("id")
	r := testResolver{}
	idDecl := &Declaration{
		Kind: DeclFunction,
		Name: "id",
		Function: &Function{
			Params: []Param{{Name: "a", Type: builtin("Int32")}},
			Return: builtin("Int32"),
			Blocks: []Block{{ID: 0, Instrs: []Instr{
				{ID: 0, Kind: InstrParam, Param: ParamInstr{Name: "a"}},
				{ID: 1, Kind: InstrReturn, Return: ReturnInstr{HasValue: true, Value: 0}},
			}}},
		},
	}
	caller := &Declaration{
		Kind: DeclFunction,
		Name: "caller",
		Function: &Function{
			Params: []Param{{Name: "a", Type: builtin("Int32")}},
			Return: builtin("Int32"),
			Blocks: []Block{{ID: 0, Instrs: []Instr{
				{ID: 0, Kind: InstrDeclRef, DeclRef: DeclRefInstr{Decl: id}},
				{ID: 1, Kind: InstrParam, Param: ParamInstr{Name: "a"}},
				{ID: 2, Kind: InstrCall, Call: CallInstr{Callee: 0, Args: []InstrID{1}}},
				{ID: 3, Kind: InstrAlloca, Alloca: AllocaInstr{HasValue: true, Value: 2, Name: "x"}},
				{ID: 4, Kind: InstrStore, Store: StoreInstr{Ptr: 3, Value: 2}},
				{ID: 5, Kind: InstrLoad, Load: LoadInstr{Ptr: 3}},
				{ID: 6, Kind: InstrDeclRef, DeclRef: DeclRefInstr{Decl: m.DeclID("missing")}},
				{ID: 7, Kind: InstrCall, Call: CallInstr{Callee: 6}},
				{ID: 8, Kind: InstrReturn, Return: ReturnInstr{HasValue: true, Value: 5}},
			}}},
		},
	}
	m.Declarations = []*Declaration{idDecl, caller}
	r[id.Key()] = idDecl
	r[m.DeclID("caller").Key()] = caller
	return m, r
}

func TestFunctionTypeOf(t *testing.T) {
	m, r := sampleModule()
	fn := m.Declarations[1].Function
	want := map[InstrID]string{
		0: "Int32 -> Int32",
		1: "Int32",
		2: "Int32",
		3: "Pointer[Int32]",
		4: "Void",
		5: "Int32",
		6: "test::m::missing",
		7: types.UnresolvedNotFunction,
		8: "NoReturn",
	}
	for id, name := range want {
		ins, ok := fn.Instr(id)
		if !ok {
			t.Fatalf("instruction %%%d not found", id)
		}
		if got := fn.TypeOf(r, ins).Name(); got != name {
			t.Errorf("%%%d: type = %q, want %q", id, got, name)
		}
	}
}

func TestPointerTypeOf(t *testing.T) {
	r := testResolver{}
	fn := &Function{
		Params: []Param{{Name: "a", Type: builtin("Int64")}},
		Blocks: []Block{{ID: 0, Instrs: []Instr{
			{ID: 0, Kind: InstrAlloca, Alloca: AllocaInstr{Type: builtin("Float32"), Name: "f"}},
			{ID: 1, Kind: InstrParam, Param: ParamInstr{Name: "a"}},
			{ID: 2, Kind: InstrAddressOf, AddressOf: AddressOfInstr{Value: 1}},
			{ID: 3, Kind: InstrDeref, Deref: DerefInstr{Ptr: 2}},
			{ID: 4, Kind: InstrNew, New: NewInstr{Type: builtin("Bool")}},
			{ID: 5, Kind: InstrDeref, Deref: DerefInstr{Ptr: 1}},
			{ID: 6, Kind: InstrLoad, Load: LoadInstr{Ptr: 0}},
			{ID: 7, Kind: InstrReturn},
		}}},
	}
	want := []string{"Pointer[Float32]", "Int64", "Pointer[Int64]", "Int64", "Pointer[Bool]", "Int64", "Float32", "NoReturn"}
	for id, name := range want {
		ins, _ := fn.Instr(InstrID(id))
		got := fn.TypeOf(r, ins)
		if got.Name() != name {
			t.Errorf("%%%d: type = %q, want %q", id, got.Name(), name)
		}
	}
	// Dereferencing a non-pointer names the operand type.
	deref, _ := fn.Instr(5)
	if got := fn.TypeOf(r, deref); !got.IsUnresolved() {
		t.Fatalf("deref of Int64 = %v, want unresolved", got)
	}
	if ops := fn.Blocks[0].Instrs[0].Operands(); len(ops) != 0 {
		t.Fatalf("typed alloca reads %v", ops)
	}
	if err := ValidateFunction(fn); err != nil {
		t.Fatalf("ValidateFunction: %v", err)
	}
}

func TestBlockTypeOfWithoutContext(t *testing.T) {
	m, r := sampleModule()
	bb := &m.Declarations[1].Function.Blocks[0]
	param, _ := bb.Find(1)
	if got := bb.TypeOf(r, param); !got.IsUnresolved() || got.Ident != types.UnresolvedUnimplemented {
		t.Fatalf("param type without context = %v", got)
	}
	call, _ := bb.Find(2)
	if got := bb.TypeOf(r, call).Name(); got != "Int32" {
		t.Fatalf("call type = %q", got)
	}
}

func TestFunctionTypeOfInvalidOperandPanics(t *testing.T) {
	fn := &Function{Blocks: []Block{{ID: 0, Instrs: []Instr{
		{ID: 0, Kind: InstrLoad, Load: LoadInstr{Ptr: 42}},
	}}}}
	defer func() {
		rec := recover()
		err, ok := rec.(*InvalidInstrError)
		if !ok || err.ID != 42 {
			t.Fatalf("expected *InvalidInstrError for %%42, got %v", rec)
		}
	}()
	fn.TypeOf(testResolver{}, &fn.Blocks[0].Instrs[0])
}

func TestDeclarationTypeOf(t *testing.T) {
	m := &Module{Path: Path{"test"}, Name: "m"}
	node := &Declaration{Kind: DeclStruct, Name: "Node"}
	node.Members = []*Declaration{
		{Kind: DeclVariable, Name: "value", VarType: builtin("Int64")},
		{Kind: DeclVariable, Name: "next", VarType: NewID(nil, PointerName, m.DeclID("Node"))},
		{Kind: DeclBehaviour, Name: "ignored"},
	}
	r := testResolver{m.DeclID("Node").Key(): node}

	typ := node.TypeOf(r)
	if typ.Kind != types.KindStruct || len(typ.Fields) != 2 {
		t.Fatalf("struct type = %+v", typ)
	}
	if got := typ.Fields[1].Type.Name(); got != "Pointer[Node]" {
		t.Fatalf("self-referential field type = %q", got)
	}
	behaviour := &Declaration{Kind: DeclBehaviour, Name: "b", Function: &Function{
		Params: []Param{{Name: "x", Type: builtin("Bool")}},
	}}
	if got := behaviour.TypeOf(r).Name(); got != "Bool -> Void" {
		t.Fatalf("behaviour type = %q", got)
	}
}

func TestSprint(t *testing.T) {
	m, r := sampleModule()
	m.Declarations = append(m.Declarations, &Declaration{
		Kind: DeclStruct,
		Name: "X",
		Members: []*Declaration{
			{Kind: DeclVariable, Name: "x", VarType: builtin("Int32")},
			{Kind: DeclVariable, Name: "y", VarType: builtin("Float32")},
		},
	})
	expected := `; Module: test::m
fun @id(%a: Int32) -> Int32:
  block#0:
    %0 : Int32 = param %a
    ret %0
fun @caller(%a: Int32) -> Int32:
  block#0:
    %0 : Int32 -> Int32 = @test::m::id
    %1 : Int32 = param %a
    %2 : Int32 = %0(%1)
    %3 : Pointer[Int32] = alloca Int32
    store %2 in %3
    %5 : Int32 = load %3
    %6 : test::m::missing = @test::m::missing*
    %7 : not a function = %6()
    ret %5
struct X:
  let x: Int32
  let y: Float32
`
	if got := Sprint(r, m); got != expected {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", expected, got)
	}
}

func TestValidate(t *testing.T) {
	m, _ := sampleModule()
	if err := Validate(m); err != nil {
		t.Fatalf("valid module rejected: %v", err)
	}

	broken := &Function{Blocks: []Block{
		{ID: 0, Instrs: []Instr{
			{ID: 0, Kind: InstrBool},
			{ID: 1, Kind: InstrBranch, Branch: BranchInstr{Cond: 0, Then: 1, Else: 7}},
		}},
		{ID: 1, Instrs: []Instr{
			{ID: 2, Kind: InstrReturn, Return: ReturnInstr{HasValue: true, Value: 9}},
			{ID: 3, Kind: InstrUnreachable},
		}},
		{ID: 2},
	}}
	err := ValidateFunction(broken)
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	var blockErr *InvalidBlockError
	if !errors.As(err, &blockErr) || blockErr.ID != 7 {
		t.Fatalf("expected invalid block 7, got %v", err)
	}
	var instrErr *InvalidInstrError
	if !errors.As(err, &instrErr) || instrErr.ID != 9 {
		t.Fatalf("expected invalid instruction 9, got %v", err)
	}
	for _, want := range []string{"terminator %2 is not last", "block#2: unterminated block"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}
}
