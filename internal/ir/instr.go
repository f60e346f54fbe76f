package ir

import "alox/internal/source"

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	// InstrBool is a boolean literal.
	InstrBool InstrKind = iota
	// InstrInt is a compile-time integer literal.
	InstrInt
	// InstrFloat is a compile-time float literal.
	InstrFloat
	// InstrDeclRef refers to a declaration by id.
	InstrDeclRef
	// InstrParam reads a parameter of the enclosing function.
	InstrParam
	// InstrCall calls the function produced by another instruction.
	InstrCall
	// InstrAlloca reserves a stack slot of a declared type or of the type of
	// its initial value.
	InstrAlloca
	// InstrStore writes a value through a pointer.
	InstrStore
	// InstrLoad reads a value through a pointer.
	InstrLoad
	// InstrGetField reads a struct field.
	InstrGetField
	// InstrBinary is an arithmetic operation.
	InstrBinary
	// InstrNew allocates a struct and yields a pointer to it.
	InstrNew
	// InstrAddressOf takes the address of a value.
	InstrAddressOf
	// InstrDeref reads the value a pointer points at.
	InstrDeref

	// InstrReturn and the kinds below terminate a block.
	InstrReturn
	InstrJump
	InstrBranch
	InstrUnreachable
)

func (k InstrKind) String() string {
	switch k {
	case InstrBool:
		return "bool"
	case InstrInt:
		return "int"
	case InstrFloat:
		return "float"
	case InstrDeclRef:
		return "declref"
	case InstrParam:
		return "param"
	case InstrCall:
		return "call"
	case InstrAlloca:
		return "alloca"
	case InstrStore:
		return "store"
	case InstrLoad:
		return "load"
	case InstrGetField:
		return "getfield"
	case InstrBinary:
		return "binary"
	case InstrNew:
		return "new"
	case InstrAddressOf:
		return "addressof"
	case InstrDeref:
		return "deref"
	case InstrReturn:
		return "ret"
	case InstrJump:
		return "jump"
	case InstrBranch:
		return "branch"
	case InstrUnreachable:
		return "unreachable"
	}
	return "unknown"
}

// IsTerminator reports whether the kind ends control flow out of a block.
func (k InstrKind) IsTerminator() bool {
	return k >= InstrReturn
}

// Instr is a tagged instruction. Only the payload matching Kind is meaningful.
type Instr struct {
	ID   InstrID
	Kind InstrKind
	Span source.Span

	Bool        BoolInstr
	Int         IntInstr
	Float       FloatInstr
	DeclRef     DeclRefInstr
	Param       ParamInstr
	Call        CallInstr
	Alloca      AllocaInstr
	Store       StoreInstr
	Load        LoadInstr
	GetField    GetFieldInstr
	Binary      BinaryInstr
	New         NewInstr
	AddressOf   AddressOfInstr
	Deref       DerefInstr
	Return      ReturnInstr
	Jump        JumpInstr
	Branch      BranchInstr
	Unreachable UnreachableInstr
}

type BoolInstr struct {
	Value bool
}

type IntInstr struct {
	Value int64
}

type FloatInstr struct {
	Value float64
}

type DeclRefInstr struct {
	Decl DeclarationID
}

type ParamInstr struct {
	Name string
}

type CallInstr struct {
	Callee InstrID
	Args   []InstrID
}

// AllocaInstr reserves a slot typed by Type when it is set and by Value
// otherwise. Value is only read when HasValue is set. Name is the
// source-level local.
type AllocaInstr struct {
	Type     DeclarationID
	HasValue bool
	Value    InstrID
	Name     string
}

type StoreInstr struct {
	Ptr   InstrID
	Value InstrID
}

type LoadInstr struct {
	Ptr InstrID
}

type GetFieldInstr struct {
	Value InstrID
	Field string
}

// BinaryOp enumerates arithmetic operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

type BinaryInstr struct {
	Op    BinaryOp
	Left  InstrID
	Right InstrID
}

type NewInstr struct {
	Type DeclarationID
}

type AddressOfInstr struct {
	Value InstrID
}

type DerefInstr struct {
	Ptr InstrID
}

type ReturnInstr struct {
	HasValue bool
	Value    InstrID
}

type JumpInstr struct {
	Target BlockID
}

type BranchInstr struct {
	Cond InstrID
	Then BlockID
	Else BlockID
}

type UnreachableInstr struct {
	Reason string
}

// MissingReturn is the reason attached to the unreachable that closes a
// non-void body whose end is reachable.
const MissingReturn = "missing return"

// Operands returns the instruction ids ins reads.
func (ins *Instr) Operands() []InstrID {
	switch ins.Kind {
	case InstrCall:
		out := make([]InstrID, 0, len(ins.Call.Args)+1)
		out = append(out, ins.Call.Callee)
		return append(out, ins.Call.Args...)
	case InstrAlloca:
		if ins.Alloca.HasValue {
			return []InstrID{ins.Alloca.Value}
		}
	case InstrStore:
		return []InstrID{ins.Store.Ptr, ins.Store.Value}
	case InstrLoad:
		return []InstrID{ins.Load.Ptr}
	case InstrGetField:
		return []InstrID{ins.GetField.Value}
	case InstrBinary:
		return []InstrID{ins.Binary.Left, ins.Binary.Right}
	case InstrAddressOf:
		return []InstrID{ins.AddressOf.Value}
	case InstrDeref:
		return []InstrID{ins.Deref.Ptr}
	case InstrReturn:
		if ins.Return.HasValue {
			return []InstrID{ins.Return.Value}
		}
	case InstrBranch:
		return []InstrID{ins.Branch.Cond}
	}
	return nil
}

// Targets returns the blocks a jump or branch transfers control to.
func (ins *Instr) Targets() []BlockID {
	switch ins.Kind {
	case InstrJump:
		return []BlockID{ins.Jump.Target}
	case InstrBranch:
		return []BlockID{ins.Branch.Then, ins.Branch.Else}
	}
	return nil
}
