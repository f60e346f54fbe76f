package ir

import "alox/internal/types"

// PointerName is the generic constructor Alloca, New and AddressOf results
// are wrapped in.
const PointerName = "Pointer"

func pointerTo(t *types.Type) *types.Type {
	return types.NewGeneric(PointerName, []*types.Type{t})
}

// pointee unwraps Pointer[T]. Anything else is Unresolved, named after the
// type that was not a pointer.
func pointee(ptr *types.Type) *types.Type {
	if ptr.Kind == types.KindGeneric && ptr.Ident == PointerName && len(ptr.Args) == 1 {
		return ptr.Args[0]
	}
	return types.Unresolved(ptr.Name())
}

type instrEnv struct {
	r      Resolver
	lookup func(InstrID) *Instr
	param  func(name string) *types.Type
}

func (e instrEnv) operand(id InstrID) *types.Type {
	ins := e.lookup(id)
	if ins == nil {
		return types.Unresolved(types.UnresolvedUnimplemented)
	}
	return e.typeOf(ins)
}

func (e instrEnv) typeOf(ins *Instr) *types.Type {
	if ins == nil {
		return types.Unresolved(types.UnresolvedUnimplemented)
	}
	switch ins.Kind {
	case InstrBool:
		return types.Bool()
	case InstrInt:
		return types.ComptimeInt()
	case InstrFloat:
		return types.ComptimeFloat()
	case InstrDeclRef:
		return ResolveType(e.r, ins.DeclRef.Decl)
	case InstrParam:
		return e.param(ins.Param.Name)
	case InstrCall:
		return e.callType(ins.Call.Callee)
	case InstrAlloca:
		if !ins.Alloca.Type.IsZero() {
			return pointerTo(ResolveType(e.r, ins.Alloca.Type))
		}
		return pointerTo(e.operand(ins.Alloca.Value))
	case InstrLoad:
		return pointee(e.operand(ins.Load.Ptr))
	case InstrDeref:
		return pointee(e.operand(ins.Deref.Ptr))
	case InstrNew:
		return pointerTo(ResolveType(e.r, ins.New.Type))
	case InstrAddressOf:
		return pointerTo(e.operand(ins.AddressOf.Value))
	case InstrStore:
		return types.Void()
	case InstrGetField:
		base := e.operand(ins.GetField.Value)
		if f, ok := base.Field(ins.GetField.Field); ok {
			return f.Type
		}
		return types.Unresolved(ins.GetField.Field)
	case InstrBinary:
		return e.operand(ins.Binary.Left)
	case InstrReturn, InstrJump, InstrBranch, InstrUnreachable:
		return types.NoReturn()
	}
	return types.Unresolved(types.UnresolvedUnimplemented)
}

// callType is the callee's declared return type when the callee is a
// reference to a Function declaration, and "not a function" otherwise.
func (e instrEnv) callType(callee InstrID) *types.Type {
	ins := e.lookup(callee)
	if ins == nil || ins.Kind != InstrDeclRef || e.r == nil {
		return types.Unresolved(types.UnresolvedNotFunction)
	}
	decl, ok := e.r.Resolve(ins.DeclRef.Decl)
	if !ok || decl == nil || decl.Kind != DeclFunction || decl.Function == nil {
		return types.Unresolved(types.UnresolvedNotFunction)
	}
	return ResolveType(e.r, decl.Function.Return)
}
