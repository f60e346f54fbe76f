package ir

import (
	"fmt"

	"alox/internal/source"
	"alox/internal/types"
)

// DeclKind tags the Declaration variant.
type DeclKind uint8

const (
	DeclFunction DeclKind = iota
	DeclBehaviour
	DeclActor
	DeclStruct
	DeclTrait
	DeclVariable
	DeclType
)

func (k DeclKind) String() string {
	switch k {
	case DeclFunction:
		return "function"
	case DeclBehaviour:
		return "behaviour"
	case DeclActor:
		return "actor"
	case DeclStruct:
		return "struct"
	case DeclTrait:
		return "trait"
	case DeclVariable:
		return "variable"
	case DeclType:
		return "type"
	default:
		return fmt.Sprintf("DeclKind(%d)", k)
	}
}

// Declaration is a tagged union. Only the payload matching Kind is set:
//
//   - Function, Behaviour: Function
//   - Actor, Struct: Members (fields are Variable declarations, methods are
//     Function or Behaviour declarations)
//   - Variable: VarType
//   - Type: Type for builtins, or TypeArgs for synthesized generic
//     instantiations (Name is then the generic constructor)
//   - Trait: no payload
type Declaration struct {
	Kind DeclKind
	Name string
	Span source.Span

	Function *Function
	Members  []*Declaration
	VarType  DeclarationID

	Type     *types.Type
	TypeArgs []DeclarationID
}

// IsKind filters declarations by kind. Struct, Trait, Function, Behaviour and
// Actor declarations also satisfy a DeclType query.
func (d *Declaration) IsKind(kind DeclKind) bool {
	if d == nil {
		return false
	}
	if d.Kind == kind {
		return true
	}
	if kind != DeclType {
		return false
	}
	switch d.Kind {
	case DeclStruct, DeclTrait, DeclFunction, DeclBehaviour, DeclActor:
		return true
	}
	return false
}

// TypeOf computes the type the declaration denotes. Names that do not resolve
// through r become Unresolved types carrying the requested name.
func (d *Declaration) TypeOf(r Resolver) *types.Type {
	env := declEnv{r: r}
	return env.declType(d)
}

// ResolveType resolves id and returns the type of the declaration it names.
func ResolveType(r Resolver, id DeclarationID) *types.Type {
	env := declEnv{r: r}
	return env.idType(id)
}

// declEnv tracks the aggregates whose type is being built so that
// self-referential fields (struct S { let next: Pointer[S] }) terminate.
type declEnv struct {
	r      Resolver
	active map[*Declaration]bool
}

func (e *declEnv) idType(id DeclarationID) *types.Type {
	if e.r == nil {
		return types.Unresolved(id.String())
	}
	decl, ok := e.r.Resolve(id)
	if !ok || decl == nil {
		return types.Unresolved(id.String())
	}
	return e.declType(decl)
}

func (e *declEnv) declType(d *Declaration) *types.Type {
	if d == nil {
		return types.Unresolved(types.UnresolvedUnimplemented)
	}
	switch d.Kind {
	case DeclType:
		if d.Type != nil {
			return d.Type
		}
		args := make([]*types.Type, len(d.TypeArgs))
		for i, arg := range d.TypeArgs {
			args[i] = e.idType(arg)
		}
		return types.NewGeneric(d.Name, args)
	case DeclFunction, DeclBehaviour:
		fn := d.Function
		if fn == nil {
			return types.Unresolved(d.Name)
		}
		args := make([]*types.Type, len(fn.Params))
		for i, p := range fn.Params {
			args[i] = e.idType(p.Type)
		}
		if d.Kind == DeclBehaviour {
			return types.NewFunction(args, types.Void())
		}
		return types.NewFunction(args, e.idType(fn.Return))
	case DeclStruct, DeclActor:
		if e.active[d] {
			return types.NewStruct(d.Name, nil)
		}
		if e.active == nil {
			e.active = make(map[*Declaration]bool)
		}
		e.active[d] = true
		defer delete(e.active, d)
		fields := make([]types.Field, 0, len(d.Members))
		for _, m := range d.Members {
			if m == nil || m.Kind != DeclVariable {
				continue
			}
			fields = append(fields, types.Field{Name: m.Name, Type: e.idType(m.VarType)})
		}
		return types.NewStruct(d.Name, fields)
	case DeclVariable:
		return e.idType(d.VarType)
	case DeclTrait:
		return types.NewStruct(d.Name, nil)
	}
	return types.Unresolved(d.Name)
}

// Resolver answers what a DeclarationID refers to. Lookups are pure and may
// be repeated; a miss is never fatal.
type Resolver interface {
	Resolve(id DeclarationID) (*Declaration, bool)
}
