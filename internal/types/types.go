package types

import (
	"fmt"
	"strings"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	// KindUnresolved marks a type whose declaration could not be found (yet).
	KindUnresolved Kind = iota
	// KindPrimitive covers integers, floats, Bool, Void and NoReturn.
	KindPrimitive
	// KindStruct is a nominal aggregate with ordered fields.
	KindStruct
	// KindFunction is a function signature.
	KindFunction
	// KindGeneric is an instantiated generic constructor such as Pointer[Int32].
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindUnresolved:
		return "unresolved"
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindGeneric:
		return "generic"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Markers carried by Unresolved types produced by type inference rather than
// by a failed name lookup.
const (
	UnresolvedUnimplemented = "unimplemented"
	UnresolvedNotFunction   = "not a function"
)

// Field is a named struct member.
type Field struct {
	Name string
	Type *Type
}

// Type is a structural type descriptor. Only the fields relevant to Kind are set.
type Type struct {
	Kind Kind

	// Ident is the name hint for unresolved types, the struct name, or the
	// generic constructor name.
	Ident string

	Primitive Primitive

	Fields []Field

	// Args holds function argument types or generic type arguments.
	Args   []*Type
	Result *Type
}

// Unresolved returns a placeholder type tagged with the requested name.
func Unresolved(name string) *Type {
	return &Type{Kind: KindUnresolved, Ident: name}
}

// NewPrimitive wraps a primitive descriptor.
func NewPrimitive(p Primitive) *Type {
	return &Type{Kind: KindPrimitive, Primitive: p}
}

func NewInt(bits uint8) *Type   { return NewPrimitive(Primitive{Kind: PrimInt, Bits: bits}) }
func NewFloat(bits uint8) *Type { return NewPrimitive(Primitive{Kind: PrimFloat, Bits: bits}) }
func Bool() *Type               { return NewPrimitive(Primitive{Kind: PrimBool}) }
func Void() *Type               { return NewPrimitive(Primitive{Kind: PrimVoid}) }
func NoReturn() *Type           { return NewPrimitive(Primitive{Kind: PrimNoReturn}) }
func ComptimeInt() *Type        { return NewInt(ComptimeBits) }
func ComptimeFloat() *Type      { return NewFloat(ComptimeBits) }

// NewStruct builds a struct type with the given ordered fields.
func NewStruct(name string, fields []Field) *Type {
	return &Type{Kind: KindStruct, Ident: name, Fields: fields}
}

// NewFunction builds a function type.
func NewFunction(args []*Type, result *Type) *Type {
	return &Type{Kind: KindFunction, Args: args, Result: result}
}

// NewGeneric builds an instantiated generic type.
func NewGeneric(name string, args []*Type) *Type {
	return &Type{Kind: KindGeneric, Ident: name, Args: args}
}

// IsUnresolved reports whether t is nil or an unresolved placeholder.
func (t *Type) IsUnresolved() bool {
	return t == nil || t.Kind == KindUnresolved
}

// IsPrimitive reports whether t is the given primitive kind.
func (t *Type) IsPrimitive(kind PrimitiveKind) bool {
	return t != nil && t.Kind == KindPrimitive && t.Primitive.Kind == kind
}

// Field looks up a struct field by name.
func (t *Type) Field(name string) (Field, bool) {
	if t == nil || t.Kind != KindStruct {
		return Field{}, false
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Name renders the canonical type name: Int32, Pointer[Int32], A -> B -> Result.
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindUnresolved:
		return t.Ident
	case KindPrimitive:
		return t.Primitive.Name()
	case KindStruct:
		return t.Ident
	case KindFunction:
		parts := make([]string, 0, len(t.Args)+1)
		for _, arg := range t.Args {
			parts = append(parts, arg.Name())
		}
		parts = append(parts, t.Result.Name())
		return strings.Join(parts, " -> ")
	case KindGeneric:
		if len(t.Args) == 0 {
			return t.Ident
		}
		args := make([]string, len(t.Args))
		for i, arg := range t.Args {
			args[i] = arg.Name()
		}
		return t.Ident + "[" + strings.Join(args, ", ") + "]"
	}
	return fmt.Sprintf("<%s>", t.Kind)
}

func (t *Type) String() string { return t.Name() }

// Equal compares two types structurally.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind || a.Ident != b.Ident {
		return false
	}
	switch a.Kind {
	case KindPrimitive:
		return a.Primitive == b.Primitive
	case KindStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !Equal(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	case KindFunction, KindGeneric:
		if len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		if a.Kind == KindFunction {
			return Equal(a.Result, b.Result)
		}
		return true
	}
	return true
}
