package ir

import (
	"slices"
	"strings"
)

// InstrID numbers instructions across all blocks of one function.
type InstrID uint32

// BlockID identifies a block within its owning function. Jump and branch
// targets refer to block ids, not slice indices.
type BlockID uint32

// Path is a namespace path such as test::module.
type Path []string

func (p Path) String() string {
	return strings.Join(p, "::")
}

// Append returns a new path with name appended; p is never modified.
func (p Path) Append(names ...string) Path {
	out := make(Path, 0, len(p)+len(names))
	out = append(out, p...)
	return append(out, names...)
}

func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// DeclarationID names a declaration by namespace path, local name and
// optional type arguments (Pointer[Int32]). It is a plain value: it never
// owns or points at the declaration it names.
type DeclarationID struct {
	Path Path
	Name string
	Args []DeclarationID
}

// NewID builds a DeclarationID. The path is copied.
func NewID(path Path, name string, args ...DeclarationID) DeclarationID {
	id := DeclarationID{Name: name}
	if len(path) > 0 {
		id.Path = slices.Clone(path)
	}
	if len(args) > 0 {
		id.Args = slices.Clone(args)
	}
	return id
}

// IsQualified reports whether the id carries a namespace path.
func (id DeclarationID) IsQualified() bool {
	return len(id.Path) > 0
}

// IsZero reports whether id names nothing.
func (id DeclarationID) IsZero() bool {
	return id.Name == "" && len(id.Path) == 0 && len(id.Args) == 0
}

// Child names a member nested inside the declaration id refers to.
func (id DeclarationID) Child(name string) DeclarationID {
	return DeclarationID{Path: id.Path.Append(id.Name), Name: name}
}

// Equal compares path, name and arguments structurally.
func (id DeclarationID) Equal(other DeclarationID) bool {
	if id.Name != other.Name || !id.Path.Equal(other.Path) || len(id.Args) != len(other.Args) {
		return false
	}
	for i := range id.Args {
		if !id.Args[i].Equal(other.Args[i]) {
			return false
		}
	}
	return true
}

// String renders the canonical form a::b::Name[Arg, Arg].
func (id DeclarationID) String() string {
	var b strings.Builder
	id.write(&b)
	return b.String()
}

// Key is the map key used by symbol tables. Identifiers cannot contain the
// separators, so the canonical string is injective.
func (id DeclarationID) Key() string {
	return id.String()
}

func (id DeclarationID) write(b *strings.Builder) {
	for _, seg := range id.Path {
		b.WriteString(seg)
		b.WriteString("::")
	}
	b.WriteString(id.Name)
	if len(id.Args) == 0 {
		return
	}
	b.WriteByte('[')
	for i, arg := range id.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.write(b)
	}
	b.WriteByte(']')
}
