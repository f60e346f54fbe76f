package symbols

import (
	"slices"

	"alox/internal/ir"
	"alox/internal/types"
)

var genericConstructors = map[string]int{
	"Pointer": 1,
	"Array":   1,
}

// IsGenericConstructor reports whether name is a reserved generic type
// constructor such as Pointer or Array.
func IsGenericConstructor(name string) bool {
	_, ok := genericConstructors[name]
	return ok
}

// IsBuiltin reports whether an unqualified name denotes a builtin primitive.
func IsBuiltin(name string) bool {
	_, ok := types.FromName(name)
	return ok
}

// Resolve answers what id refers to. Unqualified builtin names always win,
// then previously synthesized declarations, then generic constructors, then
// registered module declarations. A miss is not an error: the caller may
// retry once more modules are registered.
func (t *Table) Resolve(id ir.DeclarationID) (*ir.Declaration, bool) {
	if !id.IsQualified() && len(id.Args) == 0 {
		if d, ok := t.builtin(id.Name); ok {
			return d, true
		}
	}
	key := id.Key()
	if d, ok := t.cached(key); ok {
		return d, true
	}
	if !id.IsQualified() && IsGenericConstructor(id.Name) {
		return t.synthesize(key, id)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	loc, ok := t.decls[key]
	if !ok {
		return nil, false
	}
	d := t.modules.declaration(loc)
	return d, d != nil
}

func (t *Table) cached(key string) (*ir.Declaration, bool) {
	t.synthMu.Lock()
	defer t.synthMu.Unlock()
	d, ok := t.synth[key]
	return d, ok
}

// store inserts d unless another goroutine got there first, and returns the
// entry that is in the cache afterwards.
func (t *Table) store(key string, d *ir.Declaration) *ir.Declaration {
	t.synthMu.Lock()
	defer t.synthMu.Unlock()
	if existing, ok := t.synth[key]; ok {
		return existing
	}
	t.synth[key] = d
	return d
}

func (t *Table) builtin(name string) (*ir.Declaration, bool) {
	p, ok := types.FromName(name)
	if !ok {
		return nil, false
	}
	if d, ok := t.cached(name); ok {
		return d, true
	}
	return t.store(name, &ir.Declaration{
		Kind: ir.DeclType,
		Name: name,
		Type: types.NewPrimitive(p),
	}), true
}

// synthesize builds a generic instantiation. Arguments are resolved without
// holding any lock; an argument that does not resolve yet makes the whole
// instantiation a miss, and nothing is cached for it.
func (t *Table) synthesize(key string, id ir.DeclarationID) (*ir.Declaration, bool) {
	if len(id.Args) != genericConstructors[id.Name] {
		return nil, false
	}
	for _, arg := range id.Args {
		if _, ok := t.Resolve(arg); !ok {
			return nil, false
		}
	}
	d := &ir.Declaration{
		Kind:     ir.DeclType,
		Name:     id.Name,
		TypeArgs: slices.Clone(id.Args),
	}
	return t.store(key, d), true
}
