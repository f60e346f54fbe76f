package symbols

import (
	"sync"

	"alox/internal/ir"
)

// Table owns every registered module and maps fully qualified declaration
// ids to arena locations. Builtins and generic instantiations live in a
// separate synthesized cache guarded by its own lock, so a lookup that
// synthesizes never needs to upgrade the table's read lock.
type Table struct {
	mu      sync.RWMutex
	modules *Modules
	decls   map[string]location

	synthMu sync.Mutex
	synth   map[string]*ir.Declaration
}

var _ ir.Resolver = (*Table)(nil)

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		modules: NewModules(0),
		decls:   make(map[string]location),
		synth:   make(map[string]*ir.Declaration),
	}
}

type entry struct {
	id  ir.DeclarationID
	loc location
}

// RegisterModule takes ownership of m and makes every declaration in it,
// including struct and actor members, resolvable by its fully qualified id.
// Either all of the module's declarations become visible or, on a collision,
// none do and the call panics with *DuplicateDeclarationError.
func (t *Table) RegisterModule(m *ir.Module) ModuleID {
	if m == nil {
		panic("symbols.RegisterModule: nil module")
	}
	entries := moduleEntries(m)

	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		key := e.id.Key()
		_, inTable := t.decls[key]
		_, inModule := seen[key]
		if inTable || inModule {
			panic(&DuplicateDeclarationError{ID: e.id, Module: m.FullPath().String()})
		}
		seen[key] = struct{}{}
	}

	id := t.modules.New(m)
	for _, e := range entries {
		loc := e.loc
		loc.module = id
		t.decls[e.id.Key()] = loc
	}
	return id
}

func moduleEntries(m *ir.Module) []entry {
	full := m.FullPath()
	entries := make([]entry, 0, len(m.Declarations))
	for slot, d := range m.Declarations {
		if d == nil {
			continue
		}
		parent := ir.DeclarationID{Path: full, Name: d.Name}
		entries = append(entries, entry{id: parent, loc: location{slot: slot, member: noMember}})
		for member, nested := range d.Members {
			if nested == nil {
				continue
			}
			entries = append(entries, entry{id: parent.Child(nested.Name), loc: location{slot: slot, member: member}})
		}
	}
	return entries
}

// Module returns the module registered under id.
func (t *Table) Module(id ModuleID) *ir.Module {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modules.Get(id)
}

// Modules returns a snapshot of registered modules in registration order.
func (t *Table) Modules() []*ir.Module {
	t.mu.RLock()
	defer t.mu.RUnlock()
	data := t.modules.Data()
	out := make([]*ir.Module, len(data))
	copy(out, data)
	return out
}

// Len reports the number of declarations reachable through the primary map.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.decls)
}
