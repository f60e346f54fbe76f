package symbols

// ModuleID identifies a registered module in the table's arena.
type ModuleID uint32

// NoModuleID is the arena sentinel.
const NoModuleID ModuleID = 0

// IsValid reports whether id refers to a registered module.
func (id ModuleID) IsValid() bool { return id != NoModuleID }

// noMember marks a location that addresses a top-level declaration.
const noMember = -1

// location addresses a declaration inside a module's declaration slice.
// member indexes into the Members of the top-level declaration at slot.
type location struct {
	module ModuleID
	slot   int
	member int
}
