package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"alox/internal/ir"
)

// Modules stores registered modules in a slice arena. Index 0 is reserved
// for NoModuleID.
type Modules struct {
	data []*ir.Module
}

// NewModules creates an arena with optional capacity hint.
func NewModules(capacity uint32) *Modules {
	if capacity == 0 {
		capacity = 16
	}
	return &Modules{data: make([]*ir.Module, 1, capacity+1)}
}

// New stores m and returns its ID.
func (a *Modules) New(m *ir.Module) ModuleID {
	if m == nil {
		panic("symbols.Modules.New: nil module")
	}
	value, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("modules arena overflow: %w", err))
	}
	a.data = append(a.data, m)
	return ModuleID(value)
}

// Get returns the module or nil for an invalid ID.
func (a *Modules) Get(id ModuleID) *ir.Module {
	if !id.IsValid() || int(id) >= len(a.data) {
		return nil
	}
	return a.data[id]
}

// Len reports the number of modules excluding the sentinel.
func (a *Modules) Len() int { return len(a.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (a *Modules) Data() []*ir.Module {
	if len(a.data) <= 1 {
		return nil
	}
	return a.data[1:]
}

func (a *Modules) declaration(loc location) *ir.Declaration {
	m := a.Get(loc.module)
	if m == nil || loc.slot < 0 || loc.slot >= len(m.Declarations) {
		return nil
	}
	d := m.Declarations[loc.slot]
	if loc.member == noMember || d == nil {
		return d
	}
	if loc.member < 0 || loc.member >= len(d.Members) {
		return nil
	}
	return d.Members[loc.member]
}
