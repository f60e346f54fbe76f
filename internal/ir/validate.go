package ir

import (
	"errors"
	"fmt"
)

// Validate checks structural invariants of every function body in m:
// blocks are non-empty with a single trailing terminator, block and
// instruction ids are unique, and every jump target and operand exists.
// The checks hold for freshly lowered modules and after unreachable block
// removal. A single dead-block pass can keep a block whose operands were
// defined in a removed one.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	var visit func(prefix string, d *Declaration)
	visit = func(prefix string, d *Declaration) {
		if d == nil {
			return
		}
		name := prefix + d.Name
		if d.Function != nil {
			if err := ValidateFunction(d.Function); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", d.Kind, name, err))
			}
		}
		for _, member := range d.Members {
			visit(name+"::", member)
		}
	}
	for _, d := range m.Declarations {
		visit("", d)
	}
	return errors.Join(errs...)
}

// ValidateFunction checks a single function body.
func ValidateFunction(f *Function) error {
	if f == nil {
		return nil
	}
	var errs []error
	if len(f.Blocks) == 0 {
		return errors.New("function has no entry block")
	}

	blocks := make(map[BlockID]bool, len(f.Blocks))
	instrs := make(map[InstrID]bool)
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if blocks[bb.ID] {
			errs = append(errs, fmt.Errorf("block#%d: duplicate block id", bb.ID))
		}
		blocks[bb.ID] = true
		for j := range bb.Instrs {
			id := bb.Instrs[j].ID
			if instrs[id] {
				errs = append(errs, fmt.Errorf("block#%d: duplicate instruction id %%%d", bb.ID, id))
			}
			instrs[id] = true
		}
	}

	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if !bb.Terminated() {
			errs = append(errs, fmt.Errorf("block#%d: unterminated block", bb.ID))
		}
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			if ins.Kind.IsTerminator() && j != len(bb.Instrs)-1 {
				errs = append(errs, fmt.Errorf("block#%d: terminator %%%d is not last", bb.ID, ins.ID))
			}
			for _, op := range ins.Operands() {
				if !instrs[op] {
					errs = append(errs, fmt.Errorf("block#%d: %%%d: %w", bb.ID, ins.ID, &InvalidInstrError{ID: op}))
				}
			}
			for _, target := range ins.Targets() {
				if !blocks[target] {
					errs = append(errs, fmt.Errorf("block#%d: %%%d: %w", bb.ID, ins.ID, &InvalidBlockError{ID: target}))
				}
			}
		}
	}
	return errors.Join(errs...)
}
