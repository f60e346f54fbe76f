package testkit

import (
	"errors"
	"fmt"

	"alox/internal/ir"
)

// CheckFunction runs the structural IR checks plus the invariants lowering
// guarantees on top of them:
// 1) the entry block is block#0 and comes first
// 2) instruction ids grow within each block
// 3) every param instruction names a declared parameter
func CheckFunction(fn *ir.Function) error {
	if fn == nil {
		return errors.New("nil function")
	}
	if err := ir.ValidateFunction(fn); err != nil {
		return err
	}
	var errs []error
	if fn.Blocks[0].ID != 0 {
		errs = append(errs, fmt.Errorf("entry block is block#%d", fn.Blocks[0].ID))
	}
	for i := range fn.Blocks {
		bb := &fn.Blocks[i]
		for j := 1; j < len(bb.Instrs); j++ {
			if bb.Instrs[j].ID <= bb.Instrs[j-1].ID {
				errs = append(errs, fmt.Errorf("block#%d: %%%d follows %%%d", bb.ID, bb.Instrs[j].ID, bb.Instrs[j-1].ID))
			}
		}
		for j := range bb.Instrs {
			ins := &bb.Instrs[j]
			if ins.Kind != ir.InstrParam {
				continue
			}
			if _, ok := fn.Param(ins.Param.Name); !ok {
				errs = append(errs, fmt.Errorf("block#%d: %%%d reads unknown parameter %q", bb.ID, ins.ID, ins.Param.Name))
			}
		}
	}
	return errors.Join(errs...)
}

// CheckModule runs CheckFunction on every function and behaviour of m,
// including struct and actor members.
func CheckModule(m *ir.Module) error {
	if m == nil {
		return errors.New("nil module")
	}
	var errs []error
	var walk func(prefix string, decls []*ir.Declaration)
	walk = func(prefix string, decls []*ir.Declaration) {
		for _, d := range decls {
			if d == nil {
				errs = append(errs, fmt.Errorf("%snil declaration", prefix))
				continue
			}
			switch d.Kind {
			case ir.DeclFunction, ir.DeclBehaviour:
				if err := CheckFunction(d.Function); err != nil {
					errs = append(errs, fmt.Errorf("%s%s: %w", prefix, d.Name, err))
				}
			case ir.DeclStruct, ir.DeclActor:
				walk(prefix+d.Name+"::", d.Members)
			}
		}
	}
	walk(m.FullPath().String()+"::", m.Declarations)
	return errors.Join(errs...)
}
