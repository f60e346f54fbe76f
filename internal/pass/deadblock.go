package pass

import (
	"context"
	"strconv"

	"alox/internal/ir"
	"alox/internal/trace"
)

// DeadBlockRemoval drops blocks that no other block jumps or branches to.
// The entry block always stays. It runs once and does not iterate, so a
// group of blocks that only target each other survives; see
// UnreachableBlockRemoval.
type DeadBlockRemoval struct{}

func (DeadBlockRemoval) Name() string { return "dead-blocks" }

func (DeadBlockRemoval) Run(ctx context.Context, m *ir.Module, _ Env) {
	Walk(m, &deadBlocks{ctx: ctx})
}

type deadBlocks struct {
	NopVisitor
	ctx context.Context
}

func (v *deadBlocks) Function(d *ir.Declaration, fn *ir.Function) {
	if n := RemoveDeadBlocks(fn); n > 0 {
		trace.Point(v.ctx, trace.ScopeFunction, "dead-blocks", d.Name+" removed "+strconv.Itoa(n))
	}
}

// RemoveDeadBlocks removes every non-entry block of fn that no other block
// targets and reports how many were removed.
func RemoveDeadBlocks(fn *ir.Function) int {
	var dead []int
	for i := 1; i < len(fn.Blocks); i++ {
		if !targetedByOthers(fn, i) {
			dead = append(dead, i)
		}
	}
	for k := len(dead) - 1; k >= 0; k-- {
		i := dead[k]
		fn.Blocks = append(fn.Blocks[:i], fn.Blocks[i+1:]...)
	}
	return len(dead)
}

func targetedByOthers(fn *ir.Function, idx int) bool {
	id := fn.Blocks[idx].ID
	for j := range fn.Blocks {
		if j == idx {
			continue
		}
		for k := range fn.Blocks[j].Instrs {
			for _, target := range fn.Blocks[j].Instrs[k].Targets() {
				if target == id {
					return true
				}
			}
		}
	}
	return false
}
