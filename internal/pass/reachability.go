package pass

import (
	"context"
	"strconv"

	"alox/internal/ir"
	"alox/internal/trace"
)

// UnreachableBlockRemoval keeps only the blocks reachable from the entry
// block, following jump and branch targets.
type UnreachableBlockRemoval struct{}

func (UnreachableBlockRemoval) Name() string { return "reachability" }

func (UnreachableBlockRemoval) Run(ctx context.Context, m *ir.Module, _ Env) {
	Walk(m, &unreachable{ctx: ctx})
}

type unreachable struct {
	NopVisitor
	ctx context.Context
}

func (v *unreachable) Function(d *ir.Declaration, fn *ir.Function) {
	if n := RemoveUnreachableBlocks(fn); n > 0 {
		trace.Point(v.ctx, trace.ScopeFunction, "reachability", d.Name+" removed "+strconv.Itoa(n))
	}
}

// RemoveUnreachableBlocks drops blocks with no path from the entry block and
// reports how many were removed. Block order is preserved.
func RemoveUnreachableBlocks(fn *ir.Function) int {
	if len(fn.Blocks) == 0 {
		return 0
	}
	reachable := make([]bool, len(fn.Blocks))
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reachable[i] {
			continue
		}
		reachable[i] = true
		term, ok := fn.Blocks[i].Terminator()
		if !ok {
			continue
		}
		for _, target := range term.Targets() {
			if j, ok := fn.BlockIndex(target); ok && !reachable[j] {
				stack = append(stack, j)
			}
		}
	}

	kept := fn.Blocks[:0]
	for i := range fn.Blocks {
		if reachable[i] {
			kept = append(kept, fn.Blocks[i])
		}
	}
	removed := len(fn.Blocks) - len(kept)
	fn.Blocks = kept
	return removed
}
