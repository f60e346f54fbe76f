package lower

import (
	"fmt"

	"fortio.org/safecast"

	"alox/internal/ir"
)

// BlockBuilder accumulates the blocks of one function body. Instruction ids
// are numbered across all blocks in emission order.
type BlockBuilder struct {
	blocks    []ir.Block
	current   int
	nextInstr ir.InstrID
}

// NewBlockBuilder starts with a single empty entry block.
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{blocks: []ir.Block{{ID: 0}}}
}

// CurrentBlock returns the block being appended to.
func (b *BlockBuilder) CurrentBlock() *ir.Block {
	return &b.blocks[b.current]
}

// CurrentIndex is the position of the current block.
func (b *BlockBuilder) CurrentIndex() int {
	return b.current
}

// Block returns the block at index idx.
func (b *BlockBuilder) Block(idx int) *ir.Block {
	return &b.blocks[idx]
}

// CreateBlock makes a new block current and returns its id. An empty current
// block is reused instead of leaving it behind.
func (b *BlockBuilder) CreateBlock() ir.BlockID {
	if len(b.blocks[b.current].Instrs) == 0 {
		return b.blocks[b.current].ID
	}
	n, err := safecast.Conv[uint32](len(b.blocks))
	if err != nil {
		panic(fmt.Errorf("block id overflow: %w", err))
	}
	b.blocks = append(b.blocks, ir.Block{ID: ir.BlockID(n)})
	b.current = len(b.blocks) - 1
	return b.blocks[b.current].ID
}

// AddInstruction appends ins to the current block. See AddTo.
func (b *BlockBuilder) AddInstruction(ins ir.Instr) ir.InstrID {
	return b.AddTo(b.current, ins)
}

// AddTo appends ins to the block at idx and returns its id. If that block is
// already terminated nothing is appended and the terminator's id is returned.
func (b *BlockBuilder) AddTo(idx int, ins ir.Instr) ir.InstrID {
	bb := &b.blocks[idx]
	if term, ok := bb.Terminator(); ok {
		return term.ID
	}
	ins.ID = b.nextInstr
	b.nextInstr++
	bb.Instrs = append(bb.Instrs, ins)
	return ins.ID
}

// InstrCount reports how many instructions have been emitted so far.
func (b *BlockBuilder) InstrCount() int {
	n, err := safecast.Conv[int](uint32(b.nextInstr))
	if err != nil {
		panic(fmt.Errorf("instruction count overflow: %w", err))
	}
	return n
}

// Referenced reports whether any jump or branch targets id.
func (b *BlockBuilder) Referenced(id ir.BlockID) bool {
	for i := range b.blocks {
		term, ok := b.blocks[i].Terminator()
		if !ok {
			continue
		}
		for _, target := range term.Targets() {
			if target == id {
				return true
			}
		}
	}
	return false
}

// retarget points the jump terminating the block at idx to target.
func (b *BlockBuilder) retarget(idx int, target ir.BlockID) {
	term, ok := b.blocks[idx].Terminator()
	if !ok || term.Kind != ir.InstrJump {
		panic(fmt.Sprintf("block#%d does not end in a jump", b.blocks[idx].ID))
	}
	term.Jump.Target = target
}

// Finish closes the body and returns its blocks. A trailing empty block that
// nothing jumps to is dropped; any block still open is closed with a bare
// return when void is set and with an unreachable "missing return" otherwise.
func (b *BlockBuilder) Finish(void bool) []ir.Block {
	last := len(b.blocks) - 1
	if last > 0 && len(b.blocks[last].Instrs) == 0 && !b.Referenced(b.blocks[last].ID) {
		b.blocks = b.blocks[:last]
	}
	for i := range b.blocks {
		if b.blocks[i].Terminated() {
			continue
		}
		if void {
			b.AddTo(i, ir.Instr{Kind: ir.InstrReturn})
		} else {
			b.AddTo(i, ir.Instr{Kind: ir.InstrUnreachable, Unreachable: ir.UnreachableInstr{Reason: ir.MissingReturn}})
		}
	}
	b.current = 0
	return b.blocks
}
