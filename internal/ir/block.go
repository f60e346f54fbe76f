package ir

import "alox/internal/types"

// Block is a straight-line run of instructions. Once complete, its last
// instruction is its only terminator.
type Block struct {
	ID     BlockID
	Instrs []Instr
}

func (b *Block) Terminated() bool {
	if b == nil || len(b.Instrs) == 0 {
		return false
	}
	return b.Instrs[len(b.Instrs)-1].Kind.IsTerminator()
}

// Terminator returns the trailing terminator of the block, if any.
func (b *Block) Terminator() (*Instr, bool) {
	if !b.Terminated() {
		return nil, false
	}
	return &b.Instrs[len(b.Instrs)-1], true
}

// Find returns the instruction with the given id in this block.
func (b *Block) Find(id InstrID) (*Instr, bool) {
	if b == nil {
		return nil, false
	}
	for i := range b.Instrs {
		if b.Instrs[i].ID == id {
			return &b.Instrs[i], true
		}
	}
	return nil, false
}

// TypeOf infers the type of ins using only this block for operand lookups.
// Parameters and operands defined elsewhere are reported as unimplemented.
func (b *Block) TypeOf(r Resolver, ins *Instr) *types.Type {
	env := instrEnv{
		r: r,
		lookup: func(id InstrID) *Instr {
			found, _ := b.Find(id)
			return found
		},
		param: func(string) *types.Type {
			return types.Unresolved(types.UnresolvedUnimplemented)
		},
	}
	return env.typeOf(ins)
}
