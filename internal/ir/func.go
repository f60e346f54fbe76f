package ir

import "alox/internal/types"

// Param is a function parameter and the declared id of its type.
type Param struct {
	Name string
	Type DeclarationID
}

// Function is the body shared by Function and Behaviour declarations. Blocks[0]
// is the entry block. Return is unused for behaviours.
type Function struct {
	Params []Param
	Return DeclarationID
	Blocks []Block
}

// Param returns the parameter called name.
func (f *Function) Param(name string) (Param, bool) {
	if f == nil {
		return Param{}, false
	}
	for _, p := range f.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Instr returns the instruction with the given id from any block.
func (f *Function) Instr(id InstrID) (*Instr, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Blocks {
		if ins, ok := f.Blocks[i].Find(id); ok {
			return ins, true
		}
	}
	return nil, false
}

// BlockIndex maps a block id to its position in Blocks.
func (f *Function) BlockIndex(id BlockID) (int, bool) {
	if f == nil {
		return 0, false
	}
	for i := range f.Blocks {
		if f.Blocks[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// Block returns the block with the given id.
func (f *Function) Block(id BlockID) (*Block, bool) {
	idx, ok := f.BlockIndex(id)
	if !ok {
		return nil, false
	}
	return &f.Blocks[idx], true
}

// TypeOf infers the type of ins with the function as context, so parameters
// resolve to their declared types. An operand id that does not exist in the
// function panics with *InvalidInstrError.
func (f *Function) TypeOf(r Resolver, ins *Instr) *types.Type {
	return f.env(r, true).typeOf(ins)
}

func (f *Function) env(r Resolver, strict bool) instrEnv {
	return instrEnv{
		r: r,
		lookup: func(id InstrID) *Instr {
			found, ok := f.Instr(id)
			if !ok && strict {
				panic(&InvalidInstrError{ID: id})
			}
			return found
		},
		param: func(name string) *types.Type {
			p, ok := f.Param(name)
			if !ok {
				return types.Unresolved(name)
			}
			return ResolveType(r, p.Type)
		},
	}
}
