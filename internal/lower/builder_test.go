package lower

import (
	"testing"

	"alox/internal/ir"
)

func TestAddAfterTerminatorIsIdempotent(t *testing.T) {
	b := NewBlockBuilder()
	v := b.AddInstruction(ir.Instr{Kind: ir.InstrInt, Int: ir.IntInstr{Value: 7}})
	ret := b.AddInstruction(ir.Instr{Kind: ir.InstrReturn, Return: ir.ReturnInstr{HasValue: true, Value: v}})

	for range 3 {
		if got := b.AddInstruction(ir.Instr{Kind: ir.InstrBool}); got != ret {
			t.Fatalf("add after terminator returned %d, want %d", got, ret)
		}
		if got := b.AddInstruction(ir.Instr{Kind: ir.InstrUnreachable}); got != ret {
			t.Fatalf("second terminator returned %d, want %d", got, ret)
		}
	}
	if n := len(b.CurrentBlock().Instrs); n != 2 {
		t.Fatalf("block has %d instructions, want 2", n)
	}
	if b.InstrCount() != 2 {
		t.Fatalf("ids were consumed by rejected instructions: %d", b.InstrCount())
	}
}

func TestCreateBlockReusesEmptyBlock(t *testing.T) {
	b := NewBlockBuilder()
	if id := b.CreateBlock(); id != 0 {
		t.Fatalf("empty entry block not reused, got block#%d", id)
	}
	b.AddInstruction(ir.Instr{Kind: ir.InstrBool})
	first := b.CreateBlock()
	if again := b.CreateBlock(); again != first {
		t.Fatalf("CreateBlock on empty block: got block#%d, want block#%d", again, first)
	}
	if first != 1 || b.CurrentIndex() != 1 {
		t.Fatalf("unexpected block#%d at index %d", first, b.CurrentIndex())
	}
}

func TestInstrIDsSpanBlocks(t *testing.T) {
	b := NewBlockBuilder()
	a := b.AddInstruction(ir.Instr{Kind: ir.InstrBool})
	b.AddInstruction(ir.Instr{Kind: ir.InstrJump, Jump: ir.JumpInstr{Target: 1}})
	b.CreateBlock()
	c := b.AddInstruction(ir.Instr{Kind: ir.InstrBool})
	if a != 0 || c != 2 {
		t.Fatalf("ids not function-wide: %d, %d", a, c)
	}
	if !b.Referenced(1) || b.Referenced(0) {
		t.Fatalf("unexpected reference info")
	}
}

func TestFinish(t *testing.T) {
	tests := []struct {
		name   string
		void   bool
		blocks int
		last   ir.InstrKind
	}{
		{"void closes with return", true, 1, ir.InstrReturn},
		{"value closes with unreachable", false, 1, ir.InstrUnreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlockBuilder()
			b.AddInstruction(ir.Instr{Kind: ir.InstrBool})
			// empty and unreferenced
			b.CreateBlock()

			blocks := b.Finish(tt.void)
			if len(blocks) != tt.blocks {
				t.Fatalf("got %d blocks, want %d", len(blocks), tt.blocks)
			}
			term, ok := blocks[0].Terminator()
			if !ok || term.Kind != tt.last {
				t.Fatalf("terminator = %+v", term)
			}
			if !tt.void && term.Unreachable.Reason != ir.MissingReturn {
				t.Fatalf("reason = %q", term.Unreachable.Reason)
			}
		})
	}
}

func TestFinishKeepsReferencedEmptyBlock(t *testing.T) {
	b := NewBlockBuilder()
	b.AddInstruction(ir.Instr{Kind: ir.InstrJump, Jump: ir.JumpInstr{Target: 1}})
	b.CreateBlock()
	blocks := b.Finish(true)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if term, ok := blocks[1].Terminator(); !ok || term.Kind != ir.InstrReturn {
		t.Fatalf("jump target not closed with return")
	}
}

func TestLocalVariableTableScopes(t *testing.T) {
	l := NewLocalVariableTable([]string{"p"})
	l.Set("x", 1)
	l.Push()
	l.Set("x", 5)
	l.Set("y", 6)
	if id, _ := l.Get("x"); id != 5 {
		t.Fatalf("inner x = %d", id)
	}
	l.Pop()
	if id, _ := l.Get("x"); id != 1 {
		t.Fatalf("outer x = %d", id)
	}
	if _, ok := l.Get("y"); ok {
		t.Fatalf("y leaked out of its scope")
	}
	l.Pop()
	l.Pop()
	if l.Depth() != 1 {
		t.Fatalf("outermost scope dropped")
	}
	if !l.IsParameter("p") || l.IsParameter("x") {
		t.Fatalf("parameter lookup wrong")
	}
}
