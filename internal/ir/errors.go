package ir

import "fmt"

// InvalidInstrError reports an operand that names no instruction of the
// function. It indicates a lowering bug and is raised with panic.
type InvalidInstrError struct {
	ID InstrID
}

func (e *InvalidInstrError) Error() string {
	return fmt.Sprintf("invalid instruction id %%%d", e.ID)
}

// InvalidBlockError reports a jump or branch to a block that does not exist.
type InvalidBlockError struct {
	ID BlockID
}

func (e *InvalidBlockError) Error() string {
	return fmt.Sprintf("invalid block id block#%d", e.ID)
}
