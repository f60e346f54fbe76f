package symbols

import (
	"fmt"

	"alox/internal/ir"
)

// DuplicateDeclarationError is raised with panic when a fully qualified name
// is registered twice. It indicates a lowering bug or a clashing module set;
// the driver turns it into a fatal build error.
type DuplicateDeclarationError struct {
	ID     ir.DeclarationID
	Module string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("duplicate declaration %s (registering module %s)", e.ID, e.Module)
}
