package lower

import (
	"slices"

	"alox/internal/ir"
)

// LocalVariableTable maps names visible in a function body to the Alloca
// that holds them. Scopes nest; parameters are fixed for the function.
type LocalVariableTable struct {
	params []string
	scopes []map[string]ir.InstrID
}

// NewLocalVariableTable starts with one open scope.
func NewLocalVariableTable(params []string) *LocalVariableTable {
	return &LocalVariableTable{
		params: params,
		scopes: []map[string]ir.InstrID{make(map[string]ir.InstrID)},
	}
}

func (l *LocalVariableTable) Push() {
	l.scopes = append(l.scopes, make(map[string]ir.InstrID))
}

// Pop drops the innermost scope. The outermost scope is never dropped.
func (l *LocalVariableTable) Pop() {
	if len(l.scopes) > 1 {
		l.scopes = l.scopes[:len(l.scopes)-1]
	}
}

// Set binds name in the innermost scope.
func (l *LocalVariableTable) Set(name string, id ir.InstrID) {
	l.scopes[len(l.scopes)-1][name] = id
}

// Get looks name up from the innermost scope outwards.
func (l *LocalVariableTable) Get(name string) (ir.InstrID, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if id, ok := l.scopes[i][name]; ok {
			return id, true
		}
	}
	return 0, false
}

func (l *LocalVariableTable) IsParameter(name string) bool {
	return slices.Contains(l.params, name)
}

// Depth reports the number of open scopes.
func (l *LocalVariableTable) Depth() int {
	return len(l.scopes)
}
