package ast

import "alox/internal/source"

// Span is a byte range in the program's source file.
type Span struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// In attaches the span to a file registered in a source.FileSet.
func (s Span) In(file source.FileID) source.Span {
	return source.Span{File: file, Start: s.Start, End: s.End}
}

// Program is one parsed source file. Path is the namespace the module lives
// in and Name is the module name.
type Program struct {
	Path    []string   `json:"path"`
	Name    string     `json:"name"`
	File    string     `json:"file,omitempty"`
	Imports [][]string `json:"imports,omitempty"`
	Nodes   []*Node    `json:"nodes"`
}

// Node is a top-level declaration, or a member of a struct, actor or trait.
type Node struct {
	Kind NodeKind `json:"kind"`
	Name string   `json:"name"`
	Span Span     `json:"span"`

	// struct, actor, trait
	Members []*Node `json:"members,omitempty"`

	Function *Function `json:"function,omitempty"`
	Variable *Variable `json:"variable,omitempty"`
}

type Function struct {
	Kind   FunctionKind `json:"kind"`
	Params []Param      `json:"params,omitempty"`
	// Return is nil for functions without a declared result (Void) and for
	// behaviours.
	Return *TypeName     `json:"return,omitempty"`
	Body   []*Statement `json:"body,omitempty"`
}

type Param struct {
	Name string   `json:"name"`
	Type TypeName `json:"type"`
	Span Span     `json:"span"`
}

// TypeName is a possibly qualified, possibly generic type reference.
type TypeName struct {
	Path []string   `json:"path,omitempty"`
	Name string     `json:"name"`
	Args []TypeName `json:"args,omitempty"`
}

// Variable is a let/var declaration. Type is optional for locals with a
// Value; a local without a Value must declare its Type.
type Variable struct {
	Name    string      `json:"name"`
	Mutable bool        `json:"mutable,omitempty"`
	Type    *TypeName   `json:"type,omitempty"`
	Value   *Expression `json:"value,omitempty"`
}

type Statement struct {
	Kind StmtKind `json:"kind"`
	Span Span     `json:"span"`

	Variable *Variable   `json:"variable,omitempty"`
	Assign   *Assignment `json:"assign,omitempty"`
	Return   *Return     `json:"return,omitempty"`
	Call     *Expression `json:"call,omitempty"`
	If       *If         `json:"if,omitempty"`
}

type Assignment struct {
	Target *Expression `json:"target"`
	Value  *Expression `json:"value"`
}

// Return carries an optional value; a nil Value is a bare return.
type Return struct {
	Value *Expression `json:"value,omitempty"`
}

// If is an if / else if / else chain. At most one of ElseIf and HasElse is set.
type If struct {
	Cond    *Expression  `json:"cond"`
	Body    []*Statement `json:"body,omitempty"`
	ElseIf  *If          `json:"elseif,omitempty"`
	Else    []*Statement `json:"else,omitempty"`
	HasElse bool         `json:"has_else,omitempty"`
}

type Expression struct {
	Kind ExprKind `json:"kind"`
	Span Span     `json:"span"`

	Bool  bool    `json:"bool,omitempty"`
	Int   int64   `json:"int,omitempty"`
	Float float64 `json:"float,omitempty"`

	Ref    *Reference   `json:"ref,omitempty"`
	Call   *Call        `json:"call,omitempty"`
	Field  *FieldAccess `json:"field,omitempty"`
	Binary *Binary      `json:"binary,omitempty"`

	// New names the struct to allocate.
	New *TypeName `json:"new,omitempty"`
	// Operand is the value of an addressof or the pointer of a deref.
	Operand *Expression `json:"operand,omitempty"`
}

// Reference names a variable or declaration; an empty Path is unqualified.
type Reference struct {
	Path []string `json:"path,omitempty"`
	Name string   `json:"name"`
}

type Call struct {
	Callee *Expression   `json:"callee"`
	Args   []*Expression `json:"args,omitempty"`
}

type FieldAccess struct {
	Value *Expression `json:"value"`
	Name  string      `json:"name"`
}

type Binary struct {
	Op    BinaryOp    `json:"op"`
	Left  *Expression `json:"left"`
	Right *Expression `json:"right"`
}
