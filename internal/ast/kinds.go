package ast

import "fmt"

// kindNames maps a kind enum to its serialized spelling.
type kindNames[K ~uint8] []string

func (n kindNames[K]) name(k K) string {
	if int(k) < len(n) {
		return n[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func (n kindNames[K]) parse(what string, text []byte) (K, error) {
	s := string(text)
	for i, name := range n {
		if name == s {
			return K(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s kind %q", what, s)
}

type NodeKind uint8

const (
	NodeStruct NodeKind = iota
	NodeActor
	NodeTrait
	NodeFunction
	NodeVariable
)

var nodeKindNames = kindNames[NodeKind]{"struct", "actor", "trait", "function", "variable"}

func (k NodeKind) String() string               { return nodeKindNames.name(k) }
func (k NodeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *NodeKind) UnmarshalText(text []byte) (err error) {
	*k, err = nodeKindNames.parse("node", text)
	return err
}

type FunctionKind uint8

const (
	FuncFunction FunctionKind = iota
	FuncBehaviour
)

var functionKindNames = kindNames[FunctionKind]{"function", "behaviour"}

func (k FunctionKind) String() string               { return functionKindNames.name(k) }
func (k FunctionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *FunctionKind) UnmarshalText(text []byte) (err error) {
	*k, err = functionKindNames.parse("function", text)
	return err
}

type StmtKind uint8

const (
	StmtVariable StmtKind = iota
	StmtAssign
	StmtReturn
	StmtCall
	StmtIf
)

var stmtKindNames = kindNames[StmtKind]{"variable", "assign", "return", "call", "if"}

func (k StmtKind) String() string               { return stmtKindNames.name(k) }
func (k StmtKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *StmtKind) UnmarshalText(text []byte) (err error) {
	*k, err = stmtKindNames.parse("statement", text)
	return err
}

type ExprKind uint8

const (
	ExprBool ExprKind = iota
	ExprInt
	ExprFloat
	ExprRef
	ExprCall
	ExprField
	ExprBinary
	ExprNew
	ExprAddressOf
	ExprDeref
)

var exprKindNames = kindNames[ExprKind]{"bool", "int", "float", "ref", "call", "field", "binary", "new", "addressof", "deref"}

func (k ExprKind) String() string               { return exprKindNames.name(k) }
func (k ExprKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *ExprKind) UnmarshalText(text []byte) (err error) {
	*k, err = exprKindNames.parse("expression", text)
	return err
}

// BinaryOp is spelled the way it appears in source: + - * /.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

var binaryOpNames = kindNames[BinaryOp]{"+", "-", "*", "/"}

func (op BinaryOp) String() string               { return binaryOpNames.name(op) }
func (op BinaryOp) MarshalText() ([]byte, error) { return []byte(op.String()), nil }
func (op *BinaryOp) UnmarshalText(text []byte) (err error) {
	*op, err = binaryOpNames.parse("binary operator", text)
	return err
}
