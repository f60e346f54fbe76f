package ast

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Normalize rewrites every identifier to Unicode NFC so that names spelled
// with different code point sequences produce equal declaration ids. It also
// marks if statements that carry an else body.
func (p *Program) Normalize() {
	if p == nil {
		return
	}
	normSlice(p.Path)
	p.Name = nfc(p.Name)
	for _, imp := range p.Imports {
		normSlice(imp)
	}
	for _, n := range p.Nodes {
		n.normalize()
	}
}

func nfc(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func normSlice(xs []string) {
	for i := range xs {
		xs[i] = nfc(xs[i])
	}
}

func (n *Node) normalize() {
	if n == nil {
		return
	}
	n.Name = nfc(n.Name)
	for _, m := range n.Members {
		m.normalize()
	}
	if n.Variable != nil {
		n.Variable.normalize()
	}
	if fn := n.Function; fn != nil {
		for i := range fn.Params {
			fn.Params[i].Name = nfc(fn.Params[i].Name)
			fn.Params[i].Type.normalize()
		}
		if fn.Return != nil {
			fn.Return.normalize()
		}
		normStatements(fn.Body)
	}
}

func (t *TypeName) normalize() {
	normSlice(t.Path)
	t.Name = nfc(t.Name)
	for i := range t.Args {
		t.Args[i].normalize()
	}
}

func (v *Variable) normalize() {
	v.Name = nfc(v.Name)
	if v.Type != nil {
		v.Type.normalize()
	}
	v.Value.normalize()
}

func normStatements(stmts []*Statement) {
	for _, s := range stmts {
		if s == nil {
			continue
		}
		if s.Variable != nil {
			s.Variable.normalize()
		}
		if s.Assign != nil {
			s.Assign.Target.normalize()
			s.Assign.Value.normalize()
		}
		if s.Return != nil {
			s.Return.Value.normalize()
		}
		s.Call.normalize()
		s.If.normalize()
	}
}

func (i *If) normalize() {
	for ; i != nil; i = i.ElseIf {
		i.Cond.normalize()
		normStatements(i.Body)
		if i.Else != nil {
			i.HasElse = true
			normStatements(i.Else)
		}
	}
}

func (e *Expression) normalize() {
	if e == nil {
		return
	}
	if e.Ref != nil {
		normSlice(e.Ref.Path)
		e.Ref.Name = nfc(e.Ref.Name)
	}
	if e.Call != nil {
		e.Call.Callee.normalize()
		for _, a := range e.Call.Args {
			a.normalize()
		}
	}
	if e.Field != nil {
		e.Field.Value.normalize()
		e.Field.Name = nfc(e.Field.Name)
	}
	if e.Binary != nil {
		e.Binary.Left.normalize()
		e.Binary.Right.normalize()
	}
	if e.New != nil {
		e.New.normalize()
	}
	e.Operand.normalize()
}

// Validate rejects programs whose nodes lack the payload their kind needs.
// Lowering never sees a partial tree.
func (p *Program) Validate() error {
	if p == nil {
		return ErrNoProgram
	}
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("program has no module name"))
	}
	for i, n := range p.Nodes {
		if err := n.validate(); err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (n *Node) validate() error {
	if n == nil {
		return errors.New("nil node")
	}
	if n.Name == "" {
		return fmt.Errorf("%s without a name", n.Kind)
	}
	switch n.Kind {
	case NodeFunction:
		if n.Function == nil {
			return fmt.Errorf("function %s: missing function payload", n.Name)
		}
		if err := validateStatements(n.Function.Body); err != nil {
			return fmt.Errorf("function %s: %w", n.Name, err)
		}
	case NodeVariable:
		if n.Variable == nil {
			return fmt.Errorf("variable %s: missing variable payload", n.Name)
		}
	case NodeStruct, NodeActor, NodeTrait:
		var errs []error
		for _, m := range n.Members {
			if err := m.validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", n.Kind, n.Name, err))
			}
		}
		return errors.Join(errs...)
	}
	return nil
}

func validateStatements(stmts []*Statement) error {
	for i, s := range stmts {
		if s == nil {
			return fmt.Errorf("statement %d: nil", i)
		}
		var err error
		switch s.Kind {
		case StmtVariable:
			switch {
			case s.Variable == nil:
				err = errors.New("missing variable payload")
			case s.Variable.Value != nil:
				err = s.Variable.Value.validate()
			case s.Variable.Type == nil:
				err = fmt.Errorf("variable %s has neither a type nor an initializer", s.Variable.Name)
			}
		case StmtAssign:
			if s.Assign == nil {
				err = errors.New("missing assignment payload")
			} else {
				err = errors.Join(s.Assign.Target.validate(), s.Assign.Value.validate())
			}
		case StmtReturn:
			if s.Return != nil && s.Return.Value != nil {
				err = s.Return.Value.validate()
			}
		case StmtCall:
			if s.Call == nil || s.Call.Kind != ExprCall {
				err = errors.New("call statement without call expression")
			} else {
				err = s.Call.validate()
			}
		case StmtIf:
			err = s.If.validate()
		}
		if err != nil {
			return fmt.Errorf("statement %d (%s): %w", i, s.Kind, err)
		}
	}
	return nil
}

func (i *If) validate() error {
	if i == nil {
		return errors.New("missing if payload")
	}
	for ; i != nil; i = i.ElseIf {
		if i.ElseIf != nil && i.HasElse {
			return errors.New("if has both else-if and else")
		}
		if err := i.Cond.validate(); err != nil {
			return err
		}
		if err := validateStatements(i.Body); err != nil {
			return err
		}
		if err := validateStatements(i.Else); err != nil {
			return err
		}
	}
	return nil
}

func (e *Expression) validate() error {
	if e == nil {
		return errors.New("missing expression")
	}
	switch e.Kind {
	case ExprRef:
		if e.Ref == nil || e.Ref.Name == "" {
			return errors.New("reference without a name")
		}
	case ExprCall:
		if e.Call == nil {
			return errors.New("missing call payload")
		}
		errs := []error{e.Call.Callee.validate()}
		for _, a := range e.Call.Args {
			errs = append(errs, a.validate())
		}
		return errors.Join(errs...)
	case ExprField:
		if e.Field == nil || e.Field.Name == "" {
			return errors.New("field access without a field")
		}
		return e.Field.Value.validate()
	case ExprBinary:
		if e.Binary == nil {
			return errors.New("missing binary payload")
		}
		return errors.Join(e.Binary.Left.validate(), e.Binary.Right.validate())
	case ExprNew:
		if e.New == nil || e.New.Name == "" {
			return errors.New("new without a type")
		}
	case ExprAddressOf, ExprDeref:
		if e.Operand == nil {
			return fmt.Errorf("%s without an operand", e.Kind)
		}
		return e.Operand.validate()
	}
	return nil
}
