package ir

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Print writes a human-readable form of m. Declaration references that do
// not resolve through r are suffixed with '*'.
func Print(w io.Writer, r Resolver, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	_, err := io.WriteString(w, Sprint(r, m))
	return err
}

// Sprint renders m the same way Print does.
func Sprint(r Resolver, m *Module) string {
	if m == nil {
		return ""
	}
	p := printer{r: r}
	fmt.Fprintf(&p.b, "; Module: %s\n", m.FullPath())
	for _, d := range m.Declarations {
		p.decl(d, 0)
	}
	return p.b.String()
}

type printer struct {
	b strings.Builder
	r Resolver
}

func (p *printer) line(depth int, format string, args ...any) {
	p.b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) typeName(id DeclarationID) string {
	return ResolveType(p.r, id).Name()
}

func (p *printer) decl(d *Declaration, depth int) {
	if d == nil {
		return
	}
	switch d.Kind {
	case DeclFunction, DeclBehaviour:
		p.function(d, depth)
	case DeclStruct, DeclActor:
		p.line(depth, "%s %s:", d.Kind, d.Name)
		for _, m := range d.Members {
			p.decl(m, depth+1)
		}
	case DeclVariable:
		p.line(depth, "let %s: %s", d.Name, p.typeName(d.VarType))
	case DeclTrait:
		p.line(depth, "trait %s", d.Name)
	case DeclType:
		p.line(depth, "type %s = %s", d.Name, d.TypeOf(p.r).Name())
	}
}

func (p *printer) function(d *Declaration, depth int) {
	fn := d.Function
	if fn == nil {
		return
	}
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%%%s: %s", param.Name, p.typeName(param.Type))
	}
	if d.Kind == DeclBehaviour {
		p.line(depth, "behaviour @%s(%s):", d.Name, strings.Join(params, ", "))
	} else {
		p.line(depth, "fun @%s(%s) -> %s:", d.Name, strings.Join(params, ", "), p.typeName(fn.Return))
	}
	env := fn.env(p.r, false)
	for i := range fn.Blocks {
		bb := &fn.Blocks[i]
		p.line(depth+1, "block#%d:", bb.ID)
		for j := range bb.Instrs {
			p.line(depth+2, "%s", p.instr(env, &bb.Instrs[j]))
		}
	}
}

func (p *printer) instr(env instrEnv, ins *Instr) string {
	switch ins.Kind {
	case InstrStore:
		return fmt.Sprintf("store %%%d in %%%d", ins.Store.Value, ins.Store.Ptr)
	case InstrReturn:
		if ins.Return.HasValue {
			return fmt.Sprintf("ret %%%d", ins.Return.Value)
		}
		return "ret"
	case InstrJump:
		return fmt.Sprintf("jump block#%d", ins.Jump.Target)
	case InstrBranch:
		return fmt.Sprintf("branch %%%d block#%d block#%d", ins.Branch.Cond, ins.Branch.Then, ins.Branch.Else)
	case InstrUnreachable:
		if ins.Unreachable.Reason == "" {
			return "unreachable"
		}
		return "unreachable " + strconv.Quote(ins.Unreachable.Reason)
	}
	typ := env.typeOf(ins)
	return fmt.Sprintf("%%%d : %s = %s", ins.ID, typ.Name(), p.value(env, ins))
}

func (p *printer) value(env instrEnv, ins *Instr) string {
	switch ins.Kind {
	case InstrBool:
		return strconv.FormatBool(ins.Bool.Value)
	case InstrInt:
		return strconv.FormatInt(ins.Int.Value, 10)
	case InstrFloat:
		return strconv.FormatFloat(ins.Float.Value, 'g', -1, 64)
	case InstrDeclRef:
		ref := "@" + ins.DeclRef.Decl.String()
		if p.r == nil {
			return ref + "*"
		}
		if _, ok := p.r.Resolve(ins.DeclRef.Decl); !ok {
			return ref + "*"
		}
		return ref
	case InstrParam:
		return "param %" + ins.Param.Name
	case InstrCall:
		args := make([]string, len(ins.Call.Args))
		for i, a := range ins.Call.Args {
			args[i] = fmt.Sprintf("%%%d", a)
		}
		return fmt.Sprintf("%%%d(%s)", ins.Call.Callee, strings.Join(args, ", "))
	case InstrAlloca:
		if !ins.Alloca.Type.IsZero() {
			return "alloca " + p.typeName(ins.Alloca.Type)
		}
		return "alloca " + env.operand(ins.Alloca.Value).Name()
	case InstrNew:
		return "new " + p.typeName(ins.New.Type)
	case InstrAddressOf:
		return fmt.Sprintf("&%%%d", ins.AddressOf.Value)
	case InstrDeref:
		return fmt.Sprintf("*%%%d", ins.Deref.Ptr)
	case InstrLoad:
		return fmt.Sprintf("load %%%d", ins.Load.Ptr)
	case InstrGetField:
		return fmt.Sprintf("%%%d.%s", ins.GetField.Value, ins.GetField.Field)
	case InstrBinary:
		return fmt.Sprintf("%%%d %s %%%d", ins.Binary.Left, ins.Binary.Op, ins.Binary.Right)
	}
	return ins.Kind.String()
}
