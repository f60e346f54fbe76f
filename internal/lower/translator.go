package lower

import (
	"context"
	"strconv"

	"alox/internal/ast"
	"alox/internal/diag"
	"alox/internal/ir"
	"alox/internal/source"
	"alox/internal/symbols"
	"alox/internal/trace"
)

// Translator turns parsed programs into IR modules. It holds no per-program
// state, so one Translator may lower several programs concurrently as long
// as its reporter is safe for concurrent use.
type Translator struct {
	resolver ir.Resolver
	reporter diag.Reporter
}

// NewTranslator creates a Translator. resolver is consulted for nothing that
// must succeed: unresolved names are kept as plain ids.
func NewTranslator(resolver ir.Resolver, reporter diag.Reporter) *Translator {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Translator{resolver: resolver, reporter: reporter}
}

// LowerProgram lowers prog into a new module. Spans are attached to file 0;
// use LowerFile when the program's source is registered in a FileSet.
func (t *Translator) LowerProgram(ctx context.Context, prog *ast.Program) *ir.Module {
	return t.LowerFile(ctx, prog, 0)
}

// LowerFile lowers prog, attaching spans to file. The module is not
// registered; the caller hands it to the symbol table.
func (t *Translator) LowerFile(ctx context.Context, prog *ast.Program, file source.FileID) *ir.Module {
	if prog == nil {
		return nil
	}
	m := &ir.Module{Path: ir.Path(prog.Path).Append(), Name: prog.Name}
	span, ctx := trace.StartSpan(ctx, trace.ScopeModule, "lower:"+m.FullPath().String())
	defer func() {
		span.WithExtra("decls", strconv.Itoa(len(m.Declarations))).End("")
	}()

	ml := &moduleLowering{
		t:         t,
		ctx:       ctx,
		file:      file,
		module:    m,
		full:      m.FullPath(),
		completed: make(map[string]*ir.Declaration),
	}
	for _, node := range prog.Nodes {
		if decl := ml.lowerNode(node); decl != nil {
			m.Declarations = append(m.Declarations, decl)
			ml.completed[decl.Name] = decl
		}
	}
	return m
}

// moduleLowering carries per-program state.
type moduleLowering struct {
	t         *Translator
	ctx       context.Context
	file      source.FileID
	module    *ir.Module
	full      ir.Path
	completed map[string]*ir.Declaration
}

func (ml *moduleLowering) span(s ast.Span) source.Span {
	return s.In(ml.file)
}

func (ml *moduleLowering) lowerNode(node *ast.Node) *ir.Declaration {
	switch node.Kind {
	case ast.NodeFunction:
		return ml.lowerFunction(node, nil)
	case ast.NodeStruct, ast.NodeActor:
		return ml.lowerAggregate(node)
	case ast.NodeTrait:
		trace.Point(ml.ctx, trace.ScopeModule, "skip", "trait body of "+node.Name)
		return &ir.Declaration{Kind: ir.DeclTrait, Name: node.Name, Span: ml.span(node.Span)}
	case ast.NodeVariable:
		trace.Point(ml.ctx, trace.ScopeModule, "skip", "module-level variable "+node.Name)
		return nil
	}
	return nil
}

func (ml *moduleLowering) lowerAggregate(node *ast.Node) *ir.Declaration {
	decl := &ir.Declaration{Kind: ir.DeclStruct, Name: node.Name, Span: ml.span(node.Span)}
	if node.Kind == ast.NodeActor {
		decl.Kind = ir.DeclActor
	}
	for _, member := range node.Members {
		switch member.Kind {
		case ast.NodeVariable:
			v := member.Variable
			if v.Type == nil {
				diag.ReportWarning(ml.t.reporter, diag.LowSkippedNode, ml.span(member.Span),
					"field "+member.Name+" of "+node.Name+" has no declared type").Emit()
				continue
			}
			decl.Members = append(decl.Members, &ir.Declaration{
				Kind:    ir.DeclVariable,
				Name:    member.Name,
				Span:    ml.span(member.Span),
				VarType: ml.typeID(*v.Type),
			})
		case ast.NodeFunction:
			decl.Members = append(decl.Members, ml.lowerFunction(member, node))
		default:
			diag.ReportWarning(ml.t.reporter, diag.LowSkippedNode, ml.span(member.Span),
				member.Kind.String()+" "+member.Name+" cannot be nested in "+node.Kind.String()+" "+node.Name).Emit()
		}
	}
	return decl
}

// typeID converts a type name into a declaration id. Unqualified names that
// are neither builtins nor generic constructors live in the current module.
func (ml *moduleLowering) typeID(tn ast.TypeName) ir.DeclarationID {
	args := make([]ir.DeclarationID, len(tn.Args))
	for i, a := range tn.Args {
		args[i] = ml.typeID(a)
	}
	if len(tn.Path) > 0 {
		return ir.NewID(tn.Path, tn.Name, args...)
	}
	if symbols.IsBuiltin(tn.Name) || symbols.IsGenericConstructor(tn.Name) {
		return ir.NewID(nil, tn.Name, args...)
	}
	return ir.NewID(ml.full, tn.Name, args...)
}

// voidID is the return type of functions without a declared result.
var voidID = ir.NewID(nil, "Void")

func (ml *moduleLowering) lowerFunction(node *ast.Node, owner *ast.Node) *ir.Declaration {
	src := node.Function
	decl := &ir.Declaration{Kind: ir.DeclFunction, Name: node.Name, Span: ml.span(node.Span)}
	if src.Kind == ast.FuncBehaviour {
		decl.Kind = ir.DeclBehaviour
	}

	span, _ := trace.StartSpan(ml.ctx, trace.ScopeFunction, "function:"+node.Name)

	fn := &ir.Function{Return: voidID}
	names := make([]string, len(src.Params))
	for i, p := range src.Params {
		fn.Params = append(fn.Params, ir.Param{Name: p.Name, Type: ml.typeID(p.Type)})
		names[i] = p.Name
	}
	if src.Return != nil && decl.Kind == ir.DeclFunction {
		fn.Return = ml.typeID(*src.Return)
	}

	fl := &funcLowering{
		ml:     ml,
		owner:  owner,
		b:      NewBlockBuilder(),
		locals: NewLocalVariableTable(names),
	}
	fl.lowerStatements(src.Body)
	fn.Blocks = fl.b.Finish(decl.Kind == ir.DeclBehaviour || fn.Return.Equal(voidID))
	decl.Function = fn

	span.WithExtra("blocks", strconv.Itoa(len(fn.Blocks))).
		WithExtra("instrs", strconv.Itoa(fl.b.InstrCount())).
		End("")
	return decl
}
