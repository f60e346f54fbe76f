package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"alox/internal/ast"
	"alox/internal/diag"
	"alox/internal/ir"
	"alox/internal/lower"
	"alox/internal/observ"
	"alox/internal/pass"
	"alox/internal/project"
	"alox/internal/source"
	"alox/internal/symbols"
	"alox/internal/trace"
)

// Request describes one compilation.
type Request struct {
	// Files are parser output files (.json or .msgpack).
	Files []string
	// Jobs limits parallel lowering; 0 means GOMAXPROCS.
	Jobs int
	// Optimize runs dead-block removal and the resolution check before the
	// semantic checks.
	Optimize bool
	// Reachability additionally removes blocks unreachable from the entry.
	Reachability   bool
	MaxDiagnostics int

	// Cache, when set, stores and reuses lowered modules.
	Cache    *DiskCache
	Progress ProgressSink
	Timer    *observ.Timer
}

// ModuleResult is the outcome for one input file, in request order.
type ModuleResult struct {
	File   string
	Source source.FileID
	Module *ir.Module
	ID     symbols.ModuleID
	Cached bool
	// Failed is set when the file could not be read or decoded; Module is
	// nil then.
	Failed bool

	// diags holds the lowering diagnostics until they are merged into the
	// result in request order.
	diags *diag.Bag
}

type Result struct {
	FileSet *source.FileSet
	Table   *symbols.Table
	Modules []ModuleResult
	Bag     *diag.Bag
}

// HasErrors reports whether any error diagnostic was produced.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// Compile lowers every file in parallel, registering each module in a shared
// symbol table as soon as it is lowered, then runs the passes over all
// modules once every registration is done.
//
// Problems in the input are diagnostics. The returned error is reserved for
// cancellation and for duplicate declarations, which abort the build.
func Compile(ctx context.Context, req Request) (*Result, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "compile")
	defer span.WithExtra("files", strconv.Itoa(len(req.Files))).End("")

	sink := req.Progress
	if sink == nil {
		sink = nopSink{}
	}
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	res := &Result{
		FileSet: source.NewFileSet(),
		Table:   symbols.NewTable(),
		Modules: make([]ModuleResult, len(req.Files)),
		Bag:     diag.NewBag(req.MaxDiagnostics),
	}
	for i, path := range req.Files {
		res.Modules[i].File = path
		sink.OnEvent(Event{File: path, Stage: StageDecode, Status: StatusQueued})
	}

	c := &compilation{
		req:      req,
		res:      res,
		sink:     sink,
		reporter: diag.NewLockedReporter(diag.BagReporter{Bag: res.Bag}),
	}

	endLower := req.Timer.Track("lower")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(req.Files))))
	for i := range req.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return c.module(gctx, i)
		})
	}
	err := g.Wait()
	endLower(strconv.Itoa(len(res.Table.Modules())) + " modules")
	if err != nil {
		return res, err
	}

	// Lowering diagnostics are merged in request order so that output does
	// not depend on scheduling.
	for i := range res.Modules {
		res.Bag.Merge(res.Modules[i].diags)
		res.Modules[i].diags = nil
	}

	endPasses := req.Timer.Track("passes")
	start := time.Now()
	sink.OnEvent(Event{Stage: StagePasses, Status: StatusWorking})
	pm := pass.Default()
	if req.Optimize {
		pm = pass.Optimize(req.Reachability)
	}
	pm.Apply(ctx, res.Table, diag.BagReporter{Bag: res.Bag})
	sink.OnEvent(Event{Stage: StagePasses, Status: StatusDone, Elapsed: time.Since(start)})
	endPasses(strings.Join(pm.Names(), ","))

	// Several checks report at the declaration span, so one declaration may
	// produce the same diagnostic more than once.
	res.Bag.Dedup()
	res.Bag.Sort()
	return res, nil
}

type compilation struct {
	req      Request
	res      *Result
	sink     ProgressSink
	reporter diag.Reporter

	fsMu sync.Mutex
}

// module handles input i. Only a duplicate declaration or cancellation
// returns an error.
func (c *compilation) module(ctx context.Context, i int) (err error) {
	mr := &c.res.Modules[i]
	path := mr.File
	start := time.Now()
	fail := func(stage Stage, code diag.Code, cause error) {
		mr.Failed = true
		diag.ReportError(c.reporter, code, source.Span{}, fmt.Sprintf("%s: %v", path, cause)).Unlocated().Emit()
		c.sink.OnEvent(Event{File: path, Stage: stage, Status: StatusError, Err: cause, Elapsed: time.Since(start)})
	}

	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "module:"+filepath.Base(path))
	defer func() { span.End(string(c.status(mr))) }()

	c.sink.OnEvent(Event{File: path, Stage: StageDecode, Status: StatusWorking})
	// #nosec G304 -- path comes from the project manifest or the command line
	content, err := os.ReadFile(path)
	if err != nil {
		fail(StageDecode, diag.IOLoadFileError, err)
		return nil
	}

	var payload DiskPayload
	var key project.Digest
	if c.req.Cache != nil {
		key = c.req.Cache.Key(content)
		hit, err := c.req.Cache.Get(key, &payload)
		if err != nil {
			diag.ReportWarning(c.reporter, diag.IOCacheError, source.Span{},
				fmt.Sprintf("%s: ignoring cache entry: %v", path, err)).Unlocated().Emit()
		}
		if hit {
			mr.Source = c.registerSource(payload.Source, path)
			payload.rebase(mr.Source)
			mr.Module = payload.Module
			mr.diags = diag.NewBag(0)
			for _, d := range payload.Diagnostics {
				mr.diags.Add(d)
			}
			mr.Cached = true
		}
	}

	if mr.Module == nil {
		prog, err := ast.Decode(bytes.NewReader(content), ast.FormatFromPath(path))
		if err != nil {
			fail(StageDecode, diag.IODecodeError, err)
			return nil
		}
		c.sink.OnEvent(Event{File: path, Stage: StageLower, Status: StatusWorking})
		mr.Source = c.registerSource(prog.File, path)

		mr.diags = diag.NewBag(c.req.MaxDiagnostics)
		tr := lower.NewTranslator(c.res.Table, diag.BagReporter{Bag: mr.diags})
		mr.Module = tr.LowerFile(ctx, prog, mr.Source)

		if c.req.Cache != nil {
			err := c.req.Cache.Put(key, &DiskPayload{Source: prog.File, Module: mr.Module, Diagnostics: mr.diags.Items()})
			if err != nil {
				diag.ReportWarning(c.reporter, diag.IOCacheError, source.Span{},
					fmt.Sprintf("%s: cannot write cache entry: %v", path, err)).Unlocated().Emit()
			}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			var dup *symbols.DuplicateDeclarationError
			if e, ok := r.(error); ok && errors.As(e, &dup) {
				mr.Failed = true
				err = fmt.Errorf("%s: %w", path, dup)
				return
			}
			panic(r)
		}
	}()
	mr.ID = c.res.Table.RegisterModule(mr.Module)

	c.sink.OnEvent(Event{File: path, Stage: StageLower, Status: c.status(mr), Elapsed: time.Since(start)})
	return nil
}

func (c *compilation) status(mr *ModuleResult) Status {
	switch {
	case mr.Failed:
		return StatusError
	case mr.Cached:
		return StatusCached
	case mr.ID.IsValid():
		return StatusDone
	default:
		return StatusWorking
	}
}

// registerSource adds the program's source file to the file set, so that
// diagnostics can quote it. A relative name is taken relative to the parser
// output file; a source that cannot be read is registered without content.
func (c *compilation) registerSource(name, input string) source.FileID {
	c.fsMu.Lock()
	defer c.fsMu.Unlock()
	fs := c.res.FileSet
	if name == "" {
		return fs.AddVirtual(input, nil)
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(input), path)
	}
	if id, ok := fs.Lookup(path); ok {
		return id
	}
	if id, err := fs.Load(path); err == nil {
		return id
	}
	return fs.AddVirtual(path, nil)
}
