// Package compiler threads a PL/0 source file through every middle- and
// back-end pass in the fixed pipeline order spec §5 mandates: constant
// folding, CFG construction, three-address lowering, call-graph
// closure, stack layout, liveness, spill insertion, register coloring,
// and MIPS emission. It replaces the ad hoc module-level globals the
// Design Notes call out with one explicit context struct carried
// through the whole run, the way the teacher's ir.Builder threads state
// instead of package variables.
package compiler

import (
	"fmt"
	"os"

	"github.com/segmentio/ksuid"

	"plc/grammar"
	"plc/internal/ast"
	"plc/internal/callgraph"
	"plc/internal/cfg"
	"plc/internal/codegen"
	"plc/internal/errors"
	"plc/internal/ir"
	"plc/internal/layout"
	"plc/internal/liveness"
	"plc/internal/lower"
	"plc/internal/regalloc"
	"plc/internal/symtab"
	"plc/internal/types"
)

// Context carries every artifact the pipeline produces, so that a
// caller (the CLI, the LSP, a test) can inspect intermediate state
// without re-running earlier passes.
type Context struct {
	Filename string
	Types    *types.Registry

	Program   *ast.Program
	CFG       *ast.CFG
	CallGraph *callgraph.Graph
	Layout    *layout.Layout
	Liveness  *liveness.Graph
	RegAlloc  map[*symtab.Symbol]*regalloc.Graph
	Assembly  string
}

// CompileFile reads path, parses it, and runs the full pipeline,
// returning the populated Context or the first error any pass reports.
func CompileFile(path string) (*Context, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceUnreadable(path, err)
	}
	prog, err := grammar.ParseSource(path, string(source))
	if err != nil {
		return nil, err
	}
	return Compile(path, prog)
}

// Compile runs the pipeline over an already-parsed grammar tree.
func Compile(filename string, prog *grammar.Program) (*Context, error) {
	ctx := &Context{Filename: filename, Types: types.NewRegistry()}

	builder := ir.NewBuilder(filename, ctx.Types)
	program, err := builder.Build(prog)
	if err != nil {
		return nil, err
	}
	ctx.Program = program

	if err := ir.FoldConstants(ctx.Program); err != nil {
		return nil, err
	}

	graph, err := cfg.Build(ctx.Program, ctx.Types)
	if err != nil {
		return nil, err
	}
	ctx.CFG = graph

	lower.Build(ctx.Program, ctx.CFG, ctx.Types)

	ctx.CallGraph = callgraph.Build(ctx.Program, ctx.CFG)
	ctx.Layout = layout.Build(ctx.Program, ctx.CallGraph)
	ctx.Liveness = liveness.Build(ctx.Program, ctx.CFG)
	liveness.InsertSpills(ctx.Liveness, ctx.CFG)

	positions := procedurePositions(ctx.Program)
	regGraphs, err := regalloc.AllocateAll(ctx.Program, ctx.Liveness, positions)
	if err != nil {
		return nil, err
	}
	ctx.RegAlloc = regGraphs

	body := codegen.New(ctx.Program, ctx.CFG, ctx.Layout).Emit()
	ctx.Assembly = fmt.Sprintf("; plc compiled %s, run %s\n%s", filename, ksuid.New().String(), body)
	return ctx, nil
}

// WriteAssembly writes the compiled assembly to path, wrapping any I/O
// failure as an errors.OutputUnwritable diagnostic.
func (c *Context) WriteAssembly(path string) error {
	if err := os.WriteFile(path, []byte(c.Assembly), 0o644); err != nil {
		return errors.OutputUnwritable(path, err)
	}
	return nil
}

func procedurePositions(prog *ast.Program) map[*symtab.Symbol]ast.Position {
	out := make(map[*symtab.Symbol]ast.Position)
	var visit func(owner *symtab.Symbol, blk *ast.Block)
	visit = func(owner *symtab.Symbol, blk *ast.Block) {
		out[owner] = blk.Position
		for _, def := range blk.Defs {
			out[def.Symbol] = def.Position
			visit(def.Symbol, def.Body)
		}
	}
	visit(prog.Global, prog.Body)
	return out
}

// String renders a short human-readable summary of the compiled
// program's shape: the file name and its number of procedures.
func (c *Context) String() string {
	return fmt.Sprintf("%s: %d procedure(s)", c.Filename, len(c.CallGraph.Order))
}
