// Package ir converts the raw, name-based parse tree grammar hands back
// into the tagged internal/ast IR, resolving every identifier to a
// internal/symtab.Symbol as it walks the tree and building the symbol
// table tree alongside it (spec §3 "AST / IR node", §4.1 "Symbol Table
// Tree"). It is the only pass that can fail with a semantic diagnostic;
// everything after it operates on an already-resolved tree.
package ir

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"plc/grammar"
	"plc/internal/ast"
	"plc/internal/errors"
	"plc/internal/symtab"
	"plc/internal/types"
)

// Builder walks a *grammar.Program and produces a *ast.Program, binding
// every name to a symtab.Symbol along the way.
type Builder struct {
	filename string
	types    *types.Registry
}

// NewBuilder creates a Builder that reports positions under filename and
// resolves built-in types through reg.
func NewBuilder(filename string, reg *types.Registry) *Builder {
	return &Builder{filename: filename, types: reg}
}

// Build converts the whole parse tree into an ast.Program, returning the
// first semantic error encountered (undefined identifier, assignment to
// a constant, call of a non-procedure) per spec §7 "Semantic": these are
// fatal and there is no recovery.
func (b *Builder) Build(prog *grammar.Program) (*ast.Program, error) {
	global := &symtab.Symbol{Name: "global", Type: b.types.Function(), IsProcedure: true}
	root := symtab.NewTable(nil, global)

	body, err := b.buildBlock(prog.Block, root, global)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Global: global, Body: body}, nil
}

func (b *Builder) pos(lp lexer.Position) ast.Position {
	return ast.Position{Filename: b.filename, Line: lp.Line, Column: lp.Column}
}

// buildBlock builds one lexical scope: its own symbol table (nested
// inside parent), its const/var declarations, its nested procedures, and
// its statement body.
func (b *Builder) buildBlock(raw *grammar.Block, parent *symtab.Table, owner *symtab.Symbol) (*ast.Block, error) {
	scope := symtab.NewTable(parent, owner)

	for _, c := range raw.Consts {
		if scope.LookupLocal(c.Name) != nil {
			return nil, errors.DuplicateDeclaration(c.Name, b.pos(c.Pos))
		}
		value := c.Value
		scope.Define(&symtab.Symbol{Name: c.Name, Type: b.types.Int(), Value: &value, Level: owner})
	}
	for _, v := range raw.Vars {
		if scope.LookupLocal(v.Name) != nil {
			return nil, errors.DuplicateDeclaration(v.Name, b.pos(v.Pos))
		}
		scope.Define(&symtab.Symbol{Name: v.Name, Type: b.types.Int(), Level: owner})
	}

	// Nested procedures are visible in this scope (so siblings and the
	// parent can call them) but each gets its own child scope for its body.
	var defs []*ast.FunctionDef
	for _, p := range raw.Procedures {
		if scope.LookupLocal(p.Name) != nil {
			return nil, errors.DuplicateDeclaration(p.Name, b.pos(p.Pos))
		}
		procSym := &symtab.Symbol{Name: p.Name, Type: b.types.Function(), IsProcedure: true, Level: owner}
		scope.Define(procSym)

		procBody, err := b.buildBlock(p.Block, scope, procSym)
		if err != nil {
			return nil, err
		}
		defs = append(defs, &ast.FunctionDef{Position: b.pos(p.Pos), Symbol: procSym, Body: procBody})
	}

	stat, err := b.buildStat(raw.Stat, scope)
	if err != nil {
		return nil, err
	}

	var stats []ast.Stat
	if sl, ok := stat.(*ast.StatList); ok {
		stats = sl.Stats
	} else {
		stats = []ast.Stat{stat}
	}

	return &ast.Block{
		Position:    b.pos(raw.Pos),
		LocalSymtab: scope,
		Defs:        defs,
		Body:        &ast.StatList{Position: b.pos(raw.Pos), Stats: stats},
	}, nil
}

// buildStat converts a single (possibly nil) grammar statement into an
// ast.Stat. A nil raw statement (an empty block body) becomes a NopStat.
func (b *Builder) buildStat(raw *grammar.Statement, scope *symtab.Table) (ast.Stat, error) {
	if raw == nil {
		return &ast.NopStat{}, nil
	}

	switch {
	case raw.Assign != nil:
		return b.buildAssign(raw.Assign, scope)
	case raw.Call != nil:
		return b.buildCall(raw.Call, scope)
	case raw.Compound != nil:
		return b.buildCompound(raw.Compound, scope)
	case raw.If != nil:
		return b.buildIf(raw.If, scope)
	case raw.While != nil:
		return b.buildWhile(raw.While, scope)
	case raw.Print != nil:
		return b.buildPrint(raw.Print, scope)
	case raw.Input != nil:
		return b.buildInput(raw.Input, scope)
	default:
		return &ast.NopStat{Position: b.pos(raw.Pos)}, nil
	}
}

func (b *Builder) buildAssign(raw *grammar.AssignStmt, scope *symtab.Table) (ast.Stat, error) {
	sym := scope.Find(raw.Name)
	if sym == nil {
		return nil, errors.UndefinedIdentifier(raw.Name, b.pos(raw.Pos), b.suggest(raw.Name, scope))
	}
	if sym.IsConst() {
		return nil, errors.AssignToConstant(raw.Name, b.pos(raw.Pos))
	}
	if sym.IsProcedure {
		return nil, errors.CallNonProcedure(raw.Name, b.pos(raw.Pos))
	}
	expr, err := b.buildExpr(raw.Expr, scope)
	if err != nil {
		return nil, err
	}
	target := &ast.Var{Position: b.pos(raw.Pos), Symbol: sym, Enclosing: scope}
	return &ast.AssignStat{Position: b.pos(raw.Pos), Target: target, Expr: expr}, nil
}

func (b *Builder) buildCall(raw *grammar.CallStmt, scope *symtab.Table) (ast.Stat, error) {
	sym := scope.Find(raw.Name)
	if sym == nil {
		return nil, errors.UndefinedIdentifier(raw.Name, b.pos(raw.Pos), b.suggest(raw.Name, scope))
	}
	if !sym.IsProcedure {
		return nil, errors.CallNonProcedure(raw.Name, b.pos(raw.Pos))
	}
	return &ast.CallStat{Position: b.pos(raw.Pos), Callee: sym}, nil
}

func (b *Builder) buildCompound(raw *grammar.Compound, scope *symtab.Table) (ast.Stat, error) {
	var stats []ast.Stat
	for _, s := range raw.Stats {
		st, err := b.buildStat(s, scope)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	if len(stats) == 0 {
		stats = []ast.Stat{&ast.NopStat{Position: b.pos(raw.Pos)}}
	}
	return &ast.StatList{Position: b.pos(raw.Pos), Stats: stats}, nil
}

func (b *Builder) buildIf(raw *grammar.IfStmt, scope *symtab.Table) (ast.Stat, error) {
	cond, err := b.buildCond(raw.Cond, scope)
	if err != nil {
		return nil, err
	}
	then, err := b.buildStat(raw.Then, scope)
	if err != nil {
		return nil, err
	}
	var elseStat ast.Stat
	if raw.Else != nil {
		elseStat, err = b.buildStat(raw.Else, scope)
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStat{Position: b.pos(raw.Pos), Cond: cond, Then: then, Else: elseStat}, nil
}

func (b *Builder) buildWhile(raw *grammar.WhileStmt, scope *symtab.Table) (ast.Stat, error) {
	cond, err := b.buildCond(raw.Cond, scope)
	if err != nil {
		return nil, err
	}
	body, err := b.buildStat(raw.Body, scope)
	if err != nil {
		return nil, err
	}
	return &ast.WhileStat{Position: b.pos(raw.Pos), Cond: cond, Body: body}, nil
}

func (b *Builder) buildPrint(raw *grammar.PrintStmt, scope *symtab.Table) (ast.Stat, error) {
	sym := scope.Find(raw.Name)
	if sym == nil {
		return nil, errors.UndefinedIdentifier(raw.Name, b.pos(raw.Pos), b.suggest(raw.Name, scope))
	}
	v := &ast.Var{Position: b.pos(raw.Pos), Symbol: sym, Enclosing: scope}
	return &ast.PrintStat{Position: b.pos(raw.Pos), Sym: v}, nil
}

func (b *Builder) buildInput(raw *grammar.InputStmt, scope *symtab.Table) (ast.Stat, error) {
	sym := scope.Find(raw.Name)
	if sym == nil {
		return nil, errors.UndefinedIdentifier(raw.Name, b.pos(raw.Pos), b.suggest(raw.Name, scope))
	}
	if sym.IsConst() {
		return nil, errors.AssignToConstant(raw.Name, b.pos(raw.Pos))
	}
	v := &ast.Var{Position: b.pos(raw.Pos), Symbol: sym, Enclosing: scope}
	return &ast.InputStat{Position: b.pos(raw.Pos), Sym: v}, nil
}

func (b *Builder) buildCond(raw *grammar.Condition, scope *symtab.Table) (ast.Expr, error) {
	if raw.Odd != nil {
		arg, err := b.buildExpr(raw.Odd.Expr, scope)
		if err != nil {
			return nil, err
		}
		return &ast.UnExpr{Position: b.pos(raw.Pos), Op: ast.OpOdd, Arg: arg}, nil
	}
	lhs, err := b.buildExpr(raw.Rel.Lhs, scope)
	if err != nil {
		return nil, err
	}
	rhs, err := b.buildExpr(raw.Rel.Rhs, scope)
	if err != nil {
		return nil, err
	}
	return &ast.BinExpr{Position: b.pos(raw.Pos), Op: relOp(raw.Rel.Op), Lhs: lhs, Rhs: rhs}, nil
}

func relOp(op string) ast.BinOp {
	switch op {
	case "=":
		return ast.OpEql
	case "<>":
		return ast.OpNeq
	case "<":
		return ast.OpLss
	case "<=":
		return ast.OpLeq
	case ">":
		return ast.OpGtr
	case ">=":
		return ast.OpGeq
	default:
		return ast.OpEql
	}
}

func (b *Builder) buildExpr(raw *grammar.Expression, scope *symtab.Table) (ast.Expr, error) {
	term, err := b.buildTerm(raw.First, scope)
	if err != nil {
		return nil, err
	}
	var expr ast.Expr = term
	switch raw.Sign {
	case "-":
		expr = &ast.UnExpr{Position: b.pos(raw.Pos), Op: ast.OpUMinus, Arg: expr}
	case "+":
		expr = &ast.UnExpr{Position: b.pos(raw.Pos), Op: ast.OpUPlus, Arg: expr}
	}
	for _, rest := range raw.Rest {
		rhs, err := b.buildTerm(rest.Term, scope)
		if err != nil {
			return nil, err
		}
		op := ast.OpPlus
		if rest.Op == "-" {
			op = ast.OpMinus
		}
		expr = &ast.BinExpr{Position: b.pos(rest.Pos), Op: op, Lhs: expr, Rhs: rhs}
	}
	return expr, nil
}

func (b *Builder) buildTerm(raw *grammar.Term, scope *symtab.Table) (ast.Expr, error) {
	factor, err := b.buildFactor(raw.First, scope)
	if err != nil {
		return nil, err
	}
	expr := factor
	for _, rest := range raw.Rest {
		rhs, err := b.buildFactor(rest.Factor, scope)
		if err != nil {
			return nil, err
		}
		op := ast.OpTimes
		if rest.Op == "/" {
			op = ast.OpSlash
		}
		expr = &ast.BinExpr{Position: b.pos(rest.Pos), Op: op, Lhs: expr, Rhs: rhs}
	}
	return expr, nil
}

func (b *Builder) buildFactor(raw *grammar.Factor, scope *symtab.Table) (ast.Expr, error) {
	switch {
	case raw.Ident != "":
		sym := scope.Find(raw.Ident)
		if sym == nil {
			return nil, errors.UndefinedIdentifier(raw.Ident, b.pos(raw.Pos), b.suggest(raw.Ident, scope))
		}
		if sym.IsProcedure {
			return nil, errors.CallNonProcedure(raw.Ident, b.pos(raw.Pos))
		}
		return &ast.Var{Position: b.pos(raw.Pos), Symbol: sym, Enclosing: scope}, nil
	case raw.Number != nil:
		return &ast.Const{Position: b.pos(raw.Pos), Value: *raw.Number}, nil
	default:
		return b.buildExpr(raw.Sub, scope)
	}
}

// suggest returns declared names in scope (and its ancestors) close to
// name, for the "did you mean" hint in UndefinedIdentifier diagnostics.
func (b *Builder) suggest(name string, scope *symtab.Table) []string {
	var out []string
	for t := scope; t != nil; t = t.Parent() {
		for _, sym := range t.Symbols() {
			if closeEnough(name, sym.Name) {
				out = append(out, sym.Name)
			}
		}
	}
	return out
}

// closeEnough is a cheap near-miss heuristic: same length with exactly
// one differing character, or one is the other plus one trailing
// character.
func closeEnough(a, b string) bool {
	if a == b {
		return false
	}
	if len(a) == len(b) {
		diff := 0
		for i := range a {
			if a[i] != b[i] {
				diff++
			}
		}
		return diff == 1
	}
	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}
	return len(longer)-len(shorter) == 1 && strings.HasPrefix(longer, shorter)
}
