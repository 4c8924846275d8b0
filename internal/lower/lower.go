// Package lower rewrites every assignment's expression tree into
// three-address form (spec §4.4): after this pass, every non-leaf
// expression node (BinExpr, UnExpr) has only Var or Const children,
// achieved by flattening nested operands through fresh temporaries.
package lower

import (
	"plc/internal/ast"
	"plc/internal/symtab"
	"plc/internal/types"
)

// Build rewrites every block's instruction list in cfg to three-address
// form, in place.
func Build(prog *ast.Program, cfg *ast.CFG, reg *types.Registry) {
	scopes := collectScopes(prog)
	for owner, blocks := range cfg.Blocks {
		scope := scopes[owner]
		for _, blk := range blocks {
			lowerBlock(blk, scope, reg)
		}
	}
}

func collectScopes(prog *ast.Program) map[*symtab.Symbol]*symtab.Table {
	out := make(map[*symtab.Symbol]*symtab.Table)
	var visit func(owner *symtab.Symbol, blk *ast.Block)
	visit = func(owner *symtab.Symbol, blk *ast.Block) {
		out[owner] = blk.LocalSymtab
		for _, def := range blk.Defs {
			visit(def.Symbol, def.Body)
		}
	}
	visit(prog.Global, prog.Body)
	return out
}

func lowerBlock(blk *ast.BasicBlock, scope *symtab.Table, reg *types.Registry) {
	var out []ast.Stat
	for _, inst := range blk.Instructions {
		out = append(out, lowerStat(inst, scope, reg)...)
	}
	blk.Instructions = out
}

// lowerStat returns the sequence of statements inst expands to: any
// temporary-assignment statements needed to flatten its expression,
// followed by inst itself (with its top-level expression rewritten to
// reference only the flattened operands).
func lowerStat(inst ast.Stat, scope *symtab.Table, reg *types.Registry) []ast.Stat {
	switch st := inst.(type) {
	case *ast.AssignStat:
		pre, expr := lowerTop(st.Expr, scope, reg)
		st.Expr = expr
		return append(pre, st)
	default:
		return []ast.Stat{inst}
	}
}

// lowerTop flattens e's children (if any) but leaves e's own top-level
// operator in place — spec's "rewrite the outer expression to reference
// t1, t2" without also temping the outer node itself.
func lowerTop(e ast.Expr, scope *symtab.Table, reg *types.Registry) ([]ast.Stat, ast.Expr) {
	switch ex := e.(type) {
	case *ast.BinExpr:
		lpre, lhs := flattenOperand(ex.Lhs, scope, reg)
		rpre, rhs := flattenOperand(ex.Rhs, scope, reg)
		ex.Lhs, ex.Rhs = lhs, rhs
		return append(lpre, rpre...), ex
	case *ast.UnExpr:
		pre, arg := flattenOperand(ex.Arg, scope, reg)
		ex.Arg = arg
		return pre, ex
	default:
		return nil, e
	}
}

// flattenOperand reduces e to a Var or Const, introducing a fresh
// temporary (and its defining AssignStat) if e is itself a compound
// expression.
func flattenOperand(e ast.Expr, scope *symtab.Table, reg *types.Registry) ([]ast.Stat, ast.Expr) {
	switch ex := e.(type) {
	case *ast.Const, *ast.Var:
		return nil, e
	case *ast.BinExpr:
		lpre, lhs := flattenOperand(ex.Lhs, scope, reg)
		rpre, rhs := flattenOperand(ex.Rhs, scope, reg)
		ex.Lhs, ex.Rhs = lhs, rhs
		pre := append(lpre, rpre...)
		return appendTemp(pre, ex, scope, reg)
	case *ast.UnExpr:
		apre, arg := flattenOperand(ex.Arg, scope, reg)
		ex.Arg = arg
		return appendTemp(apre, ex, scope, reg)
	default:
		return nil, e
	}
}

func appendTemp(pre []ast.Stat, expr ast.Expr, scope *symtab.Table, reg *types.Registry) ([]ast.Stat, ast.Expr) {
	temp := scope.FreshTemp(reg.Int())
	v := &ast.Var{Position: expr.Pos(), Symbol: temp, Enclosing: scope}
	pre = append(pre, &ast.AssignStat{Position: expr.Pos(), Target: v, Expr: expr})
	return pre, v
}
