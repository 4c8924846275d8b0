// Package callgraph builds the per-procedure call graph and closes its
// "uses" sets under the direct-call relation (spec §4.5), grounded on
// original_source/call_graph.py's CallNode/CallGraph/fixed_point, with
// the Python identity-keyed dicts replaced by Go maps keyed on
// *symtab.Symbol (spec §9 "Graphs with shared vertices").
package callgraph

import (
	"plc/internal/ast"
	"plc/internal/symtab"
)

// Node is one procedure's entry in the call graph: the procedures it
// calls directly, and the procedures whose enclosing-frame pointers it
// must be able to address.
type Node struct {
	Proc  *symtab.Symbol
	Calls map[*symtab.Symbol]bool
	Uses  map[*symtab.Symbol]bool
}

// Graph is the whole-program call graph, plus a stable discovery order
// for deterministic iteration (declaration order of procedures).
type Graph struct {
	Nodes map[*symtab.Symbol]*Node
	Order []*symtab.Symbol
}

// Build constructs the initial call graph from the (already lowered)
// CFG and runs the frame-use closure to a fixed point.
func Build(prog *ast.Program, cfg *ast.CFG) *Graph {
	g := &Graph{Nodes: make(map[*symtab.Symbol]*Node)}

	var visit func(owner *symtab.Symbol, blk *ast.Block)
	visit = func(owner *symtab.Symbol, blk *ast.Block) {
		g.Order = append(g.Order, owner)
		g.Nodes[owner] = &Node{Proc: owner, Calls: make(map[*symtab.Symbol]bool), Uses: make(map[*symtab.Symbol]bool)}
		for _, def := range blk.Defs {
			visit(def.Symbol, def.Body)
		}
	}
	visit(prog.Global, prog.Body)

	for _, owner := range g.Order {
		node := g.Nodes[owner]
		for _, blk := range cfg.Blocks[owner] {
			for _, inst := range blk.Instructions {
				collect(inst, owner, node)
			}
		}
	}

	g.fixedPoint()
	return g
}

func collect(inst ast.Stat, owner *symtab.Symbol, node *Node) {
	if call, ok := inst.(*ast.CallStat); ok {
		node.Calls[call.Callee] = true
	}
	for _, sym := range statVars(inst) {
		if sym.IsConst() || sym.Level == nil || sym.Level == owner {
			continue
		}
		node.Uses[sym.Level] = true
	}
}

func statVars(s ast.Stat) []*symtab.Symbol {
	switch st := s.(type) {
	case *ast.AssignStat:
		return append([]*symtab.Symbol{st.Target.Symbol}, exprVars(st.Expr)...)
	case *ast.PrintStat:
		return []*symtab.Symbol{st.Sym.Symbol}
	case *ast.InputStat:
		return []*symtab.Symbol{st.Sym.Symbol}
	case *ast.BranchStat:
		return []*symtab.Symbol{st.Cond.Symbol}
	case *ast.LoadStat:
		return st.Vars
	case *ast.StoreStat:
		return st.Vars
	default:
		return nil
	}
}

func exprVars(e ast.Expr) []*symtab.Symbol {
	switch ex := e.(type) {
	case *ast.Var:
		return []*symtab.Symbol{ex.Symbol}
	case *ast.BinExpr:
		return append(exprVars(ex.Lhs), exprVars(ex.Rhs)...)
	case *ast.UnExpr:
		return exprVars(ex.Arg)
	case *ast.CallExpr:
		var out []*symtab.Symbol
		for _, a := range ex.Args {
			out = append(out, exprVars(a)...)
		}
		return out
	default:
		return nil
	}
}

// fixedPoint runs the monotone closure from spec §4.5: propagate callee
// uses() into caller uses() until nothing grows, then strip
// reflexivity (f removed from uses(f)).
func (g *Graph) fixedPoint() {
	changed := true
	for changed {
		changed = false
		for _, owner := range g.Order {
			node := g.Nodes[owner]
			for callee := range node.Calls {
				calleeNode := g.Nodes[callee]
				if calleeNode == nil {
					continue
				}
				for used := range calleeNode.Uses {
					if !node.Uses[used] {
						node.Uses[used] = true
						changed = true
					}
				}
			}
		}
	}
	for _, owner := range g.Order {
		delete(g.Nodes[owner].Uses, owner)
	}
}
