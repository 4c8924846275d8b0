// Package liveness computes per-instruction live-in/live-out sets via
// the backward fixed point of spec §4.7, then inserts the Load/Store
// spill pseudo-instructions of spec §4.8 at the points liveness changes
// across an edge. Graphs are represented as node slices with explicit
// successor pointers (spec §9 "Graphs with shared vertices"), one slice
// per procedure.
package liveness

import (
	"plc/internal/ast"
	"plc/internal/symtab"
)

// Node wraps one instruction with its liveness annotations.
type Node struct {
	Block *ast.BasicBlock
	Index int
	Inst  ast.Stat

	Defs map[*symtab.Symbol]bool
	Uses map[*symtab.Symbol]bool

	LiveIn  map[*symtab.Symbol]bool
	LiveOut map[*symtab.Symbol]bool

	Succs []*Node
}

// Graph is the whole-program liveness graph, one node list per
// procedure in block-then-instruction order.
type Graph struct {
	ByProc map[*symtab.Symbol][]*Node
}

// Build computes liveness for every procedure in prog over cfg.
func Build(prog *ast.Program, cfg *ast.CFG) *Graph {
	g := &Graph{ByProc: make(map[*symtab.Symbol][]*Node)}

	var owners []*symtab.Symbol
	var collect func(owner *symtab.Symbol, blk *ast.Block)
	collect = func(owner *symtab.Symbol, blk *ast.Block) {
		owners = append(owners, owner)
		for _, def := range blk.Defs {
			collect(def.Symbol, def.Body)
		}
	}
	collect(prog.Global, prog.Body)

	for _, owner := range owners {
		g.ByProc[owner] = buildProcedureNodes(owner, cfg)
	}
	g.fixedPoint(owners)
	g.annotateBlocks(owners)
	return g
}

func buildProcedureNodes(owner *symtab.Symbol, cfg *ast.CFG) []*Node {
	var nodes []*Node
	first := make(map[*ast.BasicBlock]*Node)
	last := make(map[*ast.BasicBlock]*Node)

	for _, blk := range cfg.Blocks[owner] {
		var prev *Node
		for i, inst := range blk.Instructions {
			defs, uses := defsUses(inst)
			n := &Node{
				Block: blk, Index: i, Inst: inst,
				Defs: defs, Uses: uses,
				LiveIn: map[*symtab.Symbol]bool{}, LiveOut: map[*symtab.Symbol]bool{},
			}
			nodes = append(nodes, n)
			if i == 0 {
				first[blk] = n
			}
			if prev != nil {
				prev.Succs = append(prev.Succs, n)
			}
			prev = n
		}
		if prev != nil {
			last[blk] = prev
		}
	}

	for _, blk := range cfg.Blocks[owner] {
		ln := last[blk]
		if ln == nil {
			continue
		}
		for _, succBlock := range blk.Successors() {
			if target := first[succBlock]; target != nil {
				ln.Succs = append(ln.Succs, target)
			}
		}
	}
	return nodes
}

func defsUses(inst ast.Stat) (map[*symtab.Symbol]bool, map[*symtab.Symbol]bool) {
	defs := map[*symtab.Symbol]bool{}
	uses := map[*symtab.Symbol]bool{}
	switch st := inst.(type) {
	case *ast.AssignStat:
		defs[st.Target.Symbol] = true
		for _, v := range exprVars(st.Expr) {
			uses[v] = true
		}
	case *ast.PrintStat:
		uses[st.Sym.Symbol] = true
	case *ast.BranchStat:
		uses[st.Cond.Symbol] = true
	case *ast.InputStat:
		defs[st.Sym.Symbol] = true
	}
	return defs, uses
}

func exprVars(e ast.Expr) []*symtab.Symbol {
	switch ex := e.(type) {
	case *ast.Var:
		return []*symtab.Symbol{ex.Symbol}
	case *ast.BinExpr:
		return append(exprVars(ex.Lhs), exprVars(ex.Rhs)...)
	case *ast.UnExpr:
		return exprVars(ex.Arg)
	default:
		return nil
	}
}

// fixedPoint runs the backward dataflow iteration of spec §4.7 to
// saturation: live_out(n) = union of live_in(succ); live_in(n) =
// uses(n) ∪ (live_out(n) \ defs(n)).
func (g *Graph) fixedPoint(owners []*symtab.Symbol) {
	changed := true
	for changed {
		changed = false
		for _, owner := range owners {
			nodes := g.ByProc[owner]
			for i := len(nodes) - 1; i >= 0; i-- {
				n := nodes[i]

				newOut := map[*symtab.Symbol]bool{}
				for _, s := range n.Succs {
					for v := range s.LiveIn {
						newOut[v] = true
					}
				}
				if !setEqual(newOut, n.LiveOut) {
					n.LiveOut = newOut
					changed = true
				}

				newIn := map[*symtab.Symbol]bool{}
				for v := range n.Uses {
					newIn[v] = true
				}
				for v := range n.LiveOut {
					if !n.Defs[v] {
						newIn[v] = true
					}
				}
				if !setEqual(newIn, n.LiveIn) {
					n.LiveIn = newIn
					changed = true
				}
			}
		}
	}
}

// annotateBlocks copies each block's entry/exit liveness onto the
// ast.BasicBlock itself, for internal/viz and debugging dumps.
func (g *Graph) annotateBlocks(owners []*symtab.Symbol) {
	for _, owner := range owners {
		nodes := g.ByProc[owner]
		seenFirst := make(map[*ast.BasicBlock]bool)
		for _, n := range nodes {
			if !seenFirst[n.Block] {
				n.Block.LiveIn = n.LiveIn
				seenFirst[n.Block] = true
			}
			n.Block.LiveOut = n.LiveOut
		}
	}
}

func setEqual(a, b map[*symtab.Symbol]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}

func subtract(a, b map[*symtab.Symbol]bool) map[*symtab.Symbol]bool {
	out := map[*symtab.Symbol]bool{}
	for v := range a {
		if !b[v] {
			out[v] = true
		}
	}
	return out
}

func union(a, b map[*symtab.Symbol]bool) map[*symtab.Symbol]bool {
	out := map[*symtab.Symbol]bool{}
	for v := range a {
		out[v] = true
	}
	for v := range b {
		out[v] = true
	}
	return out
}

func isSubset(a, b map[*symtab.Symbol]bool) bool {
	for v := range a {
		if !b[v] {
			return false
		}
	}
	return true
}

func setSlice(a map[*symtab.Symbol]bool) []*symtab.Symbol {
	out := make([]*symtab.Symbol, 0, len(a))
	for v := range a {
		out = append(out, v)
	}
	return out
}
