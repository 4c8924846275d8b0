package liveness

import (
	"plc/internal/ast"
	"plc/internal/symtab"
)

// InsertSpills walks every procedure's liveness graph and splices the
// Load/Store pseudo-instructions of spec §4.8 into the owning CFG's
// block instruction lists. It must run after Build and before
// internal/regalloc.
//
// Where spec §4.8 leaves the behavior at a join point with several
// incoming edges implicit, this insert places each edge's contribution
// at the shared point rather than splitting critical edges: every
// incoming edge adds its own Load before the successor's instruction,
// and every outgoing edge adds its own Store after the predecessor's.
func InsertSpills(g *Graph, cfg *ast.CFG) {
	for owner, nodes := range g.ByProc {
		insertForProcedure(owner, nodes, cfg)
	}
}

func insertForProcedure(owner *symtab.Symbol, nodes []*Node, cfg *ast.CFG) {
	before := make(map[*ast.BasicBlock]map[int][]ast.Stat)
	after := make(map[*ast.BasicBlock]map[int][]ast.Stat)

	addBefore := func(n *Node, stats ...ast.Stat) {
		if before[n.Block] == nil {
			before[n.Block] = make(map[int][]ast.Stat)
		}
		before[n.Block][n.Index] = append(before[n.Block][n.Index], stats...)
	}
	addAfter := func(n *Node, stats ...ast.Stat) {
		if after[n.Block] == nil {
			after[n.Block] = make(map[int][]ast.Stat)
		}
		after[n.Block][n.Index] = append(after[n.Block][n.Index], stats...)
	}

	if len(nodes) > 0 {
		root := nodes[0]
		if len(root.LiveIn) > 0 {
			addBefore(root, &ast.LoadStat{Vars: setSlice(root.LiveIn)})
		}
	}

	for _, n := range nodes {
		if _, ok := n.Inst.(*ast.CallStat); ok {
			if len(n.LiveIn) > 0 {
				addBefore(n, &ast.StoreStat{Vars: setSlice(n.LiveIn)})
				addAfter(n, &ast.LoadStat{Vars: setSlice(n.LiveIn)})
			}
			continue
		}

		if len(n.Succs) == 0 {
			if term := union(n.LiveIn, n.Defs); len(term) > 0 {
				addAfter(n, &ast.StoreStat{Vars: setSlice(term)})
			}
		}

		for _, s := range n.Succs {
			if needed := subtract(subtract(s.LiveIn, n.LiveIn), n.Defs); len(needed) > 0 {
				addBefore(s, &ast.LoadStat{Vars: setSlice(needed)})
			}

			storeSet := subtract(n.LiveIn, s.LiveIn)
			if !isSubset(n.Defs, s.LiveIn) {
				storeSet = union(storeSet, n.Defs)
			}
			if len(storeSet) > 0 {
				addAfter(n, &ast.StoreStat{Vars: setSlice(storeSet)})
			}
		}
	}

	for _, blk := range cfg.Blocks[owner] {
		b, a := before[blk], after[blk]
		if b == nil && a == nil {
			continue
		}
		out := make([]ast.Stat, 0, len(blk.Instructions))
		for i, inst := range blk.Instructions {
			out = append(out, b[i]...)
			out = append(out, inst)
			out = append(out, a[i]...)
		}
		blk.Instructions = out
	}
}
