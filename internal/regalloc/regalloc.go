// Package regalloc builds the per-procedure interference graph and
// greedily colors it over the 18 usable MIPS registers $8-$25 (spec
// §4.9), grounded on original_source/register_alloc.py's
// ColorGraph/ColorNode/color(). Unlike the source, running out of
// colors is a hard failure (internal/errors.TooManyLiveVariables)
// rather than a silent mis-coloring — see spec §9's open question on
// the source's undetected >18-live-variables bug.
package regalloc

import (
	"plc/internal/ast"
	"plc/internal/errors"
	"plc/internal/liveness"
	"plc/internal/symtab"
)

// MaxColors is the number of usable general registers ($8-$25).
const MaxColors = 18

// Graph is one procedure's interference graph: vertex = variable
// referenced anywhere in the procedure's liveness nodes, undirected
// edge = simultaneously live at some program point.
type Graph struct {
	Order []*symtab.Symbol
	Edges map[*symtab.Symbol]map[*symtab.Symbol]bool
}

// AllocateAll colors every procedure's interference graph in prog,
// writing the chosen physical register (color+8) onto each symbol via
// Symbol.SetRegisterIn. positions supplies a diagnostic position per
// procedure symbol, used only if coloring fails.
func AllocateAll(prog *ast.Program, live *liveness.Graph, positions map[*symtab.Symbol]ast.Position) (map[*symtab.Symbol]*Graph, error) {
	graphs := make(map[*symtab.Symbol]*Graph)

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
		g := buildInterference(live.ByProc[owner])
		graphs[owner] = g
		if err := color(owner, g, positions[owner]); err != nil {
			return nil, err
		}
	}
	return graphs, nil
}

func buildInterference(nodes []*liveness.Node) *Graph {
	g := &Graph{Edges: make(map[*symtab.Symbol]map[*symtab.Symbol]bool)}
	seen := make(map[*symtab.Symbol]bool)
	register := func(v *symtab.Symbol) {
		if !seen[v] {
			seen[v] = true
			g.Order = append(g.Order, v)
			g.Edges[v] = make(map[*symtab.Symbol]bool)
		}
	}
	for _, n := range nodes {
		for v := range n.Defs {
			register(v)
		}
		for v := range n.Uses {
			register(v)
		}
		for v := range n.LiveIn {
			register(v)
		}
	}
	for _, n := range nodes {
		for u := range n.LiveIn {
			for v := range n.LiveIn {
				if u != v {
					g.Edges[u][v] = true
				}
			}
		}
	}
	return g
}

// color runs the greedy assignment: for each vertex (in discovery
// order), pick the smallest color in [0,18) not used by an already-
// colored neighbor.
func color(owner *symtab.Symbol, g *Graph, pos ast.Position) error {
	colors := make(map[*symtab.Symbol]int)
	for _, v := range g.Order {
		taken := make(map[int]bool)
		for neighbor := range g.Edges[v] {
			if c, ok := colors[neighbor]; ok {
				taken[c] = true
			}
		}
		chosen := -1
		for c := 0; c < MaxColors; c++ {
			if !taken[c] {
				chosen = c
				break
			}
		}
		if chosen == -1 {
			return errors.TooManyLiveVariables(owner.Name, len(taken)+1, pos)
		}
		colors[v] = chosen
		v.SetRegisterIn(owner, chosen+8)
	}
	return nil
}
