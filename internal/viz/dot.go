package viz

import (
	"fmt"
	"strings"

	"plc/internal/callgraph"
	"plc/internal/regalloc"
	"plc/internal/symtab"
)

// CallGraphDOT renders the whole-program call graph as Graphviz DOT
// source, grounded on original_source/call_graph.py's
// get_dotty_format/print_graph: one node per procedure, labeled with the
// enclosing frames it uses, one edge per direct call.
func CallGraphDOT(g *callgraph.Graph) string {
	var sb strings.Builder
	sb.WriteString("digraph CallGraph {\n")
	for _, proc := range g.Order {
		node := g.Nodes[proc]
		var uses []string
		for _, u := range g.Order {
			if node.Uses[u] {
				uses = append(uses, u.Name)
			}
		}
		sb.WriteString(fmt.Sprintf("  %q [label=%q];\n", proc.Name, proc.Name+" "+listOf(uses)))
		for callee := range node.Calls {
			sb.WriteString(fmt.Sprintf("  %q -> %q;\n", proc.Name, callee.Name))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// InterferenceDOT renders one procedure's interference graph as
// Graphviz DOT source (undirected, via graph rather than digraph),
// grounded on original_source/register_alloc.py's ColorGraph.graphviz:
// a vertex per live variable labeled with its assigned register, an
// edge per interference. proc identifies which procedure's coloring to
// read off each symbol (a symbol used from several procedures may be
// colored differently in each).
func InterferenceDOT(proc *symtab.Symbol, g *regalloc.Graph) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("graph Interference_%s {\n", proc.Name))
	seen := make(map[[2]string]bool)
	for _, v := range g.Order {
		label := v.Name
		if r, ok := v.RegisterIn(proc); ok {
			label = fmt.Sprintf("%s ($%d)", v.Name, r)
		}
		sb.WriteString(fmt.Sprintf("  %q [label=%q];\n", v.Name, label))
		for w := range g.Edges[v] {
			key := [2]string{v.Name, w.Name}
			rkey := [2]string{w.Name, v.Name}
			if seen[key] || seen[rkey] {
				continue
			}
			seen[key] = true
			sb.WriteString(fmt.Sprintf("  %q -- %q;\n", v.Name, w.Name))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

func listOf(names []string) string {
	if len(names) == 0 {
		return "{}"
	}
	return "{" + strings.Join(names, ",") + "}"
}
