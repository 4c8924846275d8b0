package regalloc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plc/grammar"
	"plc/internal/ast"
	"plc/internal/cfg"
	"plc/internal/errors"
	"plc/internal/ir"
	"plc/internal/liveness"
	"plc/internal/lower"
	"plc/internal/symtab"
	"plc/internal/types"
)

func compilePipeline(t *testing.T, filename, source string) (*ast.Program, *liveness.Graph, map[*symtab.Symbol]ast.Position) {
	t.Helper()
	raw, err := grammar.ParseSource(filename, source)
	require.NoError(t, err)

	reg := types.NewRegistry()
	prog, err := ir.NewBuilder(filename, reg).Build(raw)
	require.NoError(t, err)
	require.NoError(t, ir.FoldConstants(prog))

	graph, err := cfg.Build(prog, reg)
	require.NoError(t, err)
	lower.Build(prog, graph, reg)

	live := liveness.Build(prog, graph)
	liveness.InsertSpills(live, graph)

	positions := map[*symtab.Symbol]ast.Position{prog.Global: prog.Body.Position}
	return prog, live, positions
}

func TestAllocateAll_SmallProcedureColorsCleanly(t *testing.T) {
	source := `
var x, y;
begin
  x := 1;
  y := x + 1;
  print y
end.`
	prog, live, positions := compilePipeline(t, "small.pl0", source)

	graphs, err := AllocateAll(prog, live, positions)
	require.NoError(t, err)

	g := graphs[prog.Global]
	require.NotNil(t, g)
	for _, v := range g.Order {
		r, ok := v.RegisterIn(prog.Global)
		require.True(t, ok)
		assert.GreaterOrEqual(t, r, 8)
		assert.LessOrEqual(t, r, 25)
	}
}

func TestAllocateAll_TooManyLiveVariablesFails(t *testing.T) {
	var b strings.Builder
	b.WriteString("var ")
	names := make([]string, 25)
	for i := range names {
		names[i] = fmt.Sprintf("v%d", i)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(";\nbegin\n")
	for i, n := range names {
		fmt.Fprintf(&b, "  %s := %d;\n", n, i)
	}
	// keep every variable live simultaneously with one long sum.
	fmt.Fprintf(&b, "  v0 := %s\n", strings.Join(names, " + "))
	b.WriteString("end.")

	prog, live, positions := compilePipeline(t, "toomany.pl0", b.String())

	_, err := AllocateAll(prog, live, positions)
	require.Error(t, err)
	ce, ok := err.(errors.CompilerError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorTooManyLiveVariables, ce.Code)
}
