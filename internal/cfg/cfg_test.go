package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plc/grammar"
	"plc/internal/ast"
	"plc/internal/ir"
	"plc/internal/types"
)

func buildCFG(t *testing.T, filename, source string) (*ast.Program, *ast.CFG) {
	t.Helper()
	raw, err := grammar.ParseSource(filename, source)
	require.NoError(t, err)

	reg := types.NewRegistry()
	prog, err := ir.NewBuilder(filename, reg).Build(raw)
	require.NoError(t, err)
	require.NoError(t, ir.FoldConstants(prog))

	graph, err := Build(prog, reg)
	require.NoError(t, err)
	return prog, graph
}

func TestBuild_StraightLineIsOneBlock(t *testing.T) {
	source := `
var x;
begin
  x := 1;
  x := x + 1
end.`
	prog, graph := buildCFG(t, "straight.pl0", source)

	blocks := graph.Blocks[prog.Global]
	assert.Len(t, blocks, 1)
	assert.Len(t, blocks[0].Instructions, 2)
}

func TestBuild_IfSplitsIntoFourBlocks(t *testing.T) {
	source := `
var x;
begin
  if x > 0 then
    x := 1
  else
    x := 2
end.`
	prog, graph := buildCFG(t, "if_test.pl0", source)

	blocks := graph.Blocks[prog.Global]
	assert.GreaterOrEqual(t, len(blocks), 4, "expected entry/then/else/join blocks")

	entry := graph.Entries[prog.Global]
	require.NotNil(t, entry)
	assert.NotNil(t, entry.True)
	assert.NotNil(t, entry.False)
}

func TestBuild_WhileLoopsBack(t *testing.T) {
	source := `
var x;
begin
  while x > 0 do
    x := x - 1
end.`
	prog, graph := buildCFG(t, "while_test.pl0", source)

	entry := graph.Entries[prog.Global]
	require.NotNil(t, entry)

	blocks := graph.Blocks[prog.Global]
	assert.GreaterOrEqual(t, len(blocks), 4, "expected entry/cond/body/rest blocks")

	cond := entry.Next
	require.NotNil(t, cond)
	require.NotNil(t, cond.True)
	assert.Same(t, cond, cond.True.Next, "loop body should jump back to the condition block")
}

func TestBuild_NestedProcedureGetsOwnCFG(t *testing.T) {
	source := `
var x;
procedure inc;
begin
  x := x + 1
end;
begin
  call inc
end.`
	prog, graph := buildCFG(t, "nested.pl0", source)

	assert.Contains(t, graph.Blocks, prog.Global)
	require.Len(t, prog.Body.Defs, 1)
	assert.Contains(t, graph.Blocks, prog.Body.Defs[0].Symbol)
}
