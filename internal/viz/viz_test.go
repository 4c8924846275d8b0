package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plc/internal/compiler"
)

func TestPrintSymbolTable(t *testing.T) {
	source := `
var x, y;
begin
  x := 1;
  y := x + 1
end.`
	ctx := mustCompile(t, "symtab.pl0", source)

	out := PrintSymbolTable(ctx.Program)
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "y")
	assert.Contains(t, out, "symbol")
}

func TestPrintStackLayout(t *testing.T) {
	source := `
var x, y;
begin
  x := 1;
  y := x + 1
end.`
	ctx := mustCompile(t, "layout.pl0", source)

	out := PrintStackLayout(ctx.Layout, ctx.CallGraph.Order)
	assert.Contains(t, out, "x")
	assert.Contains(t, out, "y")
}

func TestCallGraphDOT(t *testing.T) {
	source := `
var x;
procedure inc;
begin
  x := x + 1
end;
begin
  call inc
end.`
	ctx := mustCompile(t, "dot.pl0", source)

	out := CallGraphDOT(ctx.CallGraph)
	assert.Contains(t, out, "digraph CallGraph")
	assert.Contains(t, out, "inc")
	assert.Contains(t, out, "->")
}

func TestInterferenceDOT(t *testing.T) {
	source := `
var x, y;
begin
  x := 1;
  y := x + 1;
  print y
end.`
	ctx := mustCompile(t, "interference.pl0", source)

	g := ctx.RegAlloc[ctx.Program.Global]
	require.NotNil(t, g)

	out := InterferenceDOT(ctx.Program.Global, g)
	assert.Contains(t, out, "graph Interference_global")
}

func mustCompile(t *testing.T, filename, source string) *compiler.Context {
	t.Helper()
	ctx, err := compiler.CompileFile(writeTemp(t, filename, source))
	require.NoError(t, err)
	return ctx
}

func writeTemp(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}
