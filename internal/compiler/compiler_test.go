package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plc/grammar"
	"plc/internal/errors"
	"plc/internal/symtab"
)

func TestCompile_SimpleProgram(t *testing.T) {
	source := `
var x, y;
begin
  x := 1 + 2 * 3;
  y := x;
  print y
end.`

	ctx, err := Compile("simple.pl0", mustParse(t, source))
	require.NoError(t, err)

	assert.Contains(t, ctx.Assembly, ".text")
	assert.Contains(t, ctx.Assembly, ".globl main")
	assert.Contains(t, ctx.Assembly, "main:")
	assert.Contains(t, ctx.Assembly, "syscall")
	assert.Contains(t, ctx.Assembly, "plc compiled simple.pl0, run ")
}

func TestCompile_NestedProcedureCall(t *testing.T) {
	source := `
var x;
procedure square;
var y;
begin
  y := x * x
end;
begin
  x := 5;
  call square
end.`

	ctx, err := Compile("square.pl0", mustParse(t, source))
	require.NoError(t, err)

	var square *symtab.Symbol
	for _, proc := range ctx.CallGraph.Order {
		if proc.Name == "square" {
			square = proc
		}
	}
	require.NotNil(t, square, "expected square to appear in the call graph")

	entryLabel := ctx.CFG.Entries[square].Label
	assert.Contains(t, ctx.Assembly, fmt.Sprintf("%s:", entryLabel))
	assert.Contains(t, ctx.Assembly, fmt.Sprintf("jal %s", entryLabel))
	assert.Contains(t, ctx.Assembly, "jr $ra")
}

func TestCompile_UndefinedIdentifier(t *testing.T) {
	source := `
var x;
begin
  x := y
end.`

	_, err := Compile("bad.pl0", mustParse(t, source))
	require.Error(t, err)

	ce, ok := err.(errors.CompilerError)
	require.True(t, ok, "expected a CompilerError, got %T", err)
	assert.Equal(t, errors.ErrorUndefinedIdentifier, ce.Code)
	assert.True(t, strings.Contains(ce.Message, "y"))
}

func TestCompile_AssignToConstant(t *testing.T) {
	source := `
const k = 1;
begin
  k := 2
end.`

	_, err := Compile("const.pl0", mustParse(t, source))
	require.Error(t, err)

	ce, ok := err.(errors.CompilerError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrorAssignToConstant, ce.Code)
}

func TestCompile_ConstantFolding(t *testing.T) {
	source := `
var x;
begin
  x := 2 + 3
end.`

	ctx, err := Compile("fold.pl0", mustParse(t, source))
	require.NoError(t, err)
	assert.Contains(t, ctx.Assembly, "ori")
}

func mustParse(t *testing.T, source string) *grammar.Program {
	t.Helper()
	prog, err := grammar.ParseSource("test.pl0", source)
	require.NoError(t, err)
	return prog
}
