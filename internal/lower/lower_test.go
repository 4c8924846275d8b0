package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plc/grammar"
	"plc/internal/ast"
	"plc/internal/cfg"
	"plc/internal/ir"
	"plc/internal/types"
)

func TestBuild_FlattensNestedExpression(t *testing.T) {
	source := `
var a, b, c, d;
begin
  a := (b + c) * d
end.`
	raw, err := grammar.ParseSource("lower1.pl0", source)
	require.NoError(t, err)
	reg := types.NewRegistry()
	prog, err := ir.NewBuilder("lower1.pl0", reg).Build(raw)
	require.NoError(t, err)

	graph, err := cfg.Build(prog, reg)
	require.NoError(t, err)

	Build(prog, graph, reg)

	entry := graph.Entries[prog.Global]
	require.NotNil(t, entry)

	// every AssignStat's top-level expression must now have only Var/Const
	// operands (three-address form).
	for _, inst := range entry.Instructions {
		as, ok := inst.(*ast.AssignStat)
		if !ok {
			continue
		}
		if bin, ok := as.Expr.(*ast.BinExpr); ok {
			assertLeaf(t, bin.Lhs)
			assertLeaf(t, bin.Rhs)
		}
	}
	assert.GreaterOrEqual(t, len(entry.Instructions), 2, "expected at least one temp assignment plus the final assign")
}

func assertLeaf(t *testing.T, e ast.Expr) {
	t.Helper()
	switch e.(type) {
	case *ast.Var, *ast.Const:
	default:
		t.Fatalf("expected a leaf operand (Var or Const), got %T", e)
	}
}
