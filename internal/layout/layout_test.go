package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plc/grammar"
	"plc/internal/callgraph"
	"plc/internal/cfg"
	"plc/internal/ir"
	"plc/internal/types"
)

func TestBuild_GlobalLocalsGetSlots(t *testing.T) {
	source := `
var x, y;
begin
  x := 1;
  y := 2
end.`
	raw, err := grammar.ParseSource("layout1.pl0", source)
	require.NoError(t, err)
	reg := types.NewRegistry()
	prog, err := ir.NewBuilder("layout1.pl0", reg).Build(raw)
	require.NoError(t, err)

	graph, err := cfg.Build(prog, reg)
	require.NoError(t, err)
	cg := callgraph.Build(prog, graph)

	lay := Build(prog, cg)
	stack := lay.Stacks[prog.Global]
	require.NotNil(t, stack)

	// slot 0 is always reserved/unused
	assert.Equal(t, SlotUnused, stack.Slots[0].Kind)

	// both locals should have been assigned a slot
	found := 0
	for _, sl := range stack.Slots {
		if sl.Kind == SlotLocal {
			found++
		}
	}
	assert.Equal(t, 2, found)
}

func TestBuild_NestedProcedureGetsFramePointerSlot(t *testing.T) {
	source := `
var x;
procedure inc;
begin
  x := x + 1
end;
begin
  call inc
end.`
	raw, err := grammar.ParseSource("layout2.pl0", source)
	require.NoError(t, err)
	reg := types.NewRegistry()
	prog, err := ir.NewBuilder("layout2.pl0", reg).Build(raw)
	require.NoError(t, err)

	graph, err := cfg.Build(prog, reg)
	require.NoError(t, err)
	cg := callgraph.Build(prog, graph)

	lay := Build(prog, cg)
	incSym := prog.Body.Defs[0].Symbol
	incStack := lay.Stacks[incSym]
	require.NotNil(t, incStack)

	_, ok := incStack.FramePointerSlot(prog.Global)
	assert.True(t, ok, "inc references x from the global frame, so it needs the global's frame pointer")
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(0))
	assert.Equal(t, -4, Offset(1))
	assert.Equal(t, -8, Offset(2))
}
