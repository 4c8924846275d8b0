package viz

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"plc/internal/layout"
	"plc/internal/symtab"
)

// PrintStackLayout renders every procedure's activation record as a
// Slot/Kind/Symbol/Offset table, grounded on
// original_source/datalayout.py's print_data_layout. order fixes the
// iteration order (callers pass the call graph's declaration order, so
// output is deterministic).
func PrintStackLayout(lay *layout.Layout, order []*symtab.Symbol) string {
	var sb strings.Builder
	header := color.New(color.Bold).SprintFunc()

	for _, owner := range order {
		stack := lay.Stacks[owner]
		if stack == nil {
			continue
		}
		sb.WriteString(header(fmt.Sprintf("procedure %s (%d words)\n", owner.Name, stack.Size())))
		sb.WriteString(fmt.Sprintf("%-6s %-14s %-10s %s\n", "slot", "kind", "symbol", "offset"))
		for i, slot := range stack.Slots {
			var kind, name string
			switch slot.Kind {
			case layout.SlotUnused:
				kind, name = "unused", "-"
			case layout.SlotFramePointer:
				kind, name = "frame-ptr", slot.Proc.Name
			case layout.SlotLocal:
				kind, name = "local", slot.Var.Name
			}
			sb.WriteString(fmt.Sprintf("%-6d %-14s %-10s %d($fp)\n", i, kind, name, layout.Offset(i)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
