// Package layout computes each procedure's activation-record layout
// (spec §4.6, §3 "Activation record"), grounded on
// original_source/datalayout.py's datalayout_f: enclosing-frame pointer
// slots for every procedure in call-graph uses(f), followed by f's own
// non-temporary, non-constant locals.
package layout

import (
	"plc/internal/ast"
	"plc/internal/callgraph"
	"plc/internal/symtab"
)

// SlotKind tags what an activation-record slot holds.
type SlotKind int

const (
	// SlotUnused is slot 0, reserved and never assigned a meaning.
	SlotUnused SlotKind = iota
	// SlotFramePointer holds the runtime $fp of an enclosing procedure.
	SlotFramePointer
	// SlotLocal holds one of the owning procedure's own local variables.
	SlotLocal
)

// Slot is one word-sized activation-record entry.
type Slot struct {
	Kind SlotKind
	Proc *symtab.Symbol // set when Kind == SlotFramePointer
	Var  *symtab.Symbol // set when Kind == SlotLocal
}

// Stack is one procedure's activation record: an ordered slot list,
// slot i sitting at offset -4*i from $fp.
type Stack struct {
	Proc  *symtab.Symbol
	Slots []Slot
}

// Offset returns the byte offset of slot i from the frame pointer.
func Offset(i int) int { return -4 * i }

// FramePointerSlot returns the slot index holding p's frame pointer, if
// any.
func (s *Stack) FramePointerSlot(p *symtab.Symbol) (int, bool) {
	for i, sl := range s.Slots {
		if sl.Kind == SlotFramePointer && sl.Proc == p {
			return i, true
		}
	}
	return 0, false
}

// LocalSlot returns the slot index holding sym, if sym is a local of
// this stack's procedure.
func (s *Stack) LocalSlot(sym *symtab.Symbol) (int, bool) {
	for i, sl := range s.Slots {
		if sl.Kind == SlotLocal && sl.Var == sym {
			return i, true
		}
	}
	return 0, false
}

// Size is the number of slots, including the unused slot 0.
func (s *Stack) Size() int { return len(s.Slots) }

// Layout is the whole-program per-procedure stack layout.
type Layout struct {
	Stacks map[*symtab.Symbol]*Stack
}

// Build computes the layout of every procedure in prog, given its
// closed call graph.
func Build(prog *ast.Program, cg *callgraph.Graph) *Layout {
	out := &Layout{Stacks: make(map[*symtab.Symbol]*Stack)}

	var visit func(owner *symtab.Symbol, blk *ast.Block)
	visit = func(owner *symtab.Symbol, blk *ast.Block) {
		out.Stacks[owner] = buildStack(owner, blk.LocalSymtab, cg)
		for _, def := range blk.Defs {
			visit(def.Symbol, def.Body)
		}
	}
	visit(prog.Global, prog.Body)
	return out
}

func buildStack(owner *symtab.Symbol, scope *symtab.Table, cg *callgraph.Graph) *Stack {
	slots := []Slot{{Kind: SlotUnused}}

	node := cg.Nodes[owner]
	for _, p := range cg.Order {
		if node.Uses[p] {
			slots = append(slots, Slot{Kind: SlotFramePointer, Proc: p})
		}
	}

	for _, sym := range scope.Symbols() {
		if sym.Level == owner && !sym.IsConst() && !sym.Temp && !sym.IsProcedure {
			slots = append(slots, Slot{Kind: SlotLocal, Var: sym})
		}
	}

	return &Stack{Proc: owner, Slots: slots}
}
