// Package codegen emits MIPS-32/SPIM assembly from the fully allocated
// IR (spec §4.10). It walks each procedure's CFG depth-first, emitting
// one instruction at a time via per-kind rules, and assembles call
// prologues/epilogues from the stack layout of internal/layout. The
// writer appends tab-indented assembly lines to a strings.Builder.
package codegen

import (
	"fmt"
	"strings"

	"plc/internal/ast"
	"plc/internal/layout"
	"plc/internal/symtab"
)

// Emitter renders a whole program's MIPS assembly.
type Emitter struct {
	prog   *ast.Program
	cfg    *ast.CFG
	layout *layout.Layout

	out strings.Builder
	cur *symtab.Symbol // procedure currently being emitted, for register lookups
}

// New creates an Emitter for prog, given its CFG and stack layout (both
// already computed by earlier passes, with registers already assigned
// on every symbol).
func New(prog *ast.Program, cfg *ast.CFG, lay *layout.Layout) *Emitter {
	return &Emitter{prog: prog, cfg: cfg, layout: lay}
}

// Emit renders the whole program and returns the assembly text.
func (e *Emitter) Emit() string {
	e.emitMain()
	e.emitNestedProcedures(e.prog.Body)
	return e.out.String()
}

func (e *Emitter) line(format string, args ...interface{}) {
	e.out.WriteString("\t")
	e.out.WriteString(fmt.Sprintf(format, args...))
	e.out.WriteString("\n")
}

func (e *Emitter) label(name string) {
	e.out.WriteString(name)
	e.out.WriteString(":\n")
}

// emitMain builds main's own frame (main plays the role of the
// program's implicit "global" procedure) and falls straight through
// into its CFG; it never returns, so it ends the run with exit syscall
// 10 rather than jr $ra.
func (e *Emitter) emitMain() {
	e.out.WriteString(".text\n.globl main\n.ent main\n")
	e.label("main")

	global := e.prog.Global
	stack := e.layout.Stacks[global]
	size := stack.Size()
	e.line("addi $sp,$sp,-%d", 4*size)
	e.line("addi $fp,$sp,%d", 4*(size-1))

	e.cur = global
	e.emitCFG(global)

	e.out.WriteString(".end main\n")
}

func (e *Emitter) emitNestedProcedures(blk *ast.Block) {
	for _, def := range blk.Defs {
		e.emitProcedure(def.Symbol)
		e.emitNestedProcedures(def.Body)
	}
}

func (e *Emitter) emitProcedure(proc *symtab.Symbol) {
	entry := e.cfg.Entries[proc]
	e.out.WriteString(".text\n")
	e.out.WriteString(fmt.Sprintf(".ent %s\n", entry.Label))
	e.cur = proc
	e.emitCFG(proc)
	e.out.WriteString(fmt.Sprintf(".end %s\n", entry.Label))
}

// emitCFG depth-first-walks proc's blocks, inlining the first
// not-yet-emitted successor and falling back to an explicit jump
// otherwise (spec §4.10).
func (e *Emitter) emitCFG(proc *symtab.Symbol) {
	emitted := make(map[*ast.BasicBlock]bool)
	var walk func(b *ast.BasicBlock)
	walk = func(b *ast.BasicBlock) {
		if b == nil || emitted[b] {
			return
		}
		emitted[b] = true
		e.label(b.Label)
		for _, inst := range b.Instructions {
			e.emitStat(inst)
		}

		if term := b.Terminator(); term != nil {
			walk(term.OnTrue)
			walk(term.OnFalse)
			return
		}
		if next := b.Next; next != nil {
			if emitted[next] {
				e.line("j %s", next.Label)
			} else {
				walk(next)
			}
			return
		}
		if proc == e.prog.Global {
			e.line("li $2,10")
			e.line("syscall")
			return
		}
		e.line("jr $ra")
	}
	walk(e.cfg.Entries[proc])
}

func (e *Emitter) regOf(sym *symtab.Symbol) int {
	reg, ok := sym.RegisterIn(e.cur)
	if !ok {
		reg = 8
	}
	return reg
}

func (e *Emitter) emitStat(inst ast.Stat) {
	switch st := inst.(type) {
	case *ast.AssignStat:
		e.emitAssign(st)
	case *ast.BranchStat:
		e.line("bnez $%d,%s", e.regOf(st.Cond.Symbol), st.OnTrue.Label)
		e.line("j %s", st.OnFalse.Label)
	case *ast.PrintStat:
		e.line("ori $2,$0,1")
		e.line("or $4,$0,$%d", e.regOf(st.Sym.Symbol))
		e.line("syscall")
		e.line("ori $2,$0,11")
		e.line("ori $4,$0,10")
		e.line("syscall")
	case *ast.InputStat:
		e.line("ori $2,$0,5")
		e.line("syscall")
		e.line("or $%d,$0,$2", e.regOf(st.Sym.Symbol))
	case *ast.CallStat:
		e.emitCall(st)
	case *ast.LoadStat:
		for _, v := range st.Vars {
			e.emitLoad(v)
		}
	case *ast.StoreStat:
		for _, v := range st.Vars {
			e.emitStore(v)
		}
	case *ast.NopStat:
		// nothing to emit
	}
}

func (e *Emitter) emitAssign(a *ast.AssignStat) {
	d := e.regOf(a.Target.Symbol)
	switch expr := a.Expr.(type) {
	case *ast.Const:
		e.line("ori $%d,$0,%d", d, expr.Value)
	case *ast.Var:
		e.line("or $%d,$0,$%d", d, e.regOf(expr.Symbol))
	case *ast.UnExpr:
		e.emitUnExpr(d, expr)
	case *ast.BinExpr:
		e.emitBinExpr(d, expr)
	}
}

// operand materializes expr (a Var or Const, per three-address form)
// into a register, using scratch if expr is a literal.
func (e *Emitter) operand(expr ast.Expr, scratch int) string {
	switch v := expr.(type) {
	case *ast.Const:
		e.line("ori $%d,$0,%d", scratch, v.Value)
		return fmt.Sprintf("$%d", scratch)
	case *ast.Var:
		return fmt.Sprintf("$%d", e.regOf(v.Symbol))
	default:
		return "$0"
	}
}

func (e *Emitter) emitUnExpr(d int, u *ast.UnExpr) {
	arg := e.operand(u.Arg, 4)
	switch u.Op {
	case ast.OpUPlus:
		e.line("or $%d,$0,%s", d, arg)
	case ast.OpUMinus:
		e.line("sub $%d,$0,%s", d, arg)
	case ast.OpOdd:
		e.line("andi $%d,%s,1", d, arg)
	}
}

func (e *Emitter) emitBinExpr(d int, b *ast.BinExpr) {
	lhs := e.operand(b.Lhs, 4)
	rhs := e.operand(b.Rhs, 5)
	switch b.Op {
	case ast.OpPlus:
		e.line("add $%d,%s,%s", d, lhs, rhs)
	case ast.OpMinus:
		e.line("sub $%d,%s,%s", d, lhs, rhs)
	case ast.OpTimes:
		e.line("mul $%d,%s,%s", d, lhs, rhs)
	case ast.OpSlash:
		e.line("div $%d,%s,%s", d, lhs, rhs)
	case ast.OpEql:
		e.line("slt $6,%s,%s", lhs, rhs)
		e.line("slt $7,%s,%s", rhs, lhs)
		e.line("or $%d,$6,$7", d)
		e.line("xori $%d,$%d,1", d, d)
	case ast.OpNeq:
		e.line("slt $6,%s,%s", lhs, rhs)
		e.line("slt $7,%s,%s", rhs, lhs)
		e.line("or $%d,$6,$7", d)
	case ast.OpLss:
		e.line("slt $%d,%s,%s", d, lhs, rhs)
	case ast.OpGtr:
		e.line("slt $%d,%s,%s", d, rhs, lhs)
	case ast.OpLeq:
		e.line("slt $%d,%s,%s", d, rhs, lhs)
		e.line("xori $%d,$%d,1", d, d)
	case ast.OpGeq:
		e.line("slt $%d,%s,%s", d, lhs, rhs)
		e.line("xori $%d,$%d,1", d, d)
	}
}

// emitCall allocates the callee's frame below the current $sp,
// propagates enclosing-frame pointers per spec §4.10, jumps in, then
// tears the frame back down. Slot i of the callee's stack sits at
// 4*(calleeSize-1-i)($sp) while $sp still points at the frame's base —
// the same arithmetic internal/layout.Offset uses relative to the
// eventual $fp, since the new $fp is set to $sp+4*(calleeSize-1).
func (e *Emitter) emitCall(call *ast.CallStat) {
	callee := call.Callee
	calleeStack := e.layout.Stacks[callee]
	callerStack := e.layout.Stacks[e.cur]
	size := calleeStack.Size()

	e.line("addi $sp,$sp,-%d", 4*(size+2))
	e.line("sw $ra,%d($sp)", 4*size)
	e.line("sw $fp,%d($sp)", 4*(size+1))

	for i, slot := range calleeStack.Slots {
		if slot.Kind != layout.SlotFramePointer {
			continue
		}
		dst := 4 * (size - 1 - i)
		if slot.Proc == e.cur {
			e.line("sw $fp,%d($sp)", dst)
			continue
		}
		k, _ := callerStack.FramePointerSlot(slot.Proc)
		e.line("lw $4,%d($fp)", layout.Offset(k))
		e.line("sw $4,%d($sp)", dst)
	}

	e.line("addi $fp,$sp,%d", 4*(size-1))
	e.line("jal %s", e.cfg.Entries[callee].Label)
	e.line("lw $fp,%d($sp)", 4*(size+1))
	e.line("lw $ra,%d($sp)", 4*size)
	e.line("addi $sp,$sp,%d", 4*(size+2))
}

// emitLoad/emitStore resolve sym's stack slot from the current
// procedure's own frame, or from an enclosing procedure's frame
// reached through a frame-pointer slot, and skip temporaries (they
// never have a stack slot; their value is assumed live in a register).
func (e *Emitter) emitLoad(sym *symtab.Symbol) {
	if sym.Temp {
		return
	}
	stack := e.layout.Stacks[e.cur]
	if idx, ok := stack.LocalSlot(sym); ok {
		e.line("lw $%d,%d($fp)", e.regOf(sym), layout.Offset(idx))
		return
	}
	k, _ := stack.FramePointerSlot(sym.Level)
	j, _ := e.layout.Stacks[sym.Level].LocalSlot(sym)
	e.line("lw $4,%d($fp)", layout.Offset(k))
	e.line("lw $%d,%d($4)", e.regOf(sym), layout.Offset(j))
}

func (e *Emitter) emitStore(sym *symtab.Symbol) {
	if sym.Temp {
		return
	}
	stack := e.layout.Stacks[e.cur]
	if idx, ok := stack.LocalSlot(sym); ok {
		e.line("sw $%d,%d($fp)", e.regOf(sym), layout.Offset(idx))
		return
	}
	k, _ := stack.FramePointerSlot(sym.Level)
	j, _ := e.layout.Stacks[sym.Level].LocalSlot(sym)
	e.line("lw $4,%d($fp)", layout.Offset(k))
	e.line("sw $%d,%d($4)", e.regOf(sym), layout.Offset(j))
}
