package ast

import (
	"fmt"
	"strings"

	"plc/internal/symtab"
)

// AssignStat assigns the value of Expr to Target.
type AssignStat struct {
	Position Position
	Target   *Var
	Expr     Expr
}

func (a *AssignStat) Pos() Position  { return a.Position }
func (a *AssignStat) NodeKind() Kind { return KindAssignStat }
func (a *AssignStat) String() string { return fmt.Sprintf("%s := %s", a.Target, a.Expr) }
func (*AssignStat) isStat()          {}

// CallStat invokes a procedure for effect.
type CallStat struct {
	Position Position
	Callee   *symtab.Symbol
}

func (c *CallStat) Pos() Position  { return c.Position }
func (c *CallStat) NodeKind() Kind { return KindCallStat }
func (c *CallStat) String() string { return fmt.Sprintf("call %s", c.Callee.Name) }
func (*CallStat) isStat()          {}

// IfStat is structured conditional control flow. Else is nil when the
// source omitted the else branch.
type IfStat struct {
	Position Position
	Cond     Expr
	Then     Stat
	Else     Stat
}

func (i *IfStat) Pos() Position  { return i.Position }
func (i *IfStat) NodeKind() Kind { return KindIfStat }
func (i *IfStat) String() string {
	if i.Else != nil {
		return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else)
	}
	return fmt.Sprintf("if %s then %s", i.Cond, i.Then)
}
func (*IfStat) isStat() {}

// WhileStat is structured loop control flow.
type WhileStat struct {
	Position Position
	Cond     Expr
	Body     Stat
}

func (w *WhileStat) Pos() Position  { return w.Position }
func (w *WhileStat) NodeKind() Kind { return KindWhileStat }
func (w *WhileStat) String() string { return fmt.Sprintf("while %s do %s", w.Cond, w.Body) }
func (*WhileStat) isStat()          {}

// PrintStat prints a variable's value followed by a newline.
type PrintStat struct {
	Position Position
	Sym      *Var
}

func (p *PrintStat) Pos() Position  { return p.Position }
func (p *PrintStat) NodeKind() Kind { return KindPrintStat }
func (p *PrintStat) String() string { return fmt.Sprintf("print %s", p.Sym) }
func (*PrintStat) isStat()          {}

// InputStat reads an integer into a variable.
type InputStat struct {
	Position Position
	Sym      *Var
}

func (in *InputStat) Pos() Position  { return in.Position }
func (in *InputStat) NodeKind() Kind { return KindInputStat }
func (in *InputStat) String() string { return fmt.Sprintf("input %s", in.Sym) }
func (*InputStat) isStat()           {}

// StatList is an ordered sequence of statements.
type StatList struct {
	Position Position
	Stats    []Stat
}

func (s *StatList) Pos() Position  { return s.Position }
func (s *StatList) NodeKind() Kind { return KindStatList }
func (s *StatList) String() string {
	parts := make([]string, len(s.Stats))
	for i, st := range s.Stats {
		parts[i] = st.String()
	}
	return strings.Join(parts, "; ")
}
func (*StatList) isStat() {}

// NopStat is a no-op, used to pad blocks that would otherwise be empty.
type NopStat struct {
	Position Position
}

func (n *NopStat) Pos() Position  { return n.Position }
func (n *NopStat) NodeKind() Kind { return KindNopStat }
func (n *NopStat) String() string { return "nop" }
func (*NopStat) isStat()          {}

// BranchStat is a lowered conditional branch introduced by CFG
// construction (spec §4.3). A block ending in BranchStat has exactly the
// two successors OnTrue and OnFalse.
type BranchStat struct {
	Position Position
	Cond     *Var
	OnTrue   *BasicBlock
	OnFalse  *BasicBlock
}

func (b *BranchStat) Pos() Position  { return b.Position }
func (b *BranchStat) NodeKind() Kind { return KindBranchStat }
func (b *BranchStat) String() string {
	return fmt.Sprintf("branch %s ? %s : %s", b.Cond, b.OnTrue.Label, b.OnFalse.Label)
}
func (*BranchStat) isStat() {}

// LoadStat is a spill-discipline pseudo-instruction inserted by liveness
// (spec §4.8): it names the variables that must be reloaded into
// registers at this point, without naming concrete registers — the
// emitter resolves those from the stack layout.
type LoadStat struct {
	Position Position
	Vars     []*symtab.Symbol
}

func (l *LoadStat) Pos() Position  { return l.Position }
func (l *LoadStat) NodeKind() Kind { return KindLoadStat }
func (l *LoadStat) String() string { return fmt.Sprintf("load %s", symbolNames(l.Vars)) }
func (*LoadStat) isStat()          {}

// StoreStat is the dual of LoadStat: variables that must be spilled to
// their stack slot at this point.
type StoreStat struct {
	Position Position
	Vars     []*symtab.Symbol
}

func (s *StoreStat) Pos() Position  { return s.Position }
func (s *StoreStat) NodeKind() Kind { return KindStoreStat }
func (s *StoreStat) String() string { return fmt.Sprintf("store %s", symbolNames(s.Vars)) }
func (*StoreStat) isStat()          {}

func symbolNames(syms []*symtab.Symbol) string {
	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = s.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}
