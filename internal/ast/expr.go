package ast

import (
	"fmt"

	"plc/internal/symtab"
)

// BinOp enumerates the binary operators spec §4.2 folds and §4.10 emits.
type BinOp int

const (
	OpTimes BinOp = iota
	OpSlash
	OpPlus
	OpMinus
	OpEql
	OpNeq
	OpLss
	OpLeq
	OpGtr
	OpGeq
)

func (o BinOp) String() string {
	switch o {
	case OpTimes:
		return "*"
	case OpSlash:
		return "/"
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpEql:
		return "="
	case OpNeq:
		return "<>"
	case OpLss:
		return "<"
	case OpLeq:
		return "<="
	case OpGtr:
		return ">"
	case OpGeq:
		return ">="
	default:
		return "?"
	}
}

// IsComparison reports whether o produces a 0/1 boolean result.
func (o BinOp) IsComparison() bool {
	switch o {
	case OpEql, OpNeq, OpLss, OpLeq, OpGtr, OpGeq:
		return true
	default:
		return false
	}
}

// UnOp enumerates the unary operators spec §4.2 folds.
type UnOp int

const (
	OpUPlus UnOp = iota
	OpUMinus
	OpOdd
)

func (o UnOp) String() string {
	switch o {
	case OpUPlus:
		return "+"
	case OpUMinus:
		return "-"
	case OpOdd:
		return "odd"
	default:
		return "?"
	}
}

// Const is an integer literal.
type Const struct {
	Position Position
	Value    int
}

func (c *Const) Pos() Position   { return c.Position }
func (c *Const) NodeKind() Kind  { return KindConst }
func (c *Const) String() string  { return fmt.Sprintf("%d", c.Value) }
func (*Const) isExpr()           {}

// Var references a declared symbol (constant, variable, or fresh temp).
type Var struct {
	Position Position
	Symbol   *symtab.Symbol
	Enclosing *symtab.Table
}

func (v *Var) Pos() Position           { return v.Position }
func (v *Var) NodeKind() Kind          { return KindVar }
func (v *Var) String() string          { return v.Symbol.Name }
func (v *Var) Scope() *symtab.Table    { return v.Enclosing }
func (*Var) isExpr()                   {}

// BinExpr is a two-operand arithmetic or comparison expression.
type BinExpr struct {
	Position Position
	Op       BinOp
	Lhs      Expr
	Rhs      Expr
}

func (b *BinExpr) Pos() Position  { return b.Position }
func (b *BinExpr) NodeKind() Kind { return KindBinExpr }
func (b *BinExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op, b.Rhs) }
func (*BinExpr) isExpr()          {}

// UnExpr is a one-operand expression.
type UnExpr struct {
	Position Position
	Op       UnOp
	Arg      Expr
}

func (u *UnExpr) Pos() Position  { return u.Position }
func (u *UnExpr) NodeKind() Kind { return KindUnExpr }
func (u *UnExpr) String() string { return fmt.Sprintf("(%s %s)", u.Op, u.Arg) }
func (*UnExpr) isExpr()          {}

// CallExpr is unused by surface PL/0 (procedures have no return value) and
// no pass creates one; it is retained in the node sum for symmetry with
// CallStat.
type CallExpr struct {
	Position Position
	Callee   *symtab.Symbol
	Args     []Expr
}

func (c *CallExpr) Pos() Position  { return c.Position }
func (c *CallExpr) NodeKind() Kind { return KindCallExpr }
func (c *CallExpr) String() string { return fmt.Sprintf("call %s", c.Callee.Name) }
func (*CallExpr) isExpr()          {}
