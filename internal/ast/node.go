// Package ast defines the tagged IR the middle- and back-end pipeline
// operates on (spec §3 "AST / IR node"). It is a sum type over structured
// control-flow forms (IfStat, WhileStat, ...) and the lowered forms later
// passes introduce (BranchStat, LoadStat, StoreStat). A pass that needs to
// replace a node constructs a new one and reassigns the parent's slot,
// rather than mutating node identity through a back-pointer.
package ast

import (
	"fmt"

	"plc/internal/symtab"
)

// Position tracks location information for error reporting.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Kind tags every concrete node type in the sum.
type Kind int

const (
	KindConst Kind = iota
	KindVar
	KindBinExpr
	KindUnExpr
	KindCallExpr
	KindAssignStat
	KindCallStat
	KindIfStat
	KindWhileStat
	KindPrintStat
	KindInputStat
	KindStatList
	KindBlock
	KindFunctionDef
	KindNopStat
	KindBranchStat
	KindLoadStat
	KindStoreStat
)

// Node is the common interface every IR node implements.
type Node interface {
	Pos() Position
	NodeKind() Kind
	String() string
}

// Expr is a Node that produces a value.
type Expr interface {
	Node
	isExpr()
}

// Stat is a Node that executes for effect.
type Stat interface {
	Node
	isStat()
}

// Scoped is implemented by every node that carries a reference to its
// enclosing scope, per spec §3 "Every node carries a reference to its
// enclosing scope."
type Scoped interface {
	Scope() *symtab.Table
}
