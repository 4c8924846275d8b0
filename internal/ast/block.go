package ast

import (
	"fmt"
	"strings"

	"plc/internal/symtab"
)

// Block is a procedure body: its local symbol table, any nested procedure
// definitions, and its statement list.
type Block struct {
	Position     Position
	LocalSymtab  *symtab.Table
	Defs         []*FunctionDef
	Body         *StatList
}

func (b *Block) Pos() Position        { return b.Position }
func (b *Block) NodeKind() Kind       { return KindBlock }
func (b *Block) Scope() *symtab.Table { return b.LocalSymtab }
func (b *Block) String() string {
	var sb strings.Builder
	for _, d := range b.Defs {
		sb.WriteString(d.String())
		sb.WriteString("; ")
	}
	if b.Body != nil {
		sb.WriteString(b.Body.String())
	}
	return sb.String()
}

// FunctionDef is a procedure declaration: the procedure's own symbol (as
// seen from the parent scope) and its body.
type FunctionDef struct {
	Position Position
	Symbol   *symtab.Symbol
	Body     *Block
}

func (f *FunctionDef) Pos() Position  { return f.Position }
func (f *FunctionDef) NodeKind() Kind { return KindFunctionDef }
func (f *FunctionDef) String() string { return fmt.Sprintf("procedure %s", f.Symbol.Name) }

// Program is the whole-program root: the synthetic global procedure
// symbol and its top-level block.
type Program struct {
	Global *symtab.Symbol
	Body   *Block
}

// BasicBlock is a sequence of three-address instructions plus labeled
// successors from {next, then, else, true, false} (spec §3 "Basic
// block"). Exactly one successor set is populated at a time: either Next,
// or Then/Else (pre-branch-lowering), or True/False (once the block ends
// in a BranchStat).
type BasicBlock struct {
	ID           int
	Label        string
	EndLabel     string
	Instructions []Stat

	Next  *BasicBlock
	Then  *BasicBlock
	Else  *BasicBlock
	True  *BasicBlock
	False *BasicBlock

	// Owner is the procedure this block belongs to.
	Owner *symtab.Symbol

	// Liveness annotations, populated by internal/liveness (spec §4.7).
	LiveIn  map[*symtab.Symbol]bool
	LiveOut map[*symtab.Symbol]bool
}

// Successors returns this block's populated successor edges, labeled the
// way spec §3 describes ({"next"|"then"|"else"|"true"|"false"} -> block).
func (b *BasicBlock) Successors() map[string]*BasicBlock {
	out := make(map[string]*BasicBlock)
	if b.Next != nil {
		out["next"] = b.Next
	}
	if b.Then != nil {
		out["then"] = b.Then
	}
	if b.Else != nil {
		out["else"] = b.Else
	}
	if b.True != nil {
		out["true"] = b.True
	}
	if b.False != nil {
		out["false"] = b.False
	}
	return out
}

// Terminator returns the block's terminating BranchStat, or nil if the
// block does not end in one.
func (b *BasicBlock) Terminator() *BranchStat {
	if len(b.Instructions) == 0 {
		return nil
	}
	if br, ok := b.Instructions[len(b.Instructions)-1].(*BranchStat); ok {
		return br
	}
	return nil
}

func (b *BasicBlock) String() string { return b.Label }

// CFG maps each procedure symbol to its entry block plus the enumerated
// reachable block list, per spec §3 "CFG".
type CFG struct {
	Entries map[*symtab.Symbol]*BasicBlock
	Blocks  map[*symtab.Symbol][]*BasicBlock
}

// NewCFG creates an empty control-flow graph container.
func NewCFG() *CFG {
	return &CFG{
		Entries: make(map[*symtab.Symbol]*BasicBlock),
		Blocks:  make(map[*symtab.Symbol][]*BasicBlock),
	}
}
