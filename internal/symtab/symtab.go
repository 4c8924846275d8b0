// Package symtab implements the symbol table tree: the per-procedure scope
// chain the parser hands the middle-end, plus the per-symbol bookkeeping
// (constant value, owning procedure, temp flag, and per-procedure register
// coloring) described in spec §3 "Symbol".
package symtab

import (
	"fmt"

	"plc/internal/types"
)

// Symbol is a named binding: a constant, variable, or procedure.
type Symbol struct {
	Name string
	Type *types.Descriptor

	// Value is non-nil exactly when this symbol is a compile-time constant.
	Value *int

	// Level is the enclosing procedure that owns this symbol. For the
	// synthetic global procedure symbol, Level is nil.
	Level *Symbol

	// Temp marks symbols minted by FreshTemp rather than declared in source.
	Temp bool

	// IsProcedure marks this symbol as naming a procedure (its Type is the
	// function tag and Level is the procedure's *lexical parent*).
	IsProcedure bool

	// Registers maps "procedure in which this symbol is read/written" to
	// the register index the coloring allocator assigned it there. A
	// symbol referenced from several procedures (because an inner
	// procedure reaches into an outer one's frame) may be colored
	// differently in each.
	Registers map[*Symbol]int
}

// RegisterIn returns the register assigned to s within procedure proc, and
// whether one has been assigned yet.
func (s *Symbol) RegisterIn(proc *Symbol) (int, bool) {
	r, ok := s.Registers[proc]
	return r, ok
}

// SetRegisterIn records the register the coloring allocator picked for s
// when used inside procedure proc.
func (s *Symbol) SetRegisterIn(proc *Symbol, reg int) {
	if s.Registers == nil {
		s.Registers = make(map[*Symbol]int)
	}
	s.Registers[proc] = reg
}

// IsConst reports whether s names a compile-time constant.
func (s *Symbol) IsConst() bool { return s.Value != nil }

func (s *Symbol) String() string {
	if s == nil {
		return "<nil-symbol>"
	}
	return s.Name
}

// Table is an ordered scope: symbols declared directly in it, plus a
// parent pointer to the enclosing scope. Scopes form a tree isomorphic to
// the procedure nesting tree; each scope is owned by exactly one procedure
// symbol (Owner).
type Table struct {
	order  []string
	byName map[string]*Symbol
	parent *Table
	Owner  *Symbol // the procedure symbol whose body this scope belongs to

	tempSeq int
}

// NewTable creates a scope nested inside parent (nil for the root/global
// scope) and owned by the given procedure symbol.
func NewTable(parent *Table, owner *Symbol) *Table {
	return &Table{
		byName: make(map[string]*Symbol),
		parent: parent,
		Owner:  owner,
	}
}

// Parent returns the enclosing scope, or nil at the root.
func (t *Table) Parent() *Table { return t.parent }

// Define inserts a new symbol into this scope. It does not check for
// redeclaration; callers that need that diagnostic check LookupLocal first.
func (t *Table) Define(sym *Symbol) *Symbol {
	if _, exists := t.byName[sym.Name]; !exists {
		t.order = append(t.order, sym.Name)
	}
	t.byName[sym.Name] = sym
	return sym
}

// Find walks up the parent chain looking for name, returning nil if no
// scope up to and including the root defines it.
func (t *Table) Find(name string) *Symbol {
	for s := t; s != nil; s = s.parent {
		if sym, ok := s.byName[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal looks only in this scope, without walking to the parent.
func (t *Table) LookupLocal(name string) *Symbol {
	return t.byName[name]
}

// FreshTemp mints a new, unique temporary symbol in this scope owned by
// the same procedure as the scope itself.
func (t *Table) FreshTemp(typ *types.Descriptor) *Symbol {
	t.tempSeq++
	for t.byName[fmt.Sprintf("t%d", t.tempSeq)] != nil {
		t.tempSeq++
	}
	sym := &Symbol{
		Name:  fmt.Sprintf("t%d", t.tempSeq),
		Type:  typ,
		Level: t.Owner,
		Temp:  true,
	}
	return t.Define(sym)
}

// Symbols returns the symbols declared directly in this scope, in
// declaration order.
func (t *Table) Symbols() []*Symbol {
	out := make([]*Symbol, len(t.order))
	for i, name := range t.order {
		out[i] = t.byName[name]
	}
	return out
}

// ExternalVars filters uses (the symbols the caller found referenced inside
// this scope's owning procedure) down to those whose Level is not that
// procedure and which are not procedures themselves — i.e. the procedure's
// free-variable set — dropping duplicates and keeping first-seen order.
func (t *Table) ExternalVars(uses []*Symbol) []*Symbol {
	var out []*Symbol
	seen := make(map[*Symbol]bool)
	for _, sym := range uses {
		if sym.IsProcedure || sym.Level == t.Owner || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
