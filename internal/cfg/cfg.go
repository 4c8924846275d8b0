// Package cfg builds the per-procedure control-flow graph from a
// procedure's statement list (spec §4.3). It holds no data types of its
// own: BasicBlock and CFG live in internal/ast (a BranchStat, itself an
// ast.Stat, has to reference *ast.BasicBlock, so the two can't be split
// across packages without a cycle) — this package is purely the
// algorithm that populates them.
package cfg

import (
	"fmt"

	"plc/internal/ast"
	"plc/internal/symtab"
	"plc/internal/types"
)

// Build walks every procedure reachable from prog (the implicit global
// procedure plus every nested FunctionDef) and returns the whole-program
// CFG, keyed by procedure symbol.
func Build(prog *ast.Program, reg *types.Registry) (*ast.CFG, error) {
	b := &builder{cfg: ast.NewCFG(), types: reg}
	if err := b.buildProcedure(prog.Global, prog.Body); err != nil {
		return nil, err
	}
	return b.cfg, nil
}

type builder struct {
	cfg   *ast.CFG
	types *types.Registry
	seq   int
}

func (b *builder) buildProcedure(owner *symtab.Symbol, blk *ast.Block) error {
	for _, def := range blk.Defs {
		if err := b.buildProcedure(def.Symbol, def.Body); err != nil {
			return err
		}
	}

	entry := b.newBlock(owner)
	tail := b.process(owner, blk.LocalSymtab, entry, blk.Body.Stats)
	padIfEmpty(tail)
	padIfEmpty(entry)

	b.cfg.Entries[owner] = entry
	b.cfg.Blocks[owner] = reachable(entry)
	return nil
}

func (b *builder) newBlock(owner *symtab.Symbol) *ast.BasicBlock {
	b.seq++
	label := fmt.Sprintf("%s_%d", owner.Name, b.seq)
	return &ast.BasicBlock{ID: b.seq, Label: label, EndLabel: label + "_end", Owner: owner}
}

// process appends stats to cur, splitting into new blocks at structured
// control flow, and returns the block subsequent statements should
// continue appending to.
func (b *builder) process(owner *symtab.Symbol, scope *symtab.Table, cur *ast.BasicBlock, stats []ast.Stat) *ast.BasicBlock {
	for _, s := range stats {
		switch st := s.(type) {
		case *ast.IfStat:
			condVar := b.evalCond(scope, cur, st.Cond)
			thenBlock := b.newBlock(owner)
			elseBlock := b.newBlock(owner)
			cur.Instructions = append(cur.Instructions, &ast.BranchStat{
				Position: st.Position, Cond: condVar, OnTrue: thenBlock, OnFalse: elseBlock,
			})
			cur.True, cur.False = thenBlock, elseBlock

			thenTail := b.process(owner, scope, thenBlock, flatten(st.Then))
			elseTail := b.process(owner, scope, elseBlock, flatten(st.Else))

			rest := b.newBlock(owner)
			padIfEmpty(thenTail)
			thenTail.Next = rest
			padIfEmpty(elseTail)
			elseTail.Next = rest
			cur = rest

		case *ast.WhileStat:
			condBlock := b.newBlock(owner)
			padIfEmpty(cur)
			cur.Next = condBlock

			bodyBlock := b.newBlock(owner)
			rest := b.newBlock(owner)
			condVar := b.evalCond(scope, condBlock, st.Cond)
			condBlock.Instructions = append(condBlock.Instructions, &ast.BranchStat{
				Position: st.Position, Cond: condVar, OnTrue: bodyBlock, OnFalse: rest,
			})
			condBlock.True, condBlock.False = bodyBlock, rest

			bodyTail := b.process(owner, scope, bodyBlock, flatten(st.Body))
			padIfEmpty(bodyTail)
			bodyTail.Next = condBlock
			cur = rest

		case *ast.CallStat:
			if len(cur.Instructions) == 0 {
				cur.Instructions = append(cur.Instructions, st)
				continue
			}
			callBlock := b.newBlock(owner)
			callBlock.Instructions = append(callBlock.Instructions, st)
			cur.Next = callBlock
			rest := b.newBlock(owner)
			callBlock.Next = rest
			cur = rest

		default:
			cur.Instructions = append(cur.Instructions, st)
		}
	}
	return cur
}

// evalCond lowers a condition expression into an AssignStat targeting a
// fresh temporary, appended to cur, and returns the temporary as the
// Var a BranchStat can test.
func (b *builder) evalCond(scope *symtab.Table, cur *ast.BasicBlock, cond ast.Expr) *ast.Var {
	temp := scope.FreshTemp(b.types.Int())
	v := &ast.Var{Position: cond.Pos(), Symbol: temp, Enclosing: scope}
	cur.Instructions = append(cur.Instructions, &ast.AssignStat{Position: cond.Pos(), Target: v, Expr: cond})
	return v
}

// flatten normalizes a (possibly nil, possibly StatList) Stat into the
// slice of statements it stands for.
func flatten(s ast.Stat) []ast.Stat {
	if s == nil {
		return nil
	}
	if sl, ok := s.(*ast.StatList); ok {
		return sl.Stats
	}
	return []ast.Stat{s}
}

func padIfEmpty(b *ast.BasicBlock) {
	if len(b.Instructions) == 0 {
		b.Instructions = append(b.Instructions, &ast.NopStat{})
	}
}

// reachable enumerates every block reachable from entry via any
// successor edge, in discovery order.
func reachable(entry *ast.BasicBlock) []*ast.BasicBlock {
	var order []*ast.BasicBlock
	seen := make(map[*ast.BasicBlock]bool)
	var visit func(*ast.BasicBlock)
	visit = func(bb *ast.BasicBlock) {
		if bb == nil || seen[bb] {
			return
		}
		seen[bb] = true
		order = append(order, bb)
		visit(bb.Next)
		visit(bb.Then)
		visit(bb.Else)
		visit(bb.True)
		visit(bb.False)
	}
	visit(entry)
	return order
}
