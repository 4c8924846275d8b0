// Package viz renders compiler state as human- or tool-readable text:
// aligned symbol/layout tables for a terminal, and Graphviz DOT source
// for the call graph and per-procedure interference graphs. None of
// this feeds back into compilation; every CLI flag that reaches it is
// non-contractual debugging output (spec.md §6 "No flags are
// contractual"). Grounded on original_source/symboltable.py's
// print_symtab/rowify and datalayout.py's print_data_layout, with the
// Texttable rendering replaced by fatih/color-styled columns — the
// pack carries no Go table-rendering library.
package viz

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"plc/internal/ast"
	"plc/internal/symtab"
)

// PrintSymbolTable renders every symbol declared anywhere in prog as a
// Symbol/Type/Level/Register table, one section per procedure.
func PrintSymbolTable(prog *ast.Program) string {
	var sb strings.Builder
	header := color.New(color.Bold).SprintFunc()

	var visit func(owner *symtab.Symbol, blk *ast.Block)
	visit = func(owner *symtab.Symbol, blk *ast.Block) {
		sb.WriteString(header(fmt.Sprintf("procedure %s\n", owner.Name)))
		sb.WriteString(fmt.Sprintf("%-12s %-10s %-8s %s\n", "symbol", "type", "level", "register"))
		for _, sym := range blk.LocalSymtab.Symbols() {
			kind := "var"
			switch {
			case sym.IsConst():
				kind = "const"
			case sym.IsProcedure:
				kind = "procedure"
			case sym.Temp:
				kind = "temp"
			}
			levelName := "<root>"
			if sym.Level != nil {
				levelName = sym.Level.Name
			}
			reg := "-"
			if r, ok := sym.RegisterIn(owner); ok {
				reg = fmt.Sprintf("$%d", r)
			}
			sb.WriteString(fmt.Sprintf("%-12s %-10s %-8s %s\n", sym.Name, kind, levelName, reg))
		}
		sb.WriteString("\n")
		for _, def := range blk.Defs {
			visit(def.Symbol, def.Body)
		}
	}
	visit(prog.Global, prog.Body)
	return sb.String()
}
