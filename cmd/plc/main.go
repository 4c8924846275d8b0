// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"plc/internal/compiler"
	"plc/internal/errors"
	"plc/internal/viz"
)

func main() {
	dumpSymtab := flag.Bool("dump-symtab", false, "print the symbol table tree and exit without emitting assembly")
	dumpLayout := flag.Bool("dump-layout", false, "print every procedure's stack layout and exit without emitting assembly")
	dumpCallgraph := flag.Bool("dump-callgraph", false, "print the call graph as Graphviz DOT and exit without emitting assembly")
	dumpInterference := flag.Bool("dump-interference", false, "print every procedure's interference graph as Graphviz DOT and exit without emitting assembly")
	output := flag.String("o", "", "output assembly path (default: replace the source extension with .s)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: plc [flags] <file.pl0>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Arg(0)

	ctx, err := compiler.CompileFile(path)
	if err != nil {
		reportError(path, err)
		os.Exit(1)
	}

	switch {
	case *dumpSymtab:
		fmt.Print(viz.PrintSymbolTable(ctx.Program))
		return
	case *dumpLayout:
		fmt.Print(viz.PrintStackLayout(ctx.Layout, ctx.CallGraph.Order))
		return
	case *dumpCallgraph:
		fmt.Print(viz.CallGraphDOT(ctx.CallGraph))
		return
	case *dumpInterference:
		for _, proc := range ctx.CallGraph.Order {
			if g, ok := ctx.RegAlloc[proc]; ok {
				fmt.Print(viz.InterferenceDOT(proc, g))
			}
		}
		return
	}

	dest := *output
	if dest == "" {
		dest = withAsmExt(path)
	}
	if err := ctx.WriteAssembly(dest); err != nil {
		reportError(path, err)
		os.Exit(1)
	}
	color.Green("compiled %s -> %s", path, dest)
}

func withAsmExt(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i] + ".s"
	}
	return path + ".s"
}

// reportError prints a CompilerError with the caret-style formatter, a
// raw participle parse error with reportParseError, and anything else
// (an unwrapped I/O failure, or a CompilerError whose source cannot be
// re-read) as a plain message.
func reportError(path string, err error) {
	if ce, ok := err.(errors.CompilerError); ok {
		source, readErr := os.ReadFile(path)
		if readErr == nil {
			fmt.Print(errors.NewErrorReporter(path, string(source)).FormatError(ce))
			return
		}
	}
	if pe, ok := err.(participle.Error); ok {
		reportParseError(path, pe)
		return
	}
	color.Red("error: %s", err)
}

func reportParseError(path string, pe participle.Error) {
	source, readErr := os.ReadFile(path)
	if readErr != nil {
		color.Red("%s", pe)
		return
	}
	pos := pe.Position()
	lines := strings.Split(string(source), "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", pe)
		return
	}
	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
