package errors

import (
	"fmt"
	"strings"

	"plc/internal/ast"
)

// CompilerErrorBuilder is a fluent builder for CompilerError, shared by
// every diagnostic constructor below.
type CompilerErrorBuilder struct {
	err CompilerError
}

func newBuilder(level ErrorLevel, code, message string, pos ast.Position) *CompilerErrorBuilder {
	return &CompilerErrorBuilder{err: CompilerError{Level: level, Code: code, Message: message, Position: pos, Length: 1}}
}

func (b *CompilerErrorBuilder) WithLength(n int) *CompilerErrorBuilder {
	b.err.Length = n
	return b
}

func (b *CompilerErrorBuilder) WithSuggestion(msg string) *CompilerErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: msg})
	return b
}

func (b *CompilerErrorBuilder) WithNote(note string) *CompilerErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

func (b *CompilerErrorBuilder) WithHelp(help string) *CompilerErrorBuilder {
	b.err.HelpText = help
	return b
}

func (b *CompilerErrorBuilder) Build() CompilerError { return b.err }

// Lexical / syntactic diagnostics (§7 "Lexical / syntactic")

func UnexpectedToken(found, wanted string, pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorUnexpectedToken, fmt.Sprintf("unexpected token %q, expected %s", found, wanted), pos).
		Build()
}

func MissingTerminator(what string, pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorMissingTerminator, fmt.Sprintf("missing %s", what), pos).
		WithHelp("every PL/0 program ends with '.' and every statement list closes its 'begin'/'end' pair").
		Build()
}

// Semantic diagnostics (§7 "Semantic")

func UndefinedIdentifier(name string, pos ast.Position, similar []string) CompilerError {
	b := newBuilder(Error, ErrorUndefinedIdentifier, fmt.Sprintf("undefined identifier '%s'", name), pos).
		WithLength(len(name))
	if len(similar) > 0 {
		b = b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	} else {
		b = b.WithSuggestion("declare it with 'const' or 'var' before use")
	}
	return b.Build()
}

func AssignToConstant(name string, pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorAssignToConstant, fmt.Sprintf("cannot assign to constant '%s'", name), pos).
		WithLength(len(name)).
		WithHelp("constants declared with 'const' are immutable for the lifetime of the program").
		Build()
}

func CallNonProcedure(name string, pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorCallNonProcedure, fmt.Sprintf("'%s' is not a procedure", name), pos).
		WithLength(len(name)).
		Build()
}

func DuplicateDeclaration(name string, pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorDuplicateDeclaration, fmt.Sprintf("'%s' is already declared in this scope", name), pos).
		WithLength(len(name)).
		Build()
}

// Lowering-internal diagnostics (§7 "Lowering-internal")

func UnrecognizedNode(kind ast.Kind, pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorUnrecognizedNode, fmt.Sprintf("internal error: unrecognized IR node kind %d reached a lowering pass", kind), pos).
		Build()
}

func DivisionByZero(pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorDivisionByZero, "division by zero in constant expression", pos).
		WithHelp("the compiler refuses to fold a division with a literal zero divisor").
		Build()
}

// Allocator diagnostics (§7 "Allocator")

func TooManyLiveVariables(procedure string, count int, pos ast.Position) CompilerError {
	return newBuilder(Error, ErrorTooManyLiveVariables, fmt.Sprintf("procedure '%s' has %d simultaneously live variables, more than the 18 available registers", procedure, count), pos).
		WithHelp("this compiler does not spill beyond the liveness-edge load/store discipline; split the procedure or shorten variable lifetimes").
		Build()
}

// I/O diagnostics (§7 "I/O")

func SourceUnreadable(path string, cause error) CompilerError {
	return newBuilder(Error, ErrorSourceUnreadable, fmt.Sprintf("cannot read source file '%s': %s", path, cause), ast.Position{Filename: path}).
		Build()
}

func OutputUnwritable(path string, cause error) CompilerError {
	return newBuilder(Error, ErrorOutputUnwritable, fmt.Sprintf("cannot write output file '%s': %s", path, cause), ast.Position{Filename: path}).
		Build()
}
