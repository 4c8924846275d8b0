package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"plc/internal/ast"
)

func TestErrorReporter(t *testing.T) {
	source := `var x;
begin
  x := unknownVar
end.`

	reporter := NewErrorReporter("test.pl0", source)

	err := UndefinedIdentifier("unknownVar", ast.Position{Line: 3, Column: 8}, []string{"knownVar"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedIdentifier+"]")
	assert.Contains(t, formatted, "undefined identifier")
	assert.Contains(t, formatted, "unknownVar")
	assert.Contains(t, formatted, "test.pl0:3:8")
	assert.Contains(t, formatted, "did you mean")
	assert.Contains(t, formatted, "knownVar")
}

func TestUndefinedIdentifierError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := UndefinedIdentifier("balace", pos, []string{"balance"})
	assert.Equal(t, ErrorUndefinedIdentifier, err.Code)
	assert.Contains(t, err.Message, "balace")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "did you mean 'balance'")

	err = UndefinedIdentifier("xyz", pos, nil)
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "declare it")
}

func TestAssignToConstantError(t *testing.T) {
	pos := ast.Position{Line: 2, Column: 3}
	err := AssignToConstant("k", pos)
	assert.Equal(t, ErrorAssignToConstant, err.Code)
	assert.Contains(t, err.Message, "constant 'k'")
	assert.NotEmpty(t, err.HelpText)
}

func TestCallNonProcedureError(t *testing.T) {
	pos := ast.Position{Line: 4, Column: 1}
	err := CallNonProcedure("x", pos)
	assert.Equal(t, ErrorCallNonProcedure, err.Code)
	assert.Contains(t, err.Message, "'x' is not a procedure")
}

func TestTooManyLiveVariablesError(t *testing.T) {
	pos := ast.Position{Line: 10, Column: 1}
	err := TooManyLiveVariables("sq", 19, pos)
	assert.Equal(t, ErrorTooManyLiveVariables, err.Code)
	assert.Contains(t, err.Message, "19 simultaneously live")
	assert.Contains(t, err.Message, "sq")
}

func TestDivisionByZeroError(t *testing.T) {
	err := DivisionByZero(ast.Position{Line: 1, Column: 1})
	assert.Equal(t, ErrorDivisionByZero, err.Code)
}

func TestIOErrors(t *testing.T) {
	readErr := SourceUnreadable("missing.pl0", assertErr{"no such file"})
	assert.Equal(t, ErrorSourceUnreadable, readErr.Code)
	assert.Contains(t, readErr.Message, "missing.pl0")

	writeErr := OutputUnwritable("out.s", assertErr{"permission denied"})
	assert.Equal(t, ErrorOutputUnwritable, writeErr.Code)
	assert.Contains(t, writeErr.Message, "out.s")
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable = value;`
	reporter := NewErrorReporter("test.pl0", source)

	marker := reporter.createMarker(5, 8, Error)

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces)
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("test.pl0", source)
	pos := ast.Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}
