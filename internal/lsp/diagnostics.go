package lsp

import (
	"github.com/alecthomas/participle/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"plc/grammar"
	"plc/internal/compiler"
	"plc/internal/errors"
)

// compileText runs the full pipeline over in-memory source, the way
// compiler.CompileFile does for a path on disk, without ever touching
// stdout: grammar.ParseSource only parses the text it is given and
// prints nothing, which is what makes reusing it here safe.
func compileText(path, text string) (*compiler.Context, error) {
	prog, err := grammar.ParseSource(path, text)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(path, prog)
}

// ConvertError turns whatever CompileFile/compileText returned into
// LSP diagnostics: a structured CompilerError maps directly onto a
// single Diagnostic at its recorded position; a raw participle parse
// error is converted from its token position the same way.
func ConvertError(err error) []protocol.Diagnostic {
	if ce, ok := err.(errors.CompilerError); ok {
		return []protocol.Diagnostic{compilerErrorDiagnostic(ce)}
	}
	if pe, ok := err.(participle.Error); ok {
		return []protocol.Diagnostic{parseErrorDiagnostic(pe)}
	}
	return []protocol.Diagnostic{{
		Range:    zeroRange(),
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   strPtr("plc"),
		Message:  err.Error(),
	}}
}

func compilerErrorDiagnostic(ce errors.CompilerError) protocol.Diagnostic {
	line := protocol.UInteger(0)
	if ce.Position.Line > 0 {
		line = protocol.UInteger(ce.Position.Line - 1)
	}
	col := protocol.UInteger(0)
	if ce.Position.Column > 0 {
		col = protocol.UInteger(ce.Position.Column - 1)
	}
	length := protocol.UInteger(1)
	if ce.Length > 0 {
		length = protocol.UInteger(ce.Length)
	}

	message := ce.Message
	if ce.Code != "" {
		message = "[" + ce.Code + "] " + message
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + length},
		},
		Severity: severityPtr(severityOf(ce.Level)),
		Source:   strPtr("plc"),
		Message:  message,
	}
}

func parseErrorDiagnostic(pe participle.Error) protocol.Diagnostic {
	pos := pe.Position()
	line := protocol.UInteger(0)
	if pos.Line > 0 {
		line = protocol.UInteger(pos.Line - 1)
	}
	col := protocol.UInteger(0)
	if pos.Column > 0 {
		col = protocol.UInteger(pos.Column - 1)
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   strPtr("plc"),
		Message:  pe.Message(),
	}
}

func severityOf(level errors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func zeroRange() protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 1},
	}
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func strPtr(s string) *string { return &s }
