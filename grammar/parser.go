package grammar

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// buildParser constructs the PL/0 participle parser. Identifiers are
// case-insensitive (spec §6): every Ident token is lower-cased before
// parsing, so both the keyword literals in grammar.go's struct tags and
// user identifiers are matched without regard to case.
func buildParser() (*participle.Parser[Program], error) {
	return participle.Build[Program](
		participle.Lexer(PL0Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.Map(func(tok lexer.Token) (lexer.Token, error) {
			tok.Value = strings.ToLower(tok.Value)
			return tok, nil
		}, "Ident"),
		participle.CaseInsensitive("Ident"),
		participle.UseLookahead(3),
	)
}

// ParseFile reads path and parses it as a PL/0 program.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source))
}

// ParseSource parses PL/0 source text already held in memory. name is used
// only for position reporting.
func ParseSource(name, source string) (*Program, error) {
	parser, err := buildParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	program, err := parser.ParseString(name, source)
	if err != nil {
		return nil, err
	}
	return program, nil
}
