package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// PL0Lexer tokenizes PL/0 source: keywords, identifiers, integer literals,
// the ':=' assignment and relational operators, punctuation, and the
// alternate '{'/'}'/'!'/'?' spellings of begin/end/print/input (spec §6).
var PL0Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `[0-9]+`, nil},
		{"Assign", `:=`, nil},
		{"Relop", `<=|>=|<>|=|<|>`, nil},
		{"Punct", `[.,;(){}!?+\-*/]`, nil},
	},
})
