// Package grammar is the PL/0 surface syntax: a participle struct-tag
// grammar that turns source text into a raw parse tree of bare names and
// literals. It performs no symbol resolution — that is the middle-end's
// job (spec §4.1) — and is treated as an external collaborator by the
// rest of this repository (spec §1 "out of scope").
package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is a whole PL/0 source file: one block terminated by '.'.
type Program struct {
	Pos   lexer.Position
	Block *Block `@@ "."`
}

// Block is a procedure body: optional const/var sections, nested
// procedure declarations, then one (possibly empty) statement.
type Block struct {
	Pos        lexer.Position
	Consts     []*ConstDecl `("const" @@ ("," @@)* ";")?`
	Vars       []*VarDecl   `("var" @@ ("," @@)* ";")?`
	Procedures []*ProcDecl  `(@@ ";")*`
	Stat       *Statement   `@@?`
}

type ConstDecl struct {
	Pos   lexer.Position
	Name  string `@Ident "="`
	Value int    `@Integer`
}

type VarDecl struct {
	Pos  lexer.Position
	Name string `@Ident`
}

type ProcDecl struct {
	Pos   lexer.Position
	Name  string `"procedure" @Ident ";"`
	Block *Block `@@`
}

// Statement is a sum over every PL/0 statement form; exactly one field is
// populated (participle disjunction).
type Statement struct {
	Pos      lexer.Position
	Assign   *AssignStmt `(  @@`
	Call     *CallStmt   ` | @@`
	Compound *Compound   ` | @@`
	If       *IfStmt     ` | @@`
	While    *WhileStmt  ` | @@`
	Print    *PrintStmt  ` | @@`
	Input    *InputStmt  ` | @@ )`
}

type AssignStmt struct {
	Pos  lexer.Position
	Name string      `@Ident Assign`
	Expr *Expression `@@`
}

type CallStmt struct {
	Pos  lexer.Position
	Name string `"call" @Ident`
}

type Compound struct {
	Pos   lexer.Position
	Stats []*Statement `("begin" | "{") (@@? (";" @@?)*) ("end" | "}")`
}

type IfStmt struct {
	Pos  lexer.Position
	Cond *Condition `"if" @@ "then"`
	Then *Statement `@@`
	Else *Statement `("else" @@)?`
}

type WhileStmt struct {
	Pos  lexer.Position
	Cond *Condition `"while" @@ "do"`
	Body *Statement `@@`
}

type PrintStmt struct {
	Pos  lexer.Position
	Name string `("print" | "!") @Ident`
}

type InputStmt struct {
	Pos  lexer.Position
	Name string `("input" | "?") @Ident`
}

// Condition is either an "odd" test or a binary relational comparison.
type Condition struct {
	Pos lexer.Position
	Odd *OddCond `(  @@`
	Rel *RelCond ` | @@ )`
}

type OddCond struct {
	Pos  lexer.Position
	Expr *Expression `"odd" @@`
}

type RelCond struct {
	Pos lexer.Position
	Lhs *Expression `@@`
	Op  string      `@Relop`
	Rhs *Expression `@@`
}

// Expression is a left-associative sum/difference of terms, with an
// optional leading unary sign.
type Expression struct {
	Pos   lexer.Position
	Sign  string    `(@("+" | "-"))?`
	First *Term     `@@`
	Rest  []*OpTerm `@@*`
}

type OpTerm struct {
	Pos  lexer.Position
	Op   string `@("+" | "-")`
	Term *Term  `@@`
}

// Term is a left-associative product/quotient of factors.
type Term struct {
	Pos   lexer.Position
	First *Factor     `@@`
	Rest  []*OpFactor `@@*`
}

type OpFactor struct {
	Pos    lexer.Position
	Op     string  `@("*" | "/")`
	Factor *Factor `@@`
}

// Factor is an identifier, an integer literal, or a parenthesized
// sub-expression.
type Factor struct {
	Pos    lexer.Position
	Ident  string      `(  @Ident`
	Number *int        ` | @Integer`
	Sub    *Expression ` | "(" @@ ")" )`
}
