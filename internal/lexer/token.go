// Package lexer converts luci source text into a stream of tokens.
package lexer

import "fmt"

// TokenType identifies the lexical category of a Token. The set is closed:
// literal kinds, identifiers, punctuation, operators (including compound
// assigns), and keywords.
type TokenType int

// Token kinds, grouped the way the grammar in spec.md §4.1 groups them.
const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT
	DOC_COMMENT

	IDENT
	INT
	DOUBLE
	STRING
	CHAR

	TRUE
	FALSE
	NULL_LIT

	FN
	LET
	CONST
	IMPORT
	SCOPE
	IF
	ELSE
	RETURN
	WHILE
	BREAK
	CONTINUE
	ANY
	ALL
	OP
	IN
	FOR
	TRY
	EXCEPT
	TYPE

	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN

	EQ
	NOT_EQ
	LT
	GT
	LT_EQ
	GT_EQ
	AND
	OR
	NOT

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	POWER

	COLON
	COLONCOLON
	ARROW
	COMMA
	SEMICOLON
	DOT

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
)

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT", DOC_COMMENT: "DOC_COMMENT",
	IDENT: "IDENT", INT: "INT", DOUBLE: "DOUBLE", STRING: "STRING", CHAR: "CHAR",
	TRUE: "true", FALSE: "false", NULL_LIT: "null",
	FN: "fn", LET: "let", CONST: "const", IMPORT: "import", SCOPE: "scope",
	IF: "if", ELSE: "else", RETURN: "return", WHILE: "while", BREAK: "break",
	CONTINUE: "continue", ANY: "any", ALL: "all", OP: "op", IN: "in", FOR: "for",
	TRY: "try", EXCEPT: "except", TYPE: "type",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
	EQ: "==", NOT_EQ: "!=", LT: "<", GT: ">", LT_EQ: "<=", GT_EQ: ">=",
	AND: "&&", OR: "||", NOT: "!",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", POWER: "**",
	COLON: ":", COLONCOLON: "::", ARROW: "->", COMMA: ",", SEMICOLON: ";", DOT: ".",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", LBRACE: "{", RBRACE: "}",
}

// String renders the token type's canonical textual form, used both for
// diagnostics and by pkg/printer when re-emitting source text.
func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Keywords maps reserved words to their token kind. Closed per spec.md §4.1.
var Keywords = map[string]TokenType{
	"fn": FN, "let": LET, "const": CONST, "import": IMPORT, "scope": SCOPE,
	"if": IF, "else": ELSE, "return": RETURN, "true": TRUE, "false": FALSE,
	"null": NULL_LIT, "while": WHILE, "break": BREAK, "any": ANY, "all": ALL,
	"op": OP, "in": IN, "for": FOR, "try": TRY, "except": EXCEPT, "type": TYPE,
	"continue": CONTINUE,
}

// LookupIdent classifies ident as a keyword token or a plain IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Position is a 1-based line/column source location, plus an optional
// shared handle to the originating file name (nil for REPL/eval input).
type Position struct {
	Line   int
	Column int
	File   *string
}

// String renders "file:line:col" (or "line:col" with no file handle).
func (p Position) String() string {
	if p.File != nil && *p.File != "" {
		return fmt.Sprintf("%s:%d:%d", *p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a value-typed, cheap-to-copy tagged lexeme: kind, original
// literal text, and source position.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String renders a token for diagnostics, e.g. `IDENT("foo") at 3:5`.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Literal, t.Pos)
}
