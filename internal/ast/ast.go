// Package ast defines the Abstract Syntax Tree node types for luci:
// statement, expression, and type-expression node families, each carrying
// its originating token for diagnostics (spec.md §3 "AST").
package ast

import (
	"bytes"
	"strings"

	"github.com/nightwing1978/luci-go/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is any node that produces a runtime value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action but produces no value.
type Statement interface {
	Node
	statementNode()
}

// TypeExpr is a node in the parallel type-expression grammar (spec.md §3
// "Type expressions ... a parallel grammar").
type TypeExpr interface {
	Node
	typeExprNode()
	// TypeString renders the type expression's canonical form, used both
	// for diagnostics and as the key of a canonicalized choice type.
	TypeString() string
}

// Program is the root node: a flat list of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Identifier is a bare name reference.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }

// ModuleIdentifier is a `::`-separated module path reference, e.g.
// `math::pi`.
type ModuleIdentifier struct {
	Token    lexer.Token
	Segments []string
}

func (m *ModuleIdentifier) expressionNode()      {}
func (m *ModuleIdentifier) TokenLiteral() string { return m.Token.Literal }
func (m *ModuleIdentifier) String() string       { return strings.Join(m.Segments, "::") }
func (m *ModuleIdentifier) Pos() lexer.Position  { return m.Token.Pos }

// BlockStatement is a `{ ... }` sequence of statements.
type BlockStatement struct {
	Token      lexer.Token // the '{'
	Statements []Statement
}

func (b *BlockStatement) statementNode()      {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() lexer.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}
