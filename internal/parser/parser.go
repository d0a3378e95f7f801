// Package parser implements a Pratt (precedence-climbing) parser that
// consumes internal/lexer's token stream and produces internal/ast
// nodes, following spec.md §4.2's grammar. Errors are collected in bulk
// rather than raised as panics, in the teacher's style: a malformed
// program yields a non-empty Errors() slice instead of aborting parsing
// at the first mistake.
package parser

import (
	"fmt"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

// Precedence ladder, lowest to highest, per spec.md §4.2.
const (
	LOWEST int = iota
	ASSIGN
	OR
	AND
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	POWER
	PREFIX
	CALL
	INDEX
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN: ASSIGN, lexer.PLUS_ASSIGN: ASSIGN, lexer.MINUS_ASSIGN: ASSIGN,
	lexer.STAR_ASSIGN: ASSIGN, lexer.SLASH_ASSIGN: ASSIGN,
	lexer.OR:  OR,
	lexer.AND: AND,
	lexer.EQ:  EQUALS, lexer.NOT_EQ: EQUALS,
	lexer.LT: LESSGREATER, lexer.GT: LESSGREATER, lexer.LT_EQ: LESSGREATER, lexer.GT_EQ: LESSGREATER,
	lexer.PLUS: SUM, lexer.MINUS: SUM,
	lexer.STAR: PRODUCT, lexer.SLASH: PRODUCT, lexer.PERCENT: PRODUCT,
	lexer.POWER:    POWER,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: INDEX,
	lexer.DOT:      INDEX,
	lexer.COLONCOLON: INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// ParseError is one bulk-collected parse diagnostic.
type ParseError struct {
	Pos     lexer.Position
	Message string
}

func (pe ParseError) String() string { return fmt.Sprintf("%s: %s", pe.Pos, pe.Message) }

// Parser holds the current/lookahead token pair and the Pratt dispatch
// tables, grounded on the teacher's recursive-descent-with-precedence
// parser structure.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []ParseError

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	pendingDoc string
}

// New builds a Parser over l. The lexer should be constructed with
// lexer.WithPreserveComments(true) if doc-comment association with the
// following fn/type declaration is wanted; New works either way.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.prefixFns = map[lexer.TokenType]prefixParseFn{}
	p.infixFns = map[lexer.TokenType]infixParseFn{}

	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.DOUBLE, p.parseDoubleLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.CHAR, p.parseCharLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.NULL_LIT, p.parseNull)
	p.registerPrefix(lexer.NOT, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseDictOrSetLiteral)
	p.registerPrefix(lexer.FN, p.parseFunctionLiteral)
	p.registerPrefix(lexer.TYPE, p.parseUserTypeLiteral)
	p.registerPrefix(lexer.IF, p.parseIfExpression)
	p.registerPrefix(lexer.WHILE, p.parseWhileExpression)
	p.registerPrefix(lexer.FOR, p.parseForExpression)
	p.registerPrefix(lexer.SCOPE, p.parseScopeExpression)

	p.registerInfix(lexer.PLUS, p.parseInfixExpression)
	p.registerInfix(lexer.MINUS, p.parseInfixExpression)
	p.registerInfix(lexer.STAR, p.parseInfixExpression)
	p.registerInfix(lexer.SLASH, p.parseInfixExpression)
	p.registerInfix(lexer.PERCENT, p.parseInfixExpression)
	p.registerInfix(lexer.POWER, p.parseInfixExpression)
	p.registerInfix(lexer.EQ, p.parseInfixExpression)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(lexer.LT, p.parseInfixExpression)
	p.registerInfix(lexer.GT, p.parseInfixExpression)
	p.registerInfix(lexer.LT_EQ, p.parseInfixExpression)
	p.registerInfix(lexer.GT_EQ, p.parseInfixExpression)
	p.registerInfix(lexer.AND, p.parseInfixExpression)
	p.registerInfix(lexer.OR, p.parseInfixExpression)
	p.registerInfix(lexer.ASSIGN, p.parseInfixExpression)
	p.registerInfix(lexer.PLUS_ASSIGN, p.parseInfixExpression)
	p.registerInfix(lexer.MINUS_ASSIGN, p.parseInfixExpression)
	p.registerInfix(lexer.STAR_ASSIGN, p.parseInfixExpression)
	p.registerInfix(lexer.SLASH_ASSIGN, p.parseInfixExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)
	p.registerInfix(lexer.COLONCOLON, p.parseModuleMemberExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t lexer.TokenType, fn prefixParseFn) { p.prefixFns[t] = fn }
func (p *Parser) registerInfix(t lexer.TokenType, fn infixParseFn)   { p.infixFns[t] = fn }

// Errors returns every parse diagnostic collected so far.
func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// nextToken advances the lookahead pair, transparently skipping COMMENT
// tokens and accumulating DOC_COMMENT text for the next declaration that
// wants it (fn/type literals), per spec.md §4.1 "doc comments".
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	for {
		tok := p.l.NextToken()
		if tok.Type == lexer.COMMENT {
			continue
		}
		if tok.Type == lexer.DOC_COMMENT {
			if p.pendingDoc != "" {
				p.pendingDoc += "\n"
			}
			p.pendingDoc += tok.Literal
			continue
		}
		p.peekToken = tok
		break
	}
}

func (p *Parser) takeDoc() string {
	doc := p.pendingDoc
	p.pendingDoc = ""
	return doc
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken.Pos, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the entire token stream into a Program node.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}
