package parser

import (
	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseLetStatement()
	case lexer.IMPORT:
		return p.parseImportStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	case lexer.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		if p.peekIs(lexer.SEMICOLON) {
			p.nextToken()
		}
		return stmt
	case lexer.FN:
		// `fn name(...) { … }` declares name bound to the function.
		if p.peekIs(lexer.IDENT) {
			stmt := &ast.LetStatement{Token: p.curToken}
			p.nextToken()
			stmt.Name = p.curToken.Literal
			stmt.Value = p.parseFunctionLiteral()
			return stmt
		}
		return p.parseExpressionStatement()
	case lexer.TRY:
		return p.parseTryExceptStatement()
	case lexer.SCOPE:
		if p.peekIs(lexer.LBRACE) {
			return p.parseScopeStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseLetStatement parses `let [const] name [: T] = expr ;`. A bare
// `let x;` with no initializer is a parse error (spec.md §4.2).
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken}
	if p.peekIs(lexer.CONST) {
		p.nextToken()
		stmt.Const = true
	}
	if !p.expectPeek(lexer.IDENT) {
		return stmt
	}
	stmt.Name = p.curToken.Literal

	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.DeclaredType = p.parseTypeExpression()
	}

	if !p.expectPeek(lexer.ASSIGN) {
		p.errorf(p.curToken.Pos, "let statement requires an initializer")
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)

	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseImportStatement parses `import a::b::c ;` (spec.md §4.5).
func (p *Parser) parseImportStatement() *ast.ImportStatement {
	stmt := &ast.ImportStatement{Token: p.curToken}
	if !p.expectPeek(lexer.IDENT) {
		return stmt
	}
	stmt.Path = append(stmt.Path, p.curToken.Literal)
	for p.peekIs(lexer.COLONCOLON) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return stmt
		}
		stmt.Path = append(stmt.Path, p.curToken.Literal)
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseTryExceptStatement parses `try { … } except (name [: T]) { … }`
// (spec.md §4.2, §7).
func (p *Parser) parseTryExceptStatement() *ast.TryExceptStatement {
	stmt := &ast.TryExceptStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.TryBlock = p.parseBlockStatement()

	if !p.expectPeek(lexer.EXCEPT) {
		return stmt
	}
	if !p.expectPeek(lexer.LPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.IDENT) {
		return stmt
	}
	stmt.ExceptName = p.curToken.Literal
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.ExceptType = p.parseTypeExpression()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return stmt
	}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.ExceptBlock = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseScopeStatement() *ast.ScopeStatement {
	stmt := &ast.ScopeStatement{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

// parseBlockStatement parses `{ stmt* }`; curToken is the `{` on entry
// and the `}` on return.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}
