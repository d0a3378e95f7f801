package parser

import (
	"strconv"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

// parseExpression is the Pratt core: parse a prefix production, then
// keep absorbing infix productions while the upcoming operator binds
// tighter than precedence (spec.md §4.2's ladder).
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.curToken.Type]
	if !ok {
		p.errorf(p.curToken.Pos, "no prefix parse function for %s", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekToken.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	val, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(p.curToken.Pos, "could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: val}
}

func (p *Parser) parseDoubleLiteral() ast.Expression {
	val, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(p.curToken.Pos, "could not parse %q as double", p.curToken.Literal)
		return nil
	}
	return &ast.DoubleLiteral{Token: p.curToken, Value: val}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseCharLiteral() ast.Expression {
	runes := []rune(p.curToken.Literal)
	var r rune
	if len(runes) > 0 {
		r = runes[0]
	}
	return &ast.StringLiteral{Token: p.curToken, Value: string(r)}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curIs(lexer.TRUE)}
}

func (p *Parser) parseNull() ast.Expression {
	return &ast.NullLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curToken, Operator: p.curToken.Literal, Left: left}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

// parseArrayLiteral parses `[e1, e2, …]`, reclassifying to
// ArrayDoubleLiteral/ArrayComplexLiteral when every element is
// homogeneously a double/complex literal (spec.md §4.2).
func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	elems := p.parseExpressionList(lexer.RBRACKET)

	allDouble := len(elems) > 0
	doubles := make([]*ast.DoubleLiteral, 0, len(elems))
	for _, el := range elems {
		d, ok := el.(*ast.DoubleLiteral)
		if !ok {
			allDouble = false
			break
		}
		doubles = append(doubles, d)
	}
	if allDouble {
		return &ast.ArrayDoubleLiteral{Token: tok, Elements: doubles}
	}

	allComplex := len(elems) > 0
	complexes := make([]*ast.ComplexLiteral, 0, len(elems))
	for _, el := range elems {
		c, ok := el.(*ast.ComplexLiteral)
		if !ok {
			allComplex = false
			break
		}
		complexes = append(complexes, c)
	}
	if allComplex {
		return &ast.ArrayComplexLiteral{Token: tok, Elements: complexes}
	}

	return &ast.ArrayLiteral{Token: tok, Elements: elems}
}

// parseExpressionList parses a comma-separated list up to (and
// consuming) end. curToken is the opening bracket on entry.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return list
	}
	return list
}

// parseDictOrSetLiteral disambiguates `{}`-delimited literals: empty
// braces are always a dict, and the presence of `:` after the first
// element distinguishes `{k: v, …}` from `{e1, e2, …}` (spec.md §4.2,
// §8 boundary behaviors).
func (p *Parser) parseDictOrSetLiteral() ast.Expression {
	tok := p.curToken
	if p.peekIs(lexer.RBRACE) {
		p.nextToken()
		return &ast.DictLiteral{Token: tok}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)

	if p.peekIs(lexer.COLON) {
		dict := &ast.DictLiteral{Token: tok}
		p.nextToken()
		p.nextToken()
		val := p.parseExpression(LOWEST)
		dict.Entries = append(dict.Entries, ast.DictEntry{Key: first, Value: val})
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			k := p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.COLON) {
				return dict
			}
			p.nextToken()
			v := p.parseExpression(LOWEST)
			dict.Entries = append(dict.Entries, ast.DictEntry{Key: k, Value: v})
		}
		if !p.expectPeek(lexer.RBRACE) {
			return dict
		}
		return dict
	}

	set := &ast.SetLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		set.Elements = append(set.Elements, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(lexer.RBRACE) {
		return set
	}
	return set
}

func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return expr
	}
	expr.Consequence = p.parseBlockStatement()
	if p.peekIs(lexer.ELSE) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return expr
		}
		expr.Alternative = p.parseBlockStatement()
	}
	return expr
}

func (p *Parser) parseWhileExpression() ast.Expression {
	expr := &ast.WhileExpression{Token: p.curToken}
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return expr
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

// parseForExpression parses `for (CONST? name [: T] in expr) { … }`
// (spec.md §4.2).
func (p *Parser) parseForExpression() ast.Expression {
	expr := &ast.ForExpression{Token: p.curToken}
	if !p.expectPeek(lexer.LPAREN) {
		return expr
	}
	if p.peekIs(lexer.CONST) {
		p.nextToken()
		expr.Const = true
	}
	if !p.expectPeek(lexer.IDENT) {
		return expr
	}
	expr.Name = p.curToken.Literal
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		expr.DeclaredType = p.parseTypeExpression()
	}
	if !p.expectPeek(lexer.IN) {
		return expr
	}
	p.nextToken()
	expr.Iterable = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return expr
	}
	if !p.expectPeek(lexer.LBRACE) {
		return expr
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

func (p *Parser) parseScopeExpression() ast.Expression {
	expr := &ast.ScopeExpression{Token: p.curToken}
	if !p.expectPeek(lexer.LBRACE) {
		return expr
	}
	expr.Body = p.parseBlockStatement()
	return expr
}

// parseFunctionLiteral parses `fn(name [: T], …) [-> R] { … }`,
// attaching any doc-comment run accumulated immediately before it
// (spec.md §3, §4.1 "doc comments").
func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.curToken, Doc: p.takeDoc()}
	if !p.expectPeek(lexer.LPAREN) {
		return fn
	}
	fn.Parameters = p.parseParameterList()
	if p.peekIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeExpression()
	}
	if !p.expectPeek(lexer.LBRACE) {
		return fn
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseParameterList() []ast.Parameter {
	var params []ast.Parameter
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params = append(params, p.parseOneParameter())
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, p.parseOneParameter())
	}
	if !p.expectPeek(lexer.RPAREN) {
		return params
	}
	return params
}

func (p *Parser) parseOneParameter() ast.Parameter {
	param := ast.Parameter{Name: p.curToken.Literal}
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		param.DeclaredType = p.parseTypeExpression()
	}
	return param
}

// parseUserTypeLiteral parses `type [Name] { member* }`, where each
// member is either `let name [: T] [= default] ;` (a property) or a
// method `[fn] name(...) [-> R] { … }` (spec.md §3, §4.2). `type`
// directly followed by `(` is instead the identifier of the `type`
// builtin, so `type(x)` parses as a call.
func (p *Parser) parseUserTypeLiteral() ast.Expression {
	if p.peekIs(lexer.LPAREN) {
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	lit := &ast.UserTypeLiteral{Token: p.curToken, Doc: p.takeDoc()}
	if p.peekIs(lexer.IDENT) {
		p.nextToken()
		lit.Name = p.curToken.Literal
	}
	if !p.expectPeek(lexer.LBRACE) {
		return lit
	}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.FN) && p.peekIs(lexer.IDENT) {
			p.nextToken()
		}
		if p.curIs(lexer.LET) {
			lit.Members = append(lit.Members, p.parsePropertyMember())
		} else if p.curIs(lexer.IDENT) {
			lit.Members = append(lit.Members, p.parseMethodMember())
		} else {
			p.errorf(p.curToken.Pos, "unexpected token %s in type body", p.curToken.Type)
		}
		p.nextToken()
	}
	return lit
}

func (p *Parser) parsePropertyMember() ast.MemberDef {
	member := ast.MemberDef{}
	if p.peekIs(lexer.CONST) {
		p.nextToken()
		member.Const = true
	}
	if !p.expectPeek(lexer.IDENT) {
		return member
	}
	member.Name = p.curToken.Literal
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		member.DeclType = p.parseTypeExpression()
	}
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		member.Default = p.parseExpression(LOWEST)
	}
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return member
}

func (p *Parser) parseMethodMember() ast.MemberDef {
	name := p.curToken.Literal
	fnTok := p.curToken
	fn := &ast.FunctionLiteral{Token: fnTok}
	if !p.expectPeek(lexer.LPAREN) {
		return ast.MemberDef{IsMethod: true, Name: name, Method: fn}
	}
	fn.Parameters = p.parseParameterList()
	if p.peekIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseTypeExpression()
	}
	if !p.expectPeek(lexer.LBRACE) {
		return ast.MemberDef{IsMethod: true, Name: name, Method: fn}
	}
	fn.Body = p.parseBlockStatement()
	return ast.MemberDef{IsMethod: true, Name: name, Method: fn}
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	expr := &ast.CallExpression{Token: p.curToken, Function: fn}
	expr.Arguments = p.parseExpressionList(lexer.RPAREN)
	return expr
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return expr
	}
	return expr
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.curToken, Object: left}
	if !p.expectPeek(lexer.IDENT) {
		return expr
	}
	expr.Property = p.curToken.Literal
	return expr
}

func (p *Parser) parseModuleMemberExpression(left ast.Expression) ast.Expression {
	expr := &ast.ModuleMemberExpression{Token: p.curToken, Module: left}
	if !p.expectPeek(lexer.IDENT) {
		return expr
	}
	expr.Member = p.curToken.Literal
	return expr
}
