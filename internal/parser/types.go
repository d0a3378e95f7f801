package parser

import (
	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

// parseTypeExpression parses one type expression from the parallel
// type grammar (spec.md §3, §4.3): identifiers/user-type names, `any`,
// `all`, `null`, `[T]` arrays, `{K:V}` dicts, `{T}` sets, `fn(T,…) -> R`
// function types, `<T,U,…>` choice types, and `Owner.Name` bound types.
// curToken is the first token of the type on entry; on return curToken
// is the last token consumed (matching parseExpression's convention).
func (p *Parser) parseTypeExpression() ast.TypeExpr {
	var base ast.TypeExpr
	switch p.curToken.Type {
	case lexer.ANY:
		base = &ast.AnyType{Token: p.curToken}
	case lexer.ALL:
		base = &ast.AllType{Token: p.curToken}
	case lexer.NULL_LIT:
		base = &ast.NullType{Token: p.curToken}
	case lexer.IDENT:
		base = p.parseIdentifierOrBoundType()
	case lexer.LBRACKET:
		base = p.parseArrayType()
	case lexer.LBRACE:
		base = p.parseDictOrSetType()
	case lexer.FN:
		base = p.parseFunctionType()
	case lexer.LT:
		base = p.parseChoiceType()
	default:
		p.errorf(p.curToken.Pos, "unexpected token %s in type expression", p.curToken.Type)
		return nil
	}
	return base
}

func (p *Parser) parseIdentifierOrBoundType() ast.TypeExpr {
	tok := p.curToken
	name := p.curToken.Literal
	if p.peekIs(lexer.DOT) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return &ast.IdentifierType{Token: tok, Name: name}
		}
		return &ast.BoundType{Token: tok, Owner: name, Name: p.curToken.Literal}
	}
	return &ast.IdentifierType{Token: tok, Name: name}
}

func (p *Parser) parseArrayType() ast.TypeExpr {
	tok := p.curToken
	p.nextToken()
	elem := p.parseTypeExpression()
	if !p.expectPeek(lexer.RBRACKET) {
		return &ast.ArrayType{Token: tok, Element: elem}
	}
	return &ast.ArrayType{Token: tok, Element: elem}
}

// parseDictOrSetType disambiguates `{K:V}` from `{T}` the same way the
// value-literal grammar does, via the presence of a `:`.
func (p *Parser) parseDictOrSetType() ast.TypeExpr {
	tok := p.curToken
	p.nextToken()
	first := p.parseTypeExpression()
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		val := p.parseTypeExpression()
		if !p.expectPeek(lexer.RBRACE) {
			return &ast.DictType{Token: tok, Key: first, Value: val}
		}
		return &ast.DictType{Token: tok, Key: first, Value: val}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return &ast.SetType{Token: tok, Element: first}
	}
	return &ast.SetType{Token: tok, Element: first}
}

func (p *Parser) parseFunctionType() ast.TypeExpr {
	tok := p.curToken
	if !p.expectPeek(lexer.LPAREN) {
		return &ast.FunctionType{Token: tok}
	}
	var params []ast.TypeExpr
	if !p.peekIs(lexer.RPAREN) {
		p.nextToken()
		params = append(params, p.parseTypeExpression())
		for p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			params = append(params, p.parseTypeExpression())
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return &ast.FunctionType{Token: tok, Parameters: params}
	}
	var ret ast.TypeExpr
	if p.peekIs(lexer.ARROW) {
		p.nextToken()
		p.nextToken()
		ret = p.parseTypeExpression()
	}
	return &ast.FunctionType{Token: tok, Parameters: params, Return: ret}
}

// parseChoiceType parses `<T, U, …>`, canonicalizing via
// ast.NewChoiceType (spec.md §4.3, GLOSSARY "Choice type").
func (p *Parser) parseChoiceType() ast.TypeExpr {
	tok := p.curToken
	var elems []ast.TypeExpr
	p.nextToken()
	elems = append(elems, p.parseTypeExpression())
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		elems = append(elems, p.parseTypeExpression())
	}
	if !p.expectPeek(lexer.GT) {
		return ast.NewChoiceType(tok, elems)
	}
	return ast.NewChoiceType(tok, elems)
}
