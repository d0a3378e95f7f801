package types

import (
	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

// Context resolves identifiers to their declared or inferred type during
// inference. internal/interp's Environment and internal/semantic's scope
// table both implement this.
type Context interface {
	// LookupType returns the declared/inferred type of name, or (nil,
	// false) if name is not known in this context.
	LookupType(name string) (ast.TypeExpr, bool)
}

func identType(name string) ast.TypeExpr {
	return &ast.IdentifierType{Token: lexer.Token{Type: lexer.IDENT, Literal: name}, Name: name}
}

var (
	intType    = identType("int")
	doubleType = identType("double")
	complexT   = identType("complex")
	boolType   = identType("bool")
	strType    = identType("str")
	nullType   ast.TypeExpr = &ast.NullType{Token: lexer.Token{Type: lexer.NULL_LIT, Literal: "null"}}
)

// ComputeType produces the most specific type expression expr would
// evaluate to, per spec.md §4.3.
func ComputeType(expr ast.Expression, ctx Context) ast.TypeExpr {
	switch e := expr.(type) {
	case *ast.BooleanLiteral:
		return boolType
	case *ast.IntegerLiteral:
		return intType
	case *ast.DoubleLiteral:
		return doubleType
	case *ast.ComplexLiteral:
		return complexT
	case *ast.StringLiteral:
		return strType
	case *ast.NullLiteral:
		return nullType
	case *ast.ArrayLiteral:
		elemTypes := make([]ast.TypeExpr, len(e.Elements))
		for i, el := range e.Elements {
			elemTypes[i] = ComputeType(el, ctx)
		}
		return &ast.ArrayType{Element: MergeAll(elemTypes)}
	case *ast.ArrayDoubleLiteral:
		return &ast.ArrayType{Element: doubleType}
	case *ast.ArrayComplexLiteral:
		return &ast.ArrayType{Element: complexT}
	case *ast.DictLiteral:
		if len(e.Entries) == 0 {
			return &ast.DictType{Key: AllTypeExpr(), Value: AllTypeExpr()}
		}
		keyTypes := make([]ast.TypeExpr, len(e.Entries))
		valTypes := make([]ast.TypeExpr, len(e.Entries))
		for i, ent := range e.Entries {
			keyTypes[i] = ComputeType(ent.Key, ctx)
			valTypes[i] = ComputeType(ent.Value, ctx)
		}
		return &ast.DictType{Key: MergeAll(keyTypes), Value: MergeAll(valTypes)}
	case *ast.SetLiteral:
		elemTypes := make([]ast.TypeExpr, len(e.Elements))
		for i, el := range e.Elements {
			elemTypes[i] = ComputeType(el, ctx)
		}
		return &ast.SetType{Element: MergeAll(elemTypes)}
	case *ast.Identifier:
		if ctx != nil {
			if t, ok := ctx.LookupType(e.Value); ok {
				return t
			}
		}
		return AllTypeExpr()
	case *ast.FunctionLiteral:
		params := make([]ast.TypeExpr, len(e.Parameters))
		for i, p := range e.Parameters {
			if p.DeclaredType != nil {
				params[i] = p.DeclaredType
			} else {
				params[i] = AllTypeExpr()
			}
		}
		ret := e.ReturnType
		if ret == nil {
			ret = ComputeReturnType(e.Body, ctx, true)
		}
		return &ast.FunctionType{Parameters: params, Return: ret}
	case *ast.CallExpression:
		fnType := ComputeType(e.Function, ctx)
		if ft, ok := fnType.(*ast.FunctionType); ok {
			return ft.Return
		}
		return AllTypeExpr()
	case *ast.MemberExpression:
		// Member field type resolution requires the owning UserType's
		// property table; left to the evaluator/semantic analyzer, which
		// have that table available. Conservatively `all` here.
		return AllTypeExpr()
	case *ast.IndexExpression:
		containerType := ComputeType(e.Left, ctx)
		switch ct := containerType.(type) {
		case *ast.ArrayType:
			return ct.Element
		case *ast.DictType:
			return ct.Value
		case *ast.SetType:
			return ct.Element
		case *ast.IdentifierType:
			if ct.Name == "range" {
				return intType
			}
		}
		return AllTypeExpr()
	case *ast.PrefixExpression:
		return ComputeType(e.Right, ctx)
	case *ast.InfixExpression:
		return computeInfixType(e, ctx)
	default:
		return AllTypeExpr()
	}
}

func computeInfixType(e *ast.InfixExpression, ctx Context) ast.TypeExpr {
	switch e.Operator {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return boolType
	case "+", "-", "*", "/", "%", "**":
		lt := ComputeType(e.Left, ctx)
		rt := ComputeType(e.Right, ctx)
		if lt != nil && rt != nil && lt.TypeString() == rt.TypeString() {
			return lt
		}
		return AllTypeExpr()
	default:
		// Assignment and compound-assign expressions evaluate to the
		// assigned value's type.
		return ComputeType(e.Right, ctx)
	}
}

// ComputeReturnType walks every return statement in block — recursing
// into if/while/for/scope/try bodies — merging their types into a
// canonical choice. If implicitReturn is true, a trailing
// expression-statement (or null, for a trailing let) is merged in too
// (spec.md §4.3).
func ComputeReturnType(block *ast.BlockStatement, ctx Context, implicitReturn bool) ast.TypeExpr {
	var result ast.TypeExpr
	merge := func(t ast.TypeExpr) { result = Merge(result, t) }

	var walkBlock func(body *ast.BlockStatement)
	var walkExpr func(e ast.Expression)

	walkExpr = func(e ast.Expression) {
		switch ex := e.(type) {
		case *ast.IfExpression:
			walkBlock(ex.Consequence)
			walkBlock(ex.Alternative)
		case *ast.WhileExpression:
			walkBlock(ex.Body)
		case *ast.ForExpression:
			walkBlock(ex.Body)
		case *ast.ScopeExpression:
			walkBlock(ex.Body)
		}
	}

	walkBlock = func(body *ast.BlockStatement) {
		if body == nil {
			return
		}
		for _, stmt := range body.Statements {
			switch s := stmt.(type) {
			case *ast.ReturnStatement:
				if s.ReturnValue != nil {
					merge(ComputeType(s.ReturnValue, ctx))
				} else {
					merge(nullType)
				}
			case *ast.ExpressionStatement:
				walkExpr(s.Expression)
			case *ast.TryExceptStatement:
				walkBlock(s.TryBlock)
				walkBlock(s.ExceptBlock)
			case *ast.ScopeStatement:
				walkBlock(s.Body)
			}
		}
	}

	walkBlock(block)

	if implicitReturn && len(block.Statements) > 0 {
		last := block.Statements[len(block.Statements)-1]
		switch s := last.(type) {
		case *ast.ExpressionStatement:
			if s.Expression != nil {
				merge(ComputeType(s.Expression, ctx))
			}
		case *ast.LetStatement:
			merge(nullType)
		}
	}

	if result == nil {
		return nullType
	}
	return result
}
