// Package types implements the luci type system: the isCompatible
// structural-compatibility relation and computeType/computeReturnType
// inference over the AST's type-expression grammar (spec.md §4.3).
package types

import (
	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

// tagNames maps an identifier type name to the runtime tag it is
// satisfied by exactly, per spec.md §4.3's fixed mapping.
var tagNames = map[string]string{
	"int": "Integer", "double": "Double", "complex": "Complex",
	"bool": "Boolean", "str": "String", "error": "Error", "io": "IOObject",
	"module": "Module", "thread": "Thread", "regex": "Regex",
	"range": "Range", "null": "Null", "char": "Char",
}

// TagForIdentifier resolves an identifier type's name to its runtime tag,
// or "" if the name is not one of the fixed built-in scalar tags (i.e. it
// names a user type instead).
func TagForIdentifier(name string) string {
	return tagNames[name]
}

// IsCompatible implements isCompatible(T, U): "a value of declared form T
// fits where U is required" (spec.md §4.3's table), by structural
// induction over the type-expression grammar.
func IsCompatible(t, u ast.TypeExpr) bool {
	if t == nil || u == nil {
		return false
	}

	// "X | all" is true for every X, including X = all itself.
	if _, ok := u.(*ast.AllType); ok {
		return true
	}
	// "any | T0 != all" is true; U = all was already handled above.
	if _, ok := t.(*ast.AnyType); ok {
		return true
	}
	// "all | U" is false for every U except all (handled above).
	if _, ok := t.(*ast.AllType); ok {
		return false
	}

	if tc, ok := t.(*ast.ChoiceType); ok {
		for _, elem := range tc.Elements {
			if !IsCompatible(elem, u) {
				return false
			}
		}
		return true
	}

	if uc, ok := u.(*ast.ChoiceType); ok {
		for _, elem := range uc.Elements {
			if IsCompatible(t, elem) {
				return true
			}
		}
		return false
	}

	switch tt := t.(type) {
	case *ast.NullType:
		_, ok := u.(*ast.NullType)
		return ok
	case *ast.IdentifierType:
		ut, ok := u.(*ast.IdentifierType)
		return ok && tt.Name == ut.Name
	case *ast.UserTypeRef:
		ut, ok := u.(*ast.UserTypeRef)
		return ok && tt.Name == ut.Name
	case *ast.BoundType:
		ut, ok := u.(*ast.BoundType)
		return ok && tt.Owner == ut.Owner && tt.Name == ut.Name
	case *ast.ArrayType:
		ut, ok := u.(*ast.ArrayType)
		return ok && IsCompatible(tt.Element, ut.Element)
	case *ast.DictType:
		ut, ok := u.(*ast.DictType)
		return ok && IsCompatible(tt.Key, ut.Key) && IsCompatible(tt.Value, ut.Value)
	case *ast.SetType:
		ut, ok := u.(*ast.SetType)
		return ok && IsCompatible(tt.Element, ut.Element)
	case *ast.FunctionType:
		ut, ok := u.(*ast.FunctionType)
		if !ok || len(tt.Parameters) != len(ut.Parameters) {
			return false
		}
		for i := range tt.Parameters {
			if !IsCompatible(tt.Parameters[i], ut.Parameters[i]) {
				return false
			}
		}
		// Covariant return.
		return IsCompatible(tt.Return, ut.Return)
	}

	return false
}

// IsCompatibleWithValue implements the second isCompatible overload: when
// t is `any` and existing is non-nil, compatibility reduces to checking
// against the computed type of the existing value (spec.md §4.3 — once
// assigned, subsequent assignments to an `any`-declared site must
// preserve the original computed type).
func IsCompatibleWithValue(t ast.TypeExpr, computedValueType ast.TypeExpr, existing ast.TypeExpr) bool {
	if _, ok := t.(*ast.AnyType); ok && existing != nil {
		return IsCompatible(computedValueType, existing)
	}
	return IsCompatible(computedValueType, t)
}

// AllTypeExpr is the canonical `all` type used as the element type of an
// empty array/dict/set literal (spec.md §8 boundary behaviors).
func AllTypeExpr() ast.TypeExpr {
	return &ast.AllType{Token: lexer.Token{Type: lexer.ALL, Literal: "all"}}
}

// Merge combines two type expressions into a canonical choice (or the
// single common type if they coincide), used for array/dict literal
// element-type inference and multi-path return-type inference.
func Merge(a, b ast.TypeExpr) ast.TypeExpr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.TypeString() == b.TypeString() {
		return a
	}
	tok := lexer.Token{Type: lexer.LT, Literal: "<"}
	return ast.NewChoiceType(tok, []ast.TypeExpr{a, b})
}

// MergeAll folds Merge across every element of elems, returning `all` for
// an empty slice (spec.md §8: "Empty array literal produces Array with
// element type all").
func MergeAll(elems []ast.TypeExpr) ast.TypeExpr {
	if len(elems) == 0 {
		return AllTypeExpr()
	}
	result := elems[0]
	for _, e := range elems[1:] {
		result = Merge(result, e)
	}
	return result
}
