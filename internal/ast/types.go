package ast

import (
	"sort"
	"strings"

	"github.com/nightwing1978/luci-go/internal/lexer"
)

// IdentifierType is a named scalar/builtin-tag type: `int`, `double`,
// `str`, `bool`, a user-type name, … (spec.md §3, §4.3).
type IdentifierType struct {
	Token lexer.Token
	Name  string
}

func (t *IdentifierType) typeExprNode()      {}
func (t *IdentifierType) TokenLiteral() string { return t.Token.Literal }
func (t *IdentifierType) Pos() lexer.Position  { return t.Token.Pos }
func (t *IdentifierType) String() string       { return t.Name }
func (t *IdentifierType) TypeString() string   { return t.Name }

// NullType is the `null` type expression.
type NullType struct{ Token lexer.Token }

func (t *NullType) typeExprNode()        {}
func (t *NullType) TokenLiteral() string { return t.Token.Literal }
func (t *NullType) Pos() lexer.Position  { return t.Token.Pos }
func (t *NullType) String() string       { return "null" }
func (t *NullType) TypeString() string   { return "null" }

// AnyType is the `any` type expression: accepts any value, and once a
// value has been assigned to an `any`-declared site, pins to that value's
// computed type for subsequent assignments (spec.md §4.3).
type AnyType struct{ Token lexer.Token }

func (t *AnyType) typeExprNode()        {}
func (t *AnyType) TokenLiteral() string { return t.Token.Literal }
func (t *AnyType) Pos() lexer.Position  { return t.Token.Pos }
func (t *AnyType) String() string       { return "any" }
func (t *AnyType) TypeString() string   { return "any" }

// AllType is the `all` type expression: accepts any value with no pinning.
type AllType struct{ Token lexer.Token }

func (t *AllType) typeExprNode()        {}
func (t *AllType) TokenLiteral() string { return t.Token.Literal }
func (t *AllType) Pos() lexer.Position  { return t.Token.Pos }
func (t *AllType) String() string       { return "all" }
func (t *AllType) TypeString() string   { return "all" }

// ChoiceType is a canonicalized, de-duplicated, alphabetically sorted set
// of alternative type expressions, written `<T,U,…>` (spec.md §4.3,
// GLOSSARY "Choice type").
type ChoiceType struct {
	Token    lexer.Token
	Elements []TypeExpr
}

func (t *ChoiceType) typeExprNode()        {}
func (t *ChoiceType) TokenLiteral() string { return t.Token.Literal }
func (t *ChoiceType) Pos() lexer.Position  { return t.Token.Pos }
func (t *ChoiceType) String() string       { return t.TypeString() }
func (t *ChoiceType) TypeString() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.TypeString()
	}
	return "<" + strings.Join(parts, ",") + ">"
}

// NewChoiceType canonicalizes elems: de-duplicates by TypeString and sorts
// alphabetically, collapsing to the single element when only one remains.
func NewChoiceType(tok lexer.Token, elems []TypeExpr) TypeExpr {
	seen := make(map[string]bool, len(elems))
	unique := make([]TypeExpr, 0, len(elems))
	for _, e := range elems {
		key := e.TypeString()
		if !seen[key] {
			seen[key] = true
			unique = append(unique, e)
		}
	}
	sort.Slice(unique, func(i, j int) bool {
		return unique[i].TypeString() < unique[j].TypeString()
	})
	if len(unique) == 1 {
		return unique[0]
	}
	return &ChoiceType{Token: tok, Elements: unique}
}

// ArrayType is `[T]`: an array of elements of type T.
type ArrayType struct {
	Token   lexer.Token
	Element TypeExpr
}

func (t *ArrayType) typeExprNode()        {}
func (t *ArrayType) TokenLiteral() string { return t.Token.Literal }
func (t *ArrayType) Pos() lexer.Position  { return t.Token.Pos }
func (t *ArrayType) String() string       { return t.TypeString() }
func (t *ArrayType) TypeString() string   { return "[" + t.Element.TypeString() + "]" }

// DictType is `{K:V}`: a dictionary from K to V.
type DictType struct {
	Token lexer.Token
	Key   TypeExpr
	Value TypeExpr
}

func (t *DictType) typeExprNode()        {}
func (t *DictType) TokenLiteral() string { return t.Token.Literal }
func (t *DictType) Pos() lexer.Position  { return t.Token.Pos }
func (t *DictType) String() string       { return t.TypeString() }
func (t *DictType) TypeString() string {
	return "{" + t.Key.TypeString() + ":" + t.Value.TypeString() + "}"
}

// SetType is `{T}`: a set of elements of type T.
type SetType struct {
	Token   lexer.Token
	Element TypeExpr
}

func (t *SetType) typeExprNode()        {}
func (t *SetType) TokenLiteral() string { return t.Token.Literal }
func (t *SetType) Pos() lexer.Position  { return t.Token.Pos }
func (t *SetType) String() string       { return t.TypeString() }
func (t *SetType) TypeString() string   { return "{" + t.Element.TypeString() + "}" }

// FunctionType is `fn(T,…) -> R`.
type FunctionType struct {
	Token      lexer.Token
	Parameters []TypeExpr
	Return     TypeExpr
}

func (t *FunctionType) typeExprNode()        {}
func (t *FunctionType) TokenLiteral() string { return t.Token.Literal }
func (t *FunctionType) Pos() lexer.Position  { return t.Token.Pos }
func (t *FunctionType) String() string       { return t.TypeString() }
func (t *FunctionType) TypeString() string {
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = p.TypeString()
	}
	ret := "null"
	if t.Return != nil {
		ret = t.Return.TypeString()
	}
	return "fn(" + strings.Join(parts, ",") + ") -> " + ret
}

// UserTypeRef is a reference to a user-defined type by name.
type UserTypeRef struct {
	Token lexer.Token
	Name  string
}

func (t *UserTypeRef) typeExprNode()        {}
func (t *UserTypeRef) TokenLiteral() string { return t.Token.Literal }
func (t *UserTypeRef) Pos() lexer.Position  { return t.Token.Pos }
func (t *UserTypeRef) String() string       { return t.Name }
func (t *UserTypeRef) TypeString() string   { return t.Name }

// BoundType is `Owner.BoundThing`: a type scoped to an owning user type,
// e.g. naming a nested/member type.
type BoundType struct {
	Token lexer.Token
	Owner string
	Name  string
}

func (t *BoundType) typeExprNode()        {}
func (t *BoundType) TokenLiteral() string { return t.Token.Literal }
func (t *BoundType) Pos() lexer.Position  { return t.Token.Pos }
func (t *BoundType) String() string       { return t.TypeString() }
func (t *BoundType) TypeString() string   { return t.Owner + "." + t.Name }
