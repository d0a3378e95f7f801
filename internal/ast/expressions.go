package ast

import (
	"bytes"
	"strings"

	"github.com/nightwing1978/luci-go/internal/lexer"
)

// --- scalar / literal expressions -----------------------------------------

type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (e *BooleanLiteral) expressionNode()      {}
func (e *BooleanLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *BooleanLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *BooleanLiteral) String() string       { return e.Token.Literal }

type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (e *IntegerLiteral) expressionNode()      {}
func (e *IntegerLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *IntegerLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *IntegerLiteral) String() string       { return e.Token.Literal }

type DoubleLiteral struct {
	Token lexer.Token
	Value float64
}

func (e *DoubleLiteral) expressionNode()      {}
func (e *DoubleLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *DoubleLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *DoubleLiteral) String() string       { return e.Token.Literal }

// ComplexLiteral is reachable only via the typed-array-of-complex literal
// path and the complex(...) builtin (spec.md §9 Open Question); it is not
// produced by a dedicated lexer token.
type ComplexLiteral struct {
	Token lexer.Token
	Real  float64
	Imag  float64
}

func (e *ComplexLiteral) expressionNode()      {}
func (e *ComplexLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ComplexLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *ComplexLiteral) String() string       { return e.Token.Literal }

type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (e *StringLiteral) expressionNode()      {}
func (e *StringLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *StringLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *StringLiteral) String() string       { return "\"" + e.Value + "\"" }

type NullLiteral struct{ Token lexer.Token }

func (e *NullLiteral) expressionNode()      {}
func (e *NullLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *NullLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *NullLiteral) String() string       { return "null" }

// ArrayLiteral is a generic `[e1, e2, …]` array literal.
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (e *ArrayLiteral) expressionNode()      {}
func (e *ArrayLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ArrayLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *ArrayLiteral) String() string       { return listString("[", e.Elements, "]") }

// ArrayDoubleLiteral is an array literal reclassified at parse time
// because every element was a double literal (spec.md §4.2).
type ArrayDoubleLiteral struct {
	Token    lexer.Token
	Elements []*DoubleLiteral
}

func (e *ArrayDoubleLiteral) expressionNode()      {}
func (e *ArrayDoubleLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ArrayDoubleLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *ArrayDoubleLiteral) String() string {
	elems := make([]Expression, len(e.Elements))
	for i, d := range e.Elements {
		elems[i] = d
	}
	return listString("[", elems, "]")
}

// ArrayComplexLiteral is the complex-literal analog of ArrayDoubleLiteral.
type ArrayComplexLiteral struct {
	Token    lexer.Token
	Elements []*ComplexLiteral
}

func (e *ArrayComplexLiteral) expressionNode()      {}
func (e *ArrayComplexLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ArrayComplexLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *ArrayComplexLiteral) String() string {
	elems := make([]Expression, len(e.Elements))
	for i, d := range e.Elements {
		elems[i] = d
	}
	return listString("[", elems, "]")
}

// DictEntry is one `key: value` pair of a DictLiteral.
type DictEntry struct {
	Key   Expression
	Value Expression
}

// DictLiteral is `{k1: v1, k2: v2, …}`; an empty `{}` is always a dict,
// never a set (spec.md §4.2, §8 boundary behaviors).
type DictLiteral struct {
	Token   lexer.Token
	Entries []DictEntry
}

func (e *DictLiteral) expressionNode()      {}
func (e *DictLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *DictLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *DictLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	parts := make([]string, len(e.Entries))
	for i, ent := range e.Entries {
		parts[i] = ent.Key.String() + ": " + ent.Value.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

// SetLiteral is `{e1, e2, …}`, disambiguated from DictLiteral at parse
// time by the absence of a `:` after the first element.
type SetLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (e *SetLiteral) expressionNode()      {}
func (e *SetLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *SetLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *SetLiteral) String() string       { return listString("{", e.Elements, "}") }

func listString(open string, elems []Expression, close string) string {
	parts := make([]string, len(elems))
	for i, el := range elems {
		parts[i] = el.String()
	}
	return open + strings.Join(parts, ", ") + close
}

// --- operators --------------------------------------------------------------

// PrefixExpression is `!x` or `-x`.
type PrefixExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (e *PrefixExpression) expressionNode()      {}
func (e *PrefixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *PrefixExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *PrefixExpression) String() string {
	return "(" + e.Operator + e.Right.String() + ")"
}

// InfixExpression covers all binary operators including assignment and
// compound-assign; the evaluator dispatches assignment semantics when
// Operator is one of "=", "+=", "-=", "*=", "/=" (spec.md §4.4
// "Assignment").
type InfixExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (e *InfixExpression) expressionNode()      {}
func (e *InfixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *InfixExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *InfixExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// --- control constructs ------------------------------------------------------

type IfExpression struct {
	Token       lexer.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil if no else
}

func (e *IfExpression) expressionNode()      {}
func (e *IfExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IfExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *IfExpression) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(e.Condition.String())
	out.WriteString(" ")
	out.WriteString(e.Consequence.String())
	if e.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(e.Alternative.String())
	}
	return out.String()
}

type WhileExpression struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (e *WhileExpression) expressionNode()      {}
func (e *WhileExpression) TokenLiteral() string { return e.Token.Literal }
func (e *WhileExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *WhileExpression) String() string {
	return "while " + e.Condition.String() + " " + e.Body.String()
}

// ForExpression is `for (CONST? name [: T] in expr) { … }` (spec.md §4.2).
type ForExpression struct {
	Token        lexer.Token
	Const        bool
	Name         string
	DeclaredType TypeExpr // nil if unannotated
	Iterable     Expression
	Body         *BlockStatement
}

func (e *ForExpression) expressionNode()      {}
func (e *ForExpression) TokenLiteral() string { return e.Token.Literal }
func (e *ForExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *ForExpression) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if e.Const {
		out.WriteString("const ")
	}
	out.WriteString(e.Name)
	if e.DeclaredType != nil {
		out.WriteString(": " + e.DeclaredType.TypeString())
	}
	out.WriteString(" in ")
	out.WriteString(e.Iterable.String())
	out.WriteString(") ")
	out.WriteString(e.Body.String())
	return out.String()
}

// ScopeExpression is `scope { … }`: an expression-valued block that
// introduces a fresh environment without being a loop or conditional.
type ScopeExpression struct {
	Token lexer.Token
	Body  *BlockStatement
}

func (e *ScopeExpression) expressionNode()      {}
func (e *ScopeExpression) TokenLiteral() string { return e.Token.Literal }
func (e *ScopeExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *ScopeExpression) String() string       { return "scope " + e.Body.String() }

// --- call / index / member ---------------------------------------------------

type CallExpression struct {
	Token     lexer.Token // '('
	Function  Expression
	Arguments []Expression
}

func (e *CallExpression) expressionNode()      {}
func (e *CallExpression) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *CallExpression) String() string {
	return e.Function.String() + listString("(", e.Arguments, ")")
}

type IndexExpression struct {
	Token lexer.Token // '['
	Left  Expression
	Index Expression
}

func (e *IndexExpression) expressionNode()      {}
func (e *IndexExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *IndexExpression) String() string {
	return "(" + e.Left.String() + "[" + e.Index.String() + "])"
}

// MemberExpression is `.` member access: `obj.field`.
type MemberExpression struct {
	Token    lexer.Token // '.'
	Object   Expression
	Property string
}

func (e *MemberExpression) expressionNode()      {}
func (e *MemberExpression) TokenLiteral() string { return e.Token.Literal }
func (e *MemberExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *MemberExpression) String() string {
	return "(" + e.Object.String() + "." + e.Property + ")"
}

// ModuleMemberExpression is `::` module member access: `math::pi`.
type ModuleMemberExpression struct {
	Token  lexer.Token // '::'
	Module Expression
	Member string
}

func (e *ModuleMemberExpression) expressionNode()      {}
func (e *ModuleMemberExpression) TokenLiteral() string { return e.Token.Literal }
func (e *ModuleMemberExpression) Pos() lexer.Position  { return e.Token.Pos }
func (e *ModuleMemberExpression) String() string {
	return e.Module.String() + "::" + e.Member
}
