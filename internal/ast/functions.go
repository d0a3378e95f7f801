package ast

import (
	"bytes"
	"strings"

	"github.com/nightwing1978/luci-go/internal/lexer"
)

// Parameter is one `name [: T]` function-literal argument.
type Parameter struct {
	Name         string
	DeclaredType TypeExpr // nil if unannotated
}

func (p Parameter) String() string {
	if p.DeclaredType != nil {
		return p.Name + ": " + p.DeclaredType.TypeString()
	}
	return p.Name
}

// FunctionLiteral is `fn(arg [: T], …) [-> R] { … }`, optionally preceded
// by an accumulated doc-comment run (spec.md §3, §4.2).
type FunctionLiteral struct {
	Token      lexer.Token // 'fn'
	Parameters []Parameter
	ReturnType TypeExpr // nil if unannotated (inferred by the type system)
	Body       *BlockStatement
	Doc        string
}

func (e *FunctionLiteral) expressionNode()      {}
func (e *FunctionLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *FunctionLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *FunctionLiteral) String() string {
	var out bytes.Buffer
	params := make([]string, len(e.Parameters))
	for i, p := range e.Parameters {
		params[i] = p.String()
	}
	out.WriteString("fn(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if e.ReturnType != nil {
		out.WriteString(" -> " + e.ReturnType.TypeString())
	}
	out.WriteString(" ")
	out.WriteString(e.Body.String())
	return out.String()
}

// MemberDef is one member of a user-type literal: either a property
// default (`let name: T = expr`) or a method (`[fn] name(...) {...}`).
type MemberDef struct {
	IsMethod bool
	Name     string
	Const    bool              // property-only
	DeclType TypeExpr          // property-only declared type, may be nil
	Default  Expression        // property-only default-value expression
	Method   *FunctionLiteral  // method-only
}

// UserTypeLiteral is `type [Name] { … }`: a name (empty for an anonymous
// literal), doc string, and a list of member definitions (spec.md §3
// "user-type literal").
type UserTypeLiteral struct {
	Token   lexer.Token // 'type'
	Name    string
	Doc     string
	Members []MemberDef
}

func (e *UserTypeLiteral) expressionNode()      {}
func (e *UserTypeLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *UserTypeLiteral) Pos() lexer.Position  { return e.Token.Pos }
func (e *UserTypeLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("type ")
	out.WriteString(e.Name)
	out.WriteString(" { ")
	for _, m := range e.Members {
		if m.IsMethod {
			out.WriteString(m.Method.String())
		} else {
			out.WriteString("let " + m.Name)
			if m.DeclType != nil {
				out.WriteString(": " + m.DeclType.TypeString())
			}
			if m.Default != nil {
				out.WriteString(" = " + m.Default.String())
			}
			out.WriteString("; ")
		}
	}
	out.WriteString("}")
	return out.String()
}
