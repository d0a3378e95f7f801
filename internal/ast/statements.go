package ast

import (
	"bytes"
	"strings"

	"github.com/nightwing1978/luci-go/internal/lexer"
)

// LetStatement is `let [const] name [: type] = expr ;`. A bare `let x;`
// with no `=` is rejected at parse time (spec.md §4.2).
type LetStatement struct {
	Token        lexer.Token // 'let'
	Const        bool
	Name         string
	DeclaredType TypeExpr // nil if unannotated
	Value        Expression
}

func (s *LetStatement) statementNode()      {}
func (s *LetStatement) TokenLiteral() string { return s.Token.Literal }
func (s *LetStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *LetStatement) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	if s.Const {
		out.WriteString("const ")
	}
	out.WriteString(s.Name)
	if s.DeclaredType != nil {
		out.WriteString(": " + s.DeclaredType.TypeString())
	}
	out.WriteString(" = ")
	out.WriteString(s.Value.String())
	out.WriteString(";")
	return out.String()
}

// ImportStatement is `import a::b::c ;` (spec.md §4.5).
type ImportStatement struct {
	Token lexer.Token // 'import'
	Path  []string
}

func (s *ImportStatement) statementNode()      {}
func (s *ImportStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ImportStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ImportStatement) String() string {
	return "import " + strings.Join(s.Path, "::") + ";"
}

// ReturnStatement is `return [expr] ;`.
type ReturnStatement struct {
	Token       lexer.Token
	ReturnValue Expression // nil for a bare `return;`
}

func (s *ReturnStatement) statementNode()      {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ReturnStatement) String() string {
	if s.ReturnValue == nil {
		return "return;"
	}
	return "return " + s.ReturnValue.String() + ";"
}

type BreakStatement struct{ Token lexer.Token }

func (s *BreakStatement) statementNode()      {}
func (s *BreakStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BreakStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *BreakStatement) String() string       { return "break;" }

type ContinueStatement struct{ Token lexer.Token }

func (s *ContinueStatement) statementNode()      {}
func (s *ContinueStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ContinueStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ContinueStatement) String() string       { return "continue;" }

// TryExceptStatement is `try { … } except (name [: T]) { … }` (spec.md §4.2, §7).
type TryExceptStatement struct {
	Token        lexer.Token // 'try'
	TryBlock     *BlockStatement
	ExceptName   string
	ExceptType   TypeExpr // nil if unannotated
	ExceptBlock  *BlockStatement
}

func (s *TryExceptStatement) statementNode()      {}
func (s *TryExceptStatement) TokenLiteral() string { return s.Token.Literal }
func (s *TryExceptStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *TryExceptStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(s.TryBlock.String())
	out.WriteString(" except (")
	out.WriteString(s.ExceptName)
	if s.ExceptType != nil {
		out.WriteString(": " + s.ExceptType.TypeString())
	}
	out.WriteString(") ")
	out.WriteString(s.ExceptBlock.String())
	return out.String()
}

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (s *ExpressionStatement) statementNode()      {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ExpressionStatement) String() string {
	if s.Expression == nil {
		return ""
	}
	return s.Expression.String() + ";"
}

// ScopeStatement is `scope { … }` used in statement position (as opposed
// to ScopeExpression, used where an expression is required).
type ScopeStatement struct {
	Token lexer.Token
	Body  *BlockStatement
}

func (s *ScopeStatement) statementNode()      {}
func (s *ScopeStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ScopeStatement) Pos() lexer.Position  { return s.Token.Pos }
func (s *ScopeStatement) String() string       { return "scope " + s.Body.String() }
