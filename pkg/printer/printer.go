// Package printer renders an AST back to indented luci source text. It
// backs the spec's round-trip testable property (parse -> print -> parse
// again yields an equivalent tree) with human-readable, multi-line
// output — as opposed to internal/ast's own compact single-line
// String() methods, which exist purely for diagnostics. Grounded on the
// teacher's pkg/printer contract (a dedicated printer package, separate
// from the AST's own String(), driven by a type switch per node family)
// reconstructed from that package's test suite, since the teacher's
// printer source itself shipped test-only in the retrieved pack.
package printer

import (
	"strings"

	"github.com/nightwing1978/luci-go/internal/ast"
)

// Printer renders an ast.Program (or any Node) to indented source text.
type Printer struct {
	indent string
}

// New returns a Printer using indentStr (e.g. "  " or "\t") per
// nesting level.
func New(indentStr string) *Printer {
	if indentStr == "" {
		indentStr = "  "
	}
	return &Printer{indent: indentStr}
}

// Print renders program as a sequence of top-level statements.
func (p *Printer) Print(program *ast.Program) string {
	var sb strings.Builder
	for _, s := range program.Statements {
		p.printStatement(&sb, s, 0)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintNode renders any single node at the top indentation level, for
// callers that want to print one statement or expression in isolation.
func (p *Printer) PrintNode(n ast.Node) string {
	var sb strings.Builder
	switch v := n.(type) {
	case ast.Statement:
		p.printStatement(&sb, v, 0)
	case ast.Expression:
		sb.WriteString(p.printExpr(v, 0))
	default:
		sb.WriteString(n.String())
	}
	return sb.String()
}

func (p *Printer) pad(level int) string { return strings.Repeat(p.indent, level) }

func (p *Printer) printStatement(sb *strings.Builder, stmt ast.Statement, level int) {
	sb.WriteString(p.pad(level))
	switch s := stmt.(type) {
	case *ast.LetStatement:
		sb.WriteString("let ")
		if s.Const {
			sb.WriteString("const ")
		}
		sb.WriteString(s.Name)
		if s.DeclaredType != nil {
			sb.WriteString(": " + s.DeclaredType.TypeString())
		}
		sb.WriteString(" = ")
		sb.WriteString(p.printExpr(s.Value, level))
		sb.WriteString(";")

	case *ast.ImportStatement:
		sb.WriteString("import " + strings.Join(s.Path, "::") + ";")

	case *ast.ReturnStatement:
		if s.ReturnValue == nil {
			sb.WriteString("return;")
		} else {
			sb.WriteString("return " + p.printExpr(s.ReturnValue, level) + ";")
		}

	case *ast.BreakStatement:
		sb.WriteString("break;")

	case *ast.ContinueStatement:
		sb.WriteString("continue;")

	case *ast.TryExceptStatement:
		sb.WriteString("try ")
		sb.WriteString(p.printBlock(s.TryBlock, level))
		sb.WriteString(" except (" + s.ExceptName)
		if s.ExceptType != nil {
			sb.WriteString(": " + s.ExceptType.TypeString())
		}
		sb.WriteString(") ")
		sb.WriteString(p.printBlock(s.ExceptBlock, level))

	case *ast.ScopeStatement:
		sb.WriteString("scope ")
		sb.WriteString(p.printBlock(s.Body, level))

	case *ast.ExpressionStatement:
		if s.Expression != nil {
			sb.WriteString(p.printExpr(s.Expression, level) + ";")
		}

	default:
		sb.WriteString(stmt.String())
	}
}

func (p *Printer) printBlock(b *ast.BlockStatement, level int) string {
	if b == nil || len(b.Statements) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		p.printStatement(&sb, s, level+1)
		sb.WriteString("\n")
	}
	sb.WriteString(p.pad(level) + "}")
	return sb.String()
}

func (p *Printer) printExpr(expr ast.Expression, level int) string {
	switch e := expr.(type) {
	case *ast.IfExpression:
		var sb strings.Builder
		sb.WriteString("if " + p.printExpr(e.Condition, level) + " ")
		sb.WriteString(p.printBlock(e.Consequence, level))
		if e.Alternative != nil {
			sb.WriteString(" else " + p.printBlock(e.Alternative, level))
		}
		return sb.String()

	case *ast.WhileExpression:
		return "while " + p.printExpr(e.Condition, level) + " " + p.printBlock(e.Body, level)

	case *ast.ForExpression:
		var sb strings.Builder
		sb.WriteString("for (")
		if e.Const {
			sb.WriteString("const ")
		}
		sb.WriteString(e.Name)
		if e.DeclaredType != nil {
			sb.WriteString(": " + e.DeclaredType.TypeString())
		}
		sb.WriteString(" in " + p.printExpr(e.Iterable, level) + ") ")
		sb.WriteString(p.printBlock(e.Body, level))
		return sb.String()

	case *ast.ScopeExpression:
		return "scope " + p.printBlock(e.Body, level)

	case *ast.FunctionLiteral:
		var sb strings.Builder
		if e.Doc != "" {
			for _, line := range strings.Split(e.Doc, "\n") {
				sb.WriteString("/// " + line + "\n" + p.pad(level))
			}
		}
		params := make([]string, len(e.Parameters))
		for i, param := range e.Parameters {
			params[i] = param.String()
		}
		sb.WriteString("fn(" + strings.Join(params, ", ") + ")")
		if e.ReturnType != nil {
			sb.WriteString(" -> " + e.ReturnType.TypeString())
		}
		sb.WriteString(" " + p.printBlock(e.Body, level))
		return sb.String()

	case *ast.UserTypeLiteral:
		var sb strings.Builder
		if e.Doc != "" {
			for _, line := range strings.Split(e.Doc, "\n") {
				sb.WriteString("/// " + line + "\n" + p.pad(level))
			}
		}
		sb.WriteString("type " + e.Name + " {\n")
		for _, m := range e.Members {
			sb.WriteString(p.pad(level + 1))
			if m.IsMethod {
				params := make([]string, len(m.Method.Parameters))
				for i, param := range m.Method.Parameters {
					params[i] = param.String()
				}
				sb.WriteString(m.Name + "(" + strings.Join(params, ", ") + ")")
				if m.Method.ReturnType != nil {
					sb.WriteString(" -> " + m.Method.ReturnType.TypeString())
				}
				sb.WriteString(" " + p.printBlock(m.Method.Body, level+1))
			} else {
				sb.WriteString("let ")
				if m.Const {
					sb.WriteString("const ")
				}
				sb.WriteString(m.Name)
				if m.DeclType != nil {
					sb.WriteString(": " + m.DeclType.TypeString())
				}
				if m.Default != nil {
					sb.WriteString(" = " + p.printExpr(m.Default, level+1))
				}
				sb.WriteString(";")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(p.pad(level) + "}")
		return sb.String()

	case *ast.InfixExpression:
		return "(" + p.printExpr(e.Left, level) + " " + e.Operator + " " + p.printExpr(e.Right, level) + ")"

	case *ast.PrefixExpression:
		return "(" + e.Operator + p.printExpr(e.Right, level) + ")"

	case *ast.CallExpression:
		args := make([]string, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = p.printExpr(a, level)
		}
		return p.printExpr(e.Function, level) + "(" + strings.Join(args, ", ") + ")"

	case *ast.IndexExpression:
		return "(" + p.printExpr(e.Left, level) + "[" + p.printExpr(e.Index, level) + "])"

	case *ast.MemberExpression:
		return "(" + p.printExpr(e.Object, level) + "." + e.Property + ")"

	case *ast.ModuleMemberExpression:
		return p.printExpr(e.Module, level) + "::" + e.Member

	case *ast.ArrayLiteral:
		elems := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = p.printExpr(el, level)
		}
		return "[" + strings.Join(elems, ", ") + "]"

	case *ast.DictLiteral:
		parts := make([]string, len(e.Entries))
		for i, ent := range e.Entries {
			parts[i] = p.printExpr(ent.Key, level) + ": " + p.printExpr(ent.Value, level)
		}
		return "{" + strings.Join(parts, ", ") + "}"

	case *ast.SetLiteral:
		elems := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = p.printExpr(el, level)
		}
		return "{" + strings.Join(elems, ", ") + "}"

	default:
		// Scalar literals, identifiers, and everything else the AST
		// already renders identically whether compact or pretty.
		return expr.String()
	}
}
