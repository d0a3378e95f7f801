// Package semantic implements luci's optional static analysis pass: a
// best-effort type check of let/return statements against their
// declared types, break/continue-outside-loop detection, and
// dead-code-after-unwind warnings. Unresolved identifiers are not
// reported. It runs ahead of evaluation; pkg/luci does not evaluate a
// program for which it reports diagnostics. Grounded on the teacher's
// internal/semantic.Analyzer shape (a long-lived struct walking the
// AST once, accumulating errors rather than stopping at the first one).
package semantic

import (
	"fmt"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/types"
)

// scope is a flat identifier->declared-type table with a parent link,
// implementing types.Context so internal/types' inference code can be
// reused here exactly as internal/interp's Environment reuses it.
type scope struct {
	vars   map[string]ast.TypeExpr
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[string]ast.TypeExpr), parent: parent}
}

func (s *scope) LookupType(name string) (ast.TypeExpr, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *scope) define(name string, t ast.TypeExpr) { s.vars[name] = t }

// Analyzer walks a parsed Program once, collecting diagnostics without
// mutating the AST or requiring evaluation.
type Analyzer struct {
	errors        []string
	loopDepth     int
	currentReturn ast.TypeExpr // declared return type of the enclosing function, nil if none/unannotated
	userTypes     map[string]*ast.UserTypeLiteral
}

// NewAnalyzer creates an empty Analyzer ready for Analyze.
func NewAnalyzer() *Analyzer {
	return &Analyzer{userTypes: make(map[string]*ast.UserTypeLiteral)}
}

// Errors returns every diagnostic collected by the most recent Analyze
// call, in source order.
func (a *Analyzer) Errors() []string { return a.errors }

func (a *Analyzer) errorf(pos ast.Node, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	a.errors = append(a.errors, fmt.Sprintf("%d:%d: %s", pos.Pos().Line, pos.Pos().Column, msg))
}

// Analyze walks program top to bottom and returns an error summarizing
// every diagnostic found (nil if none). Individual diagnostics remain
// available afterward via Errors.
func (a *Analyzer) Analyze(program *ast.Program) error {
	a.errors = nil
	root := newScope(nil)
	a.collectUserTypes(program.Statements)
	a.analyzeBlock(program.Statements, root)
	if len(a.errors) == 0 {
		return nil
	}
	return fmt.Errorf("semantic analysis found %d issue(s): %s", len(a.errors), a.errors[0])
}

func (a *Analyzer) collectUserTypes(stmts []ast.Statement) {
	for _, stmt := range stmts {
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok {
			continue
		}
		if ut, ok := es.Expression.(*ast.UserTypeLiteral); ok {
			a.userTypes[ut.Name] = ut
		}
		if let, ok := stmt.(*ast.LetStatement); ok {
			if ut, ok := let.Value.(*ast.UserTypeLiteral); ok {
				a.userTypes[ut.Name] = ut
			}
		}
	}
}

// analyzeBlock walks a statement list, flagging any statement that
// follows an unconditional return/break/continue as unreachable.
func (a *Analyzer) analyzeBlock(stmts []ast.Statement, sc *scope) {
	unwound := false
	for _, stmt := range stmts {
		if unwound {
			a.errorf(stmt, "unreachable statement")
			unwound = false // report once per block, not once per trailing statement
		}
		a.analyzeStatement(stmt, sc)
		switch stmt.(type) {
		case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement:
			unwound = true
		}
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement, sc *scope) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		valType := types.ComputeType(s.Value, sc)
		a.analyzeExpression(s.Value, sc)
		if s.DeclaredType != nil && valType != nil && !types.IsCompatible(valType, s.DeclaredType) {
			a.errorf(s, "cannot assign %s to %s declared as %s", valType.TypeString(), s.Name, s.DeclaredType.TypeString())
		}
		declared := s.DeclaredType
		if declared == nil {
			declared = valType
		}
		sc.define(s.Name, declared)

	case *ast.ImportStatement:
		// nothing to check statically: module contents are only known at load time.

	case *ast.ReturnStatement:
		if s.ReturnValue != nil {
			a.analyzeExpression(s.ReturnValue, sc)
			if a.currentReturn != nil {
				got := types.ComputeType(s.ReturnValue, sc)
				if got != nil && !types.IsCompatible(got, a.currentReturn) {
					a.errorf(s, "cannot return %s where %s is declared", got.TypeString(), a.currentReturn.TypeString())
				}
			}
		}

	case *ast.BreakStatement:
		if a.loopDepth == 0 {
			a.errorf(s, "break outside of a loop")
		}

	case *ast.ContinueStatement:
		if a.loopDepth == 0 {
			a.errorf(s, "continue outside of a loop")
		}

	case *ast.TryExceptStatement:
		a.analyzeBlock(s.TryBlock.Statements, newScope(sc))
		exceptScope := newScope(sc)
		exceptScope.define(s.ExceptName, s.ExceptType)
		a.analyzeBlock(s.ExceptBlock.Statements, exceptScope)

	case *ast.ScopeStatement:
		a.analyzeBlock(s.Body.Statements, newScope(sc))

	case *ast.ExpressionStatement:
		if s.Expression != nil {
			a.analyzeExpression(s.Expression, sc)
		}
	}
}

// analyzeExpression recurses into every sub-expression so control
// constructs nested in expression position (if/while/for/scope used as
// values, function bodies) get the same loop-depth and reachability
// checks as top-level statements.
func (a *Analyzer) analyzeExpression(expr ast.Expression, sc *scope) {
	switch e := expr.(type) {
	case *ast.Identifier:
		// Not flagged when unresolved: globals installed by internal/builtins
		// at evaluation time are invisible here, so an unknown name is not
		// necessarily an error.

	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			a.analyzeExpression(el, sc)
		}

	case *ast.DictLiteral:
		for _, ent := range e.Entries {
			a.analyzeExpression(ent.Key, sc)
			a.analyzeExpression(ent.Value, sc)
		}

	case *ast.SetLiteral:
		for _, el := range e.Elements {
			a.analyzeExpression(el, sc)
		}

	case *ast.PrefixExpression:
		a.analyzeExpression(e.Right, sc)

	case *ast.InfixExpression:
		a.analyzeExpression(e.Left, sc)
		a.analyzeExpression(e.Right, sc)

	case *ast.IfExpression:
		a.analyzeExpression(e.Condition, sc)
		a.analyzeBlock(e.Consequence.Statements, newScope(sc))
		if e.Alternative != nil {
			a.analyzeBlock(e.Alternative.Statements, newScope(sc))
		}

	case *ast.WhileExpression:
		a.analyzeExpression(e.Condition, sc)
		a.loopDepth++
		a.analyzeBlock(e.Body.Statements, newScope(sc))
		a.loopDepth--

	case *ast.ForExpression:
		a.analyzeExpression(e.Iterable, sc)
		body := newScope(sc)
		body.define(e.Name, e.DeclaredType)
		a.loopDepth++
		a.analyzeBlock(e.Body.Statements, body)
		a.loopDepth--

	case *ast.ScopeExpression:
		a.analyzeBlock(e.Body.Statements, newScope(sc))

	case *ast.FunctionLiteral:
		fnScope := newScope(sc)
		for _, p := range e.Parameters {
			fnScope.define(p.Name, p.DeclaredType)
		}
		outerReturn := a.currentReturn
		outerLoop := a.loopDepth
		a.currentReturn = e.ReturnType
		a.loopDepth = 0
		a.analyzeBlock(e.Body.Statements, fnScope)
		a.currentReturn = outerReturn
		a.loopDepth = outerLoop

	case *ast.UserTypeLiteral:
		for _, m := range e.Members {
			if m.IsMethod {
				a.analyzeExpression(m.Method, sc)
			} else if m.Default != nil {
				a.analyzeExpression(m.Default, sc)
			}
		}

	case *ast.CallExpression:
		a.analyzeExpression(e.Function, sc)
		for _, arg := range e.Arguments {
			a.analyzeExpression(arg, sc)
		}

	case *ast.IndexExpression:
		a.analyzeExpression(e.Left, sc)
		a.analyzeExpression(e.Index, sc)

	case *ast.MemberExpression:
		a.analyzeExpression(e.Object, sc)

	case *ast.ModuleMemberExpression:
		a.analyzeExpression(e.Module, sc)
	}
}
