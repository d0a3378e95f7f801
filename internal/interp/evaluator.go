package interp

import (
	"fmt"
	"os"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/types"
)

// Evaluator holds the mutable state shared by one cooperative run: the
// global environment, the module registry and the destructor anomaly
// counter (spec.md §4.7 "never crash on an undestructed object; instead
// record it"). thread() gives each spawned thread its own Evaluator over
// a cloned Environment (spec.md §5).
type Evaluator struct {
	Global    *Environment
	Modules   *ModuleRegistry
	Anomalies int
	Stdout    func(string)
	Stderr    func(string)

	// CurrentEnv is the lexical environment of the call site currently
	// being evaluated, set around every CallExpression dispatch so a
	// builtin (which otherwise only sees already-evaluated arguments) can
	// still reach the caller's scope — e.g. scope_names()/import()/run()
	// (spec.md §4.8 "module helpers").
	CurrentEnv *Environment

	// RunOnceSeen records the canonicalized paths run_once() has already
	// executed, so a second run_once() call on the same file is a no-op
	// (spec.md "run_once(path) ... refuses a second execution").
	RunOnceSeen map[string]bool
}

// NewEvaluator builds an Evaluator with a fresh global scope and the
// built-in module registry wired in (internal/builtins populates it via
// RegisterAll).
func NewEvaluator() *Evaluator {
	return &Evaluator{
		Global:  NewEnvironment(),
		Modules: NewModuleRegistry(),
		Stdout:      func(s string) { fmt.Print(s) },
		Stderr:      func(s string) { fmt.Fprint(os.Stderr, s) },
		RunOnceSeen: map[string]bool{},
	}
}

// Eval dispatches over every statement and expression node. It returns a
// Value; control-flow carriers (ReturnValue/BreakValue/ContinueValue/
// ExitValue) and ErrorValue propagate upward like any other value until
// consumed by their matching construct (spec.md §4.4).
func (e *Evaluator) Eval(node ast.Node, env *Environment) Value {
	switch n := node.(type) {
	case *ast.Program:
		return e.evalProgram(n, env)
	case *ast.BlockStatement:
		return e.evalBlockStatement(n, env)
	case *ast.ExpressionStatement:
		if n.Expression == nil {
			return &NullValue{}
		}
		return e.Eval(n.Expression, env)
	case *ast.LetStatement:
		return e.evalLetStatement(n, env)
	case *ast.ImportStatement:
		return e.evalImportStatement(n, env)
	case *ast.ReturnStatement:
		var val Value = &NullValue{}
		if n.ReturnValue != nil {
			val = e.Eval(n.ReturnValue, env)
			if isUnwind(val) {
				return val
			}
		}
		return &ReturnValue{Value: val}
	case *ast.BreakStatement:
		return &BreakValue{}
	case *ast.ContinueStatement:
		return &ContinueValue{}
	case *ast.TryExceptStatement:
		return e.evalTryExcept(n, env)
	case *ast.ScopeStatement:
		return e.evalScopeBody(n.Body, env)

	case *ast.BooleanLiteral:
		return &BooleanValue{Value: n.Value}
	case *ast.IntegerLiteral:
		return &IntegerValue{Value: n.Value}
	case *ast.DoubleLiteral:
		return &DoubleValue{Value: n.Value}
	case *ast.ComplexLiteral:
		return &ComplexValue{Real: n.Real, Imag: n.Imag}
	case *ast.StringLiteral:
		return &StringValue{Value: n.Value}
	case *ast.NullLiteral:
		return &NullValue{}
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(n, env)
	case *ast.ArrayDoubleLiteral:
		elems := make([]float64, len(n.Elements))
		for i, d := range n.Elements {
			elems[i] = d.Value
		}
		return &ArrayDoubleValue{Elements: elems}
	case *ast.ArrayComplexLiteral:
		elems := make([]complex128, len(n.Elements))
		for i, c := range n.Elements {
			elems[i] = complex(c.Real, c.Imag)
		}
		return &ArrayComplexValue{Elements: elems}
	case *ast.DictLiteral:
		return e.evalDictLiteral(n, env)
	case *ast.SetLiteral:
		return e.evalSetLiteral(n, env)
	case *ast.Identifier:
		return e.evalIdentifier(n, env)
	case *ast.FunctionLiteral:
		return &FunctionValue{Params: n.Parameters, Return: n.ReturnType, Body: n.Body, Env: env}
	case *ast.UserTypeLiteral:
		return e.evalUserTypeLiteral(n, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(n, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(n, env)
	case *ast.IfExpression:
		return e.evalIfExpression(n, env)
	case *ast.WhileExpression:
		return e.evalWhileExpression(n, env)
	case *ast.ForExpression:
		return e.evalForExpression(n, env)
	case *ast.ScopeExpression:
		return e.evalScopeBody(n.Body, env)
	case *ast.CallExpression:
		return e.evalCallExpression(n, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(n, env)
	case *ast.MemberExpression:
		return e.evalMemberExpression(n, env)
	case *ast.ModuleMemberExpression:
		return e.evalModuleMemberExpression(n, env)
	}
	return NewError(UndefinedError, fmt.Sprintf("no evaluation rule for %T", node))
}

// isUnwind reports whether v is a control-flow carrier that must
// short-circuit surrounding evaluation instead of being used as a
// value (spec.md §4.4).
func isUnwind(v Value) bool {
	switch v.(type) {
	case *ReturnValue, *BreakValue, *ContinueValue, *ExitValue:
		return true
	}
	return false
}

func isError(v Value) bool {
	_, ok := v.(*ErrorValue)
	return ok
}

// evalProgram evaluates top-level statements in order; a bare ExitValue
// reaching this point ends the run (spec.md §5 exit()).
func (e *Evaluator) evalProgram(p *ast.Program, env *Environment) Value {
	var result Value = &NullValue{}
	for _, stmt := range p.Statements {
		result = e.Eval(stmt, env)
		switch result.(type) {
		case *ReturnValue, *ExitValue, *ErrorValue:
			return result
		}
	}
	return result
}

// evalBlockStatement runs statements sequentially, stopping early on any
// unwind carrier or error so it can propagate to the enclosing
// construct (loop, function call, try/except, or program top level).
func (e *Evaluator) evalBlockStatement(b *ast.BlockStatement, env *Environment) Value {
	var result Value = &NullValue{}
	for _, stmt := range b.Statements {
		result = e.Eval(stmt, env)
		if isUnwind(result) || isError(result) {
			return result
		}
	}
	return result
}

// evalScopeBody runs body in a fresh child environment and runs
// destructors for any UserObjects newly bound directly in that scope
// on exit, regardless of how the block was left (spec.md §4.7).
func (e *Evaluator) evalScopeBody(body *ast.BlockStatement, env *Environment) Value {
	inner := NewEnclosedEnvironment(env)
	result := e.evalBlockStatement(body, inner)
	e.runScopeDestructors(inner)
	return result
}

// runScopeDestructors invokes each directly-bound UserObject's
// destructor exactly once. A ghost object (a copy with Destructor
// already cleared) is substituted before invocation so a destructor
// that inspects `self` cannot re-trigger its own teardown (spec.md §4.7
// "ghost object to avoid recursion"). A destructor that panics or
// itself errors is recorded as an anomaly, never propagated — luci
// destructors must not be able to crash the interpreter.
func (e *Evaluator) runScopeDestructors(env *Environment) {
	for _, b := range env.store {
		switch v := b.value.(type) {
		case *UserObjectValue:
			if v.Destructor == nil {
				continue
			}
			destructor := v.Destructor
			v.Destructor = nil // detach before invocation
			ghost := &UserObjectValue{Type: v.Type, Properties: v.Properties}
			e.safeInvokeDestructor(destructor, ghost)
		case *ObjectFreezer:
			v.Release()
		}
	}
}

func (e *Evaluator) safeInvokeDestructor(fn *FunctionValue, self *UserObjectValue) {
	defer func() {
		if r := recover(); r != nil {
			e.Anomalies++
		}
	}()
	callEnv := NewEnclosedEnvironment(fn.Env)
	callEnv.store["self"] = &binding{value: self}
	result := e.evalBlockStatement(fn.Body, callEnv)
	if isError(result) {
		e.Anomalies++
	}
}

func (e *Evaluator) evalLetStatement(n *ast.LetStatement, env *Environment) Value {
	val := e.Eval(n.Value, env)
	if isUnwind(val) || isError(val) {
		return val
	}
	if n.DeclaredType != nil {
		computed := types.ComputeType(n.Value, env)
		if !types.IsCompatible(computed, n.DeclaredType) {
			return NewError(TypeError, fmt.Sprintf("cannot assign value of type %s to declared type %s",
				computed.TypeString(), n.DeclaredType.TypeString()))
		}
	}
	if declErr := env.Define(n.Name, val, n.DeclaredType, n.Const); declErr != nil {
		return declErr
	}
	return &NullValue{}
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier, env *Environment) Value {
	if v, ok := env.Get(n.Value); ok {
		return v
	}
	return NewError(IdentifierNotFound, "identifier not found: "+n.Value)
}

func (e *Evaluator) evalArrayLiteral(n *ast.ArrayLiteral, env *Environment) Value {
	elems := make([]Value, len(n.Elements))
	for i, el := range n.Elements {
		v := e.Eval(el, env)
		if isUnwind(v) || isError(v) {
			return v
		}
		elems[i] = v
	}
	return &ArrayValue{Elements: elems}
}

func (e *Evaluator) evalDictLiteral(n *ast.DictLiteral, env *Environment) Value {
	d := NewDict()
	for _, ent := range n.Entries {
		k := e.Eval(ent.Key, env)
		if isUnwind(k) || isError(k) {
			return k
		}
		v := e.Eval(ent.Value, env)
		if isUnwind(v) || isError(v) {
			return v
		}
		if err := d.Set(k, v); err != nil {
			return NewError(KeyError, err.Error())
		}
	}
	return d
}

func (e *Evaluator) evalSetLiteral(n *ast.SetLiteral, env *Environment) Value {
	s := NewSet()
	for _, el := range n.Elements {
		v := e.Eval(el, env)
		if isUnwind(v) || isError(v) {
			return v
		}
		if err := s.Add(v); err != nil {
			return NewError(KeyError, err.Error())
		}
	}
	return s
}

func (e *Evaluator) evalUserTypeLiteral(n *ast.UserTypeLiteral, env *Environment) Value {
	ut := &UserTypeValue{
		Name:       n.Name,
		Doc:        n.Doc,
		Methods:    map[string]*FunctionValue{},
		Properties: map[string]PropertySlot{},
	}
	for _, m := range n.Members {
		if m.IsMethod {
			ut.Methods[m.Name] = &FunctionValue{
				Name: m.Name, Params: m.Method.Parameters, Return: m.Method.ReturnType,
				Body: m.Method.Body, Env: env,
			}
		} else {
			ut.Properties[m.Name] = PropertySlot{Const: m.Const, DeclaredType: m.DeclType, Default: m.Default}
		}
	}
	return ut
}

// evalIfExpression evaluates the condition via scalar-only truthiness
// (spec.md §4.4).
func (e *Evaluator) evalIfExpression(n *ast.IfExpression, env *Environment) Value {
	cond := e.Eval(n.Condition, env)
	if isUnwind(cond) || isError(cond) {
		return cond
	}
	if IsTruthy(cond) {
		return e.evalScopeBody(n.Consequence, env)
	}
	if n.Alternative != nil {
		return e.evalScopeBody(n.Alternative, env)
	}
	return &NullValue{}
}

func (e *Evaluator) evalWhileExpression(n *ast.WhileExpression, env *Environment) Value {
	for {
		cond := e.Eval(n.Condition, env)
		if isUnwind(cond) || isError(cond) {
			return cond
		}
		if !IsTruthy(cond) {
			break
		}
		result := e.evalScopeBody(n.Body, env)
		if isError(result) {
			return result
		}
		switch result.(type) {
		case *BreakValue:
			return &NullValue{}
		case *ReturnValue, *ExitValue:
			return result
		}
	}
	return &NullValue{}
}

// evalForExpression iterates an Array/Dictionary/Set/Range/String,
// freezing the iterable for the duration of the loop so mutation
// mid-iteration is impossible (spec.md §4.4, §5).
func (e *Evaluator) evalForExpression(n *ast.ForExpression, env *Environment) Value {
	iterable := e.Eval(n.Iterable, env)
	if isUnwind(iterable) || isError(iterable) {
		return iterable
	}
	freezer := NewFreezer(iterable)
	defer freezer.Release()

	items, err := iterationItems(iterable)
	if err != nil {
		return NewError(TypeError, err.Error())
	}

	for _, item := range items {
		loopEnv := NewEnclosedEnvironment(env)
		if declErr := loopEnv.Define(n.Name, item, n.DeclaredType, n.Const); declErr != nil {
			return declErr
		}
		result := e.evalBlockStatement(n.Body, loopEnv)
		e.runScopeDestructors(loopEnv)
		if isError(result) {
			return result
		}
		switch result.(type) {
		case *BreakValue:
			return &NullValue{}
		case *ReturnValue, *ExitValue:
			return result
		}
	}
	return &NullValue{}
}

// iterationItems enumerates the elements a for-loop produces for v,
// spec.md §3's iterable tags.
func iterationItems(v Value) ([]Value, error) {
	switch vv := v.(type) {
	case *ArrayValue:
		return vv.Elements, nil
	case *ArrayDoubleValue:
		items := make([]Value, len(vv.Elements))
		for i, d := range vv.Elements {
			items[i] = &DoubleValue{Value: d}
		}
		return items, nil
	case *ArrayComplexValue:
		items := make([]Value, len(vv.Elements))
		for i, c := range vv.Elements {
			items[i] = &ComplexValue{Real: real(c), Imag: imag(c)}
		}
		return items, nil
	case *SetValue:
		return append([]Value{}, vv.Elements...), nil
	case *DictValue:
		items := make([]Value, len(vv.Keys))
		for i := range vv.Keys {
			items[i] = &ArrayValue{Elements: []Value{vv.Keys[i], vv.Values[i]}}
		}
		return items, nil
	case *RangeValue:
		n := vv.Len()
		items := make([]Value, 0, n)
		cur := vv.Lower
		for i := 0; i < n; i++ {
			items = append(items, &IntegerValue{Value: cur})
			cur += vv.Stride
		}
		return items, nil
	case *StringValue:
		runes := []rune(vv.Value)
		items := make([]Value, len(runes))
		for i, r := range runes {
			items[i] = &CharValue{Value: r}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("value of tag %s is not iterable", v.Tag())
	}
}

// evalTryExcept evaluates TryBlock; if the result is an Error value
// (and, when ExceptType is given, compatible with it), binds it to
// ExceptName and runs ExceptBlock instead (spec.md §4.2, §7).
func (e *Evaluator) evalTryExcept(n *ast.TryExceptStatement, env *Environment) Value {
	inner := NewEnclosedEnvironment(env)
	result := e.evalBlockStatement(n.TryBlock, inner)
	e.runScopeDestructors(inner)

	errVal, ok := result.(*ErrorValue)
	if !ok {
		return result
	}
	if n.ExceptType != nil {
		// Every error value's runtime tag is Error regardless of kind
		// (spec.md §4.3 maps the sole identifier "error" -> Error); an
		// except clause typed with anything structurally compatible with
		// that identifier catches any kind (original_source's
		// evalTryExceptStatement, Evaluator.cpp:3800, catches
		// unconditionally since the language has no finer-grained error
		// type identifiers).
		errIdent := &ast.IdentifierType{Token: lexer.Token{Type: lexer.IDENT, Literal: "error"}, Name: "error"}
		if !types.IsCompatible(errIdent, n.ExceptType) {
			return result // not handled here, keep propagating
		}
	}
	exceptEnv := NewEnclosedEnvironment(env)
	_ = exceptEnv.Define(n.ExceptName, errVal, n.ExceptType, false)
	out := e.evalBlockStatement(n.ExceptBlock, exceptEnv)
	e.runScopeDestructors(exceptEnv)
	return out
}

func (e *Evaluator) evalImportStatement(n *ast.ImportStatement, env *Environment) Value {
	mod, err := e.Modules.Load(e, n.Path)
	if err != nil {
		return NewError(ImportError, err.Error())
	}
	name := n.Path[len(n.Path)-1]
	if declErr := env.Define(name, mod, nil, true); declErr != nil {
		return declErr
	}
	return &NullValue{}
}
