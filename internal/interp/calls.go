package interp

import (
	"fmt"

	"github.com/nightwing1978/luci-go/internal/ast"
)

func (e *Evaluator) evalCallExpression(n *ast.CallExpression, env *Environment) Value {
	callee := e.Eval(n.Function, env)
	if isUnwind(callee) || isError(callee) {
		return callee
	}
	args := make([]Value, len(n.Arguments))
	for i, a := range n.Arguments {
		v := e.Eval(a, env)
		if isUnwind(v) || isError(v) {
			return v
		}
		args[i] = v
	}
	prevEnv := e.CurrentEnv
	e.CurrentEnv = env
	result := e.applyFunction(callee, args)
	e.CurrentEnv = prevEnv
	return result
}

// Call invokes callee (a Function, Builtin, bound method, or UserType
// constructor) with args, the same dispatch a CallExpression uses.
// Exported so builtins can call back into user code, e.g. sort's
// optional comparator (spec.md §4.4 "Sort contract").
func (e *Evaluator) Call(callee Value, args []Value) Value {
	return e.applyFunction(callee, args)
}

func (e *Evaluator) applyFunction(callee Value, args []Value) Value {
	switch fn := callee.(type) {
	case *FunctionValue:
		return e.callUserFunction(fn, args, nil)
	case *BuiltinValue:
		return fn.Fn(e, args)
	case *BoundBuiltinTypeFunction:
		return fn.Fn(e, append([]Value{fn.Receiver}, args...))
	case *BoundUserTypeFunction:
		return e.callUserFunction(fn.Method, args, fn.Receiver)
	case *UserTypeValue:
		return e.instantiate(fn, args)
	default:
		return NewError(TypeError, "value of tag "+callee.Tag()+" is not callable")
	}
}

// callUserFunction binds parameters (checking declared types against
// computed argument types), binds `self` when receiver is non-nil, runs
// the body, unwraps a ReturnValue, and runs destructors for locals
// defined directly in the call frame (spec.md §4.4, §4.7).
func (e *Evaluator) callUserFunction(fn *FunctionValue, args []Value, receiver Value) Value {
	if len(args) != len(fn.Params) {
		return NewError(TypeError, fmt.Sprintf("function expects %d arguments, got %d", len(fn.Params), len(args)))
	}
	callEnv := NewEnclosedEnvironment(fn.Env)
	if receiver != nil {
		callEnv.store["self"] = &binding{value: receiver}
	}
	for i, p := range fn.Params {
		if declErr := callEnv.Define(p.Name, args[i], p.DeclaredType, false); declErr != nil {
			return declErr
		}
	}
	result := e.evalBlockStatement(fn.Body, callEnv)
	e.runScopeDestructors(callEnv)

	switch r := result.(type) {
	case *ReturnValue:
		return r.Value
	case *BreakValue, *ContinueValue:
		return NewError(UndefinedError, "break/continue outside of a loop")
	}
	return result
}

// instantiate constructs a new UserObjectValue: property defaults are
// evaluated fresh in a scope where `self` is not yet visible, then the
// type's `construct` method (if any) runs with args bound (spec.md §4.4
// "user-defined aggregate types with constructors/destructors").
func (e *Evaluator) instantiate(ut *UserTypeValue, args []Value) Value {
	props := make(map[string]Value, len(ut.Properties))
	for name, slot := range ut.Properties {
		if slot.Default != nil {
			v := e.Eval(slot.Default, ut.ownerEnv())
			if isError(v) {
				return v
			}
			props[name] = v
		} else {
			props[name] = &NullValue{}
		}
	}
	obj := &UserObjectValue{Type: ut, Properties: props}
	if destructor, ok := ut.Methods["destruct"]; ok {
		obj.Destructor = destructor
	}
	if construct, ok := ut.Methods["construct"]; ok {
		result := e.callUserFunction(construct, args, obj)
		if isError(result) {
			return result
		}
	} else if len(args) != 0 {
		return NewError(TypeError, fmt.Sprintf("%s has no construct method but %d arguments given", ut.Name, len(args)))
	}
	return obj
}

// ownerEnv returns the environment a UserType's own members (default
// expressions, methods) close over; captured at the type literal's
// evaluation site via its first method. A type with no methods gets a
// fresh empty environment, in which default expressions resolve no
// names.
func (ut *UserTypeValue) ownerEnv() *Environment {
	for _, m := range ut.Methods {
		return m.Env
	}
	return NewEnvironment()
}

func (e *Evaluator) evalIndexExpression(n *ast.IndexExpression, env *Environment) Value {
	left := e.Eval(n.Left, env)
	if isUnwind(left) || isError(left) {
		return left
	}
	idx := e.Eval(n.Index, env)
	if isUnwind(idx) || isError(idx) {
		return idx
	}
	return e.indexGet(left, idx)
}

func (e *Evaluator) indexGet(container, idx Value) Value {
	switch c := container.(type) {
	case *ArrayValue:
		i, ok := idx.(*IntegerValue)
		if !ok {
			return NewError(TypeError, "array index must be an int")
		}
		pos := normalizeIndex(i.Value, len(c.Elements))
		if pos < 0 || pos >= len(c.Elements) {
			return NewError(IndexError, "array index out of range")
		}
		return c.Elements[pos]
	case *ArrayDoubleValue:
		i, ok := idx.(*IntegerValue)
		if !ok {
			return NewError(TypeError, "array index must be an int")
		}
		pos := normalizeIndex(i.Value, len(c.Elements))
		if pos < 0 || pos >= len(c.Elements) {
			return NewError(IndexError, "array index out of range")
		}
		return &DoubleValue{Value: c.Elements[pos]}
	case *ArrayComplexValue:
		i, ok := idx.(*IntegerValue)
		if !ok {
			return NewError(TypeError, "array index must be an int")
		}
		pos := normalizeIndex(i.Value, len(c.Elements))
		if pos < 0 || pos >= len(c.Elements) {
			return NewError(IndexError, "array index out of range")
		}
		v := c.Elements[pos]
		return &ComplexValue{Real: real(v), Imag: imag(v)}
	case *StringValue:
		i, ok := idx.(*IntegerValue)
		if !ok {
			return NewError(TypeError, "string index must be an int")
		}
		runes := []rune(c.Value)
		pos := normalizeIndex(i.Value, len(runes))
		if pos < 0 || pos >= len(runes) {
			return NewError(IndexError, "string index out of range")
		}
		return &CharValue{Value: runes[pos]}
	case *DictValue:
		v, ok := c.Get(idx)
		if !ok {
			return NewError(KeyError, "key not found: "+idx.Inspect())
		}
		return v
	default:
		return NewError(TypeError, "value of tag "+container.Tag()+" is not indexable")
	}
}

func (e *Evaluator) indexSet(container, idx, val Value) *ErrorValue {
	if container.base().IsFrozen() {
		return NewError(ConstError, "cannot mutate frozen "+container.Tag())
	}
	switch c := container.(type) {
	case *ArrayValue:
		i, ok := idx.(*IntegerValue)
		if !ok {
			return NewError(TypeError, "array index must be an int")
		}
		pos := normalizeIndex(i.Value, len(c.Elements))
		if pos < 0 || pos >= len(c.Elements) {
			return NewError(IndexError, "array index out of range")
		}
		c.Elements[pos] = val
		return nil
	case *DictValue:
		if err := c.Set(idx, val); err != nil {
			return NewError(KeyError, err.Error())
		}
		return nil
	default:
		return NewError(TypeError, "value of tag "+container.Tag()+" does not support index assignment")
	}
}

// normalizeIndex folds a negative index (from the end) onto [0, n) by full
// modulo wrap, matching the original normalizedArrayIndex
// (original_source/interp/Evaluator.cpp:62-73): a[-4] on a length-3 array
// wraps to a[2] rather than going out of range at -1.
func normalizeIndex(i int64, n int) int {
	if i < 0 {
		if n > 0 {
			abs := i
			if abs < 0 {
				abs = -abs
			}
			length := int64(n)
			return int(((length - (abs % length)) % length))
		}
		return int(i)
	}
	return int(i)
}

func (e *Evaluator) evalMemberExpression(n *ast.MemberExpression, env *Environment) Value {
	obj := e.Eval(n.Object, env)
	if isUnwind(obj) || isError(obj) {
		return obj
	}
	switch o := obj.(type) {
	case *UserObjectValue:
		if m, ok := o.Type.Methods[n.Property]; ok {
			return &BoundUserTypeFunction{Receiver: o, Method: m}
		}
		if v, ok := o.Properties[n.Property]; ok {
			return v
		}
		return NewError(IdentifierNotFound, "no such member: "+n.Property)
	case *ModuleValue:
		if v, ok := o.Env.Get(n.Property); ok {
			return v
		}
		return NewError(IdentifierNotFound, "module "+o.Name+" has no member "+n.Property)
	default:
		if bf, ok := lookupBuiltinMember(o, n.Property); ok {
			return bf
		}
		return NewError(IdentifierNotFound, "value of tag "+obj.Tag()+" has no member "+n.Property)
	}
}

func (e *Evaluator) evalModuleMemberExpression(n *ast.ModuleMemberExpression, env *Environment) Value {
	mod := e.Eval(n.Module, env)
	if isUnwind(mod) || isError(mod) {
		return mod
	}
	mv, ok := mod.(*ModuleValue)
	if !ok {
		return NewError(TypeError, "'::' requires a module on the left")
	}
	if v, ok := mv.Env.Get(n.Member); ok {
		return v
	}
	return NewError(IdentifierNotFound, "module "+mv.Name+" has no member "+n.Member)
}
