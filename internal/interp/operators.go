package interp

import (
	"fmt"
	"strings"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/types"
)

func (e *Evaluator) evalPrefixExpression(n *ast.PrefixExpression, env *Environment) Value {
	right := e.Eval(n.Right, env)
	if isUnwind(right) || isError(right) {
		return right
	}
	switch n.Operator {
	case "!":
		return &BooleanValue{Value: !IsTruthy(right)}
	case "-":
		switch v := right.(type) {
		case *IntegerValue:
			return &IntegerValue{Value: -v.Value}
		case *DoubleValue:
			return &DoubleValue{Value: -v.Value}
		case *ComplexValue:
			return &ComplexValue{Real: -v.Real, Imag: -v.Imag}
		}
		return NewError(TypeError, "unary - not defined for "+right.Tag())
	}
	return NewError(TypeError, "unknown prefix operator "+n.Operator)
}

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true}

// evalInfixExpression dispatches assignment/compound-assign when
// Operator is one of {"=","+=","-=","*=","/="} and otherwise evaluates
// the normal arithmetic/comparison/logical operators (spec.md §4.4).
func (e *Evaluator) evalInfixExpression(n *ast.InfixExpression, env *Environment) Value {
	if assignOps[n.Operator] {
		return e.evalAssignment(n, env)
	}

	left := e.Eval(n.Left, env)
	if isUnwind(left) || isError(left) {
		return left
	}

	if n.Operator == "&&" {
		if !IsTruthy(left) {
			return &BooleanValue{Value: false}
		}
		right := e.Eval(n.Right, env)
		if isUnwind(right) || isError(right) {
			return right
		}
		return &BooleanValue{Value: IsTruthy(right)}
	}
	if n.Operator == "||" {
		if IsTruthy(left) {
			return &BooleanValue{Value: true}
		}
		right := e.Eval(n.Right, env)
		if isUnwind(right) || isError(right) {
			return right
		}
		return &BooleanValue{Value: IsTruthy(right)}
	}

	right := e.Eval(n.Right, env)
	if isUnwind(right) || isError(right) {
		return right
	}

	switch n.Operator {
	case "==":
		return &BooleanValue{Value: Equal(left, right)}
	case "!=":
		return &BooleanValue{Value: !Equal(left, right)}
	}

	return evalBinaryOp(n.Operator, left, right)
}

// LessThan evaluates the `<` infix operator between a and b, the default
// comparator sort/sorted/is_sorted fall back to when no Function
// comparator is given (spec.md §4.4 "Sort contract").
func LessThan(a, b Value) Value {
	return evalBinaryOp("<", a, b)
}

func evalBinaryOp(op string, left, right Value) Value {
	switch l := left.(type) {
	case *IntegerValue:
		switch r := right.(type) {
		case *IntegerValue:
			return evalIntOp(op, l.Value, r.Value)
		case *DoubleValue:
			return evalDoubleOp(op, float64(l.Value), r.Value)
		}
	case *DoubleValue:
		switch r := right.(type) {
		case *DoubleValue:
			return evalDoubleOp(op, l.Value, r.Value)
		case *IntegerValue:
			return evalDoubleOp(op, l.Value, float64(r.Value))
		}
	case *StringValue:
		if r, ok := right.(*StringValue); ok {
			return evalStringOp(op, l.Value, r.Value)
		}
	case *ComplexValue:
		if r, ok := right.(*ComplexValue); ok {
			return evalComplexOp(op, l, r)
		}
	case *ArrayValue:
		if op == "+" {
			if r, ok := right.(*ArrayValue); ok {
				out := make([]Value, 0, len(l.Elements)+len(r.Elements))
				out = append(out, l.Elements...)
				out = append(out, r.Elements...)
				return &ArrayValue{Elements: out}
			}
		}
	}
	return NewError(TypeError, fmt.Sprintf("operator %s not defined between %s and %s", op, left.Tag(), right.Tag()))
}

func evalIntOp(op string, l, r int64) Value {
	switch op {
	case "+":
		return &IntegerValue{Value: l + r}
	case "-":
		return &IntegerValue{Value: l - r}
	case "*":
		return &IntegerValue{Value: l * r}
	case "/":
		if r == 0 {
			return NewError(ValueError, "integer division by zero")
		}
		return &IntegerValue{Value: l / r}
	case "%":
		if r == 0 {
			return NewError(ValueError, "modulo by zero")
		}
		return &IntegerValue{Value: l % r}
	case "**":
		return &IntegerValue{Value: intPow(l, r)}
	case "<":
		return &BooleanValue{Value: l < r}
	case ">":
		return &BooleanValue{Value: l > r}
	case "<=":
		return &BooleanValue{Value: l <= r}
	case ">=":
		return &BooleanValue{Value: l >= r}
	}
	return NewError(TypeError, "unknown operator "+op)
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func evalDoubleOp(op string, l, r float64) Value {
	switch op {
	case "+":
		return &DoubleValue{Value: l + r}
	case "-":
		return &DoubleValue{Value: l - r}
	case "*":
		return &DoubleValue{Value: l * r}
	case "/":
		return &DoubleValue{Value: l / r}
	case "<":
		return &BooleanValue{Value: l < r}
	case ">":
		return &BooleanValue{Value: l > r}
	case "<=":
		return &BooleanValue{Value: l <= r}
	case ">=":
		return &BooleanValue{Value: l >= r}
	}
	return NewError(TypeError, "unknown operator "+op)
}

func evalStringOp(op string, l, r string) Value {
	switch op {
	case "+":
		return &StringValue{Value: l + r}
	case "<":
		return &BooleanValue{Value: l < r}
	case ">":
		return &BooleanValue{Value: l > r}
	case "<=":
		return &BooleanValue{Value: l <= r}
	case ">=":
		return &BooleanValue{Value: l >= r}
	}
	return NewError(TypeError, "unknown operator "+op+" for String")
}

func evalComplexOp(op string, l, r *ComplexValue) Value {
	switch op {
	case "+":
		return &ComplexValue{Real: l.Real + r.Real, Imag: l.Imag + r.Imag}
	case "-":
		return &ComplexValue{Real: l.Real - r.Real, Imag: l.Imag - r.Imag}
	case "*":
		return &ComplexValue{Real: l.Real*r.Real - l.Imag*r.Imag, Imag: l.Real*r.Imag + l.Imag*r.Real}
	}
	return NewError(TypeError, "unknown operator "+op+" for Complex")
}

// evalAssignment handles `lhs = rhs` and compound forms. lhs must be an
// Identifier, IndexExpression or MemberExpression (spec.md §4.4
// "Assignment" lvalue forms).
func (e *Evaluator) evalAssignment(n *ast.InfixExpression, env *Environment) Value {
	rhs := e.Eval(n.Right, env)
	if isUnwind(rhs) || isError(rhs) {
		return rhs
	}

	compound := strings.TrimSuffix(n.Operator, "=")

	switch lhs := n.Left.(type) {
	case *ast.Identifier:
		val := rhs
		if compound != "" {
			cur, ok := env.Get(lhs.Value)
			if !ok {
				return NewError(IdentifierNotFound, "identifier not found: "+lhs.Value)
			}
			val = evalBinaryOp(compound, cur, rhs)
			if isError(val) {
				return val
			}
		}
		if err := env.Set(lhs.Value, val, ValueType(val)); err != nil {
			return err
		}
		return val

	case *ast.IndexExpression:
		container := e.Eval(lhs.Left, env)
		if isUnwind(container) || isError(container) {
			return container
		}
		idx := e.Eval(lhs.Index, env)
		if isUnwind(idx) || isError(idx) {
			return idx
		}
		val := rhs
		if compound != "" {
			cur := e.indexGet(container, idx)
			if isError(cur) {
				return cur
			}
			val = evalBinaryOp(compound, cur, rhs)
			if isError(val) {
				return val
			}
		}
		if err := e.indexSet(container, idx, val); err != nil {
			return err
		}
		return val

	case *ast.MemberExpression:
		obj := e.Eval(lhs.Object, env)
		if isUnwind(obj) || isError(obj) {
			return obj
		}
		userObj, ok := obj.(*UserObjectValue)
		if !ok {
			return NewError(TypeError, "member assignment target is not a user object")
		}
		if userObj.IsFrozen() {
			return NewError(ConstError, "cannot assign into frozen object")
		}
		slot, hasSlot := userObj.Type.Properties[lhs.Property]
		if hasSlot && slot.Const {
			return NewError(ConstError, "cannot assign to const property: "+lhs.Property)
		}
		val := rhs
		if compound != "" {
			cur, ok := userObj.Properties[lhs.Property]
			if !ok {
				return NewError(IdentifierNotFound, "no such property: "+lhs.Property)
			}
			val = evalBinaryOp(compound, cur, rhs)
			if isError(val) {
				return val
			}
		}
		if hasSlot && slot.DeclaredType != nil {
			if !types.IsCompatible(ValueType(val), slot.DeclaredType) {
				return NewError(TypeError, "incompatible type "+ValueType(val).TypeString()+" for property "+lhs.Property)
			}
		}
		userObj.Properties[lhs.Property] = val
		return val
	}
	return NewError(TypeError, "invalid assignment target")
}
