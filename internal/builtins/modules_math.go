package builtins

import (
	"math"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// loadMathModule builds the `math` built-in module's environment
// (spec.md §4.8): constants pi/e and wrapped math.* functions.
func loadMathModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()
	_ = env.Define("pi", &interp.DoubleValue{Value: math.Pi}, nil, true)
	_ = env.Define("e", &interp.DoubleValue{Value: math.E}, nil, true)

	unary := func(name string, fn func(float64) float64) {
		_ = env.Define(name, builtin(name, func(e *interp.Evaluator, args []interp.Value) interp.Value {
			if len(args) != 1 {
				return arityError(name, 1, len(args))
			}
			f, ok := asFloat(args[0])
			if !ok {
				return interp.NewError(interp.TypeError, name+"() requires a number")
			}
			return &interp.DoubleValue{Value: fn(f)}
		}), nil, true)
	}
	unary("sqrt", math.Sqrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("log", math.Log)
	unary("log10", math.Log10)
	unary("exp", math.Exp)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("abs", math.Abs)

	_ = env.Define("pow", builtin("pow", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("pow", 2, len(args))
		}
		base, ok1 := asFloat(args[0])
		exp, ok2 := asFloat(args[1])
		if !ok1 || !ok2 {
			return interp.NewError(interp.TypeError, "pow() requires numbers")
		}
		return &interp.DoubleValue{Value: math.Pow(base, exp)}
	}), nil, true)

	return env
}
