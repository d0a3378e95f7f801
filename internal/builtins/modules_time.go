package builtins

import (
	"time"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// loadTimeModule builds the `time` built-in module (spec.md §4.8):
// now() as a unix-epoch double and sleep_seconds(n) to pause the
// calling thread.
func loadTimeModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()

	_ = env.Define("now", builtin("now", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		return &interp.DoubleValue{Value: float64(time.Now().UnixNano()) / 1e9}
	}), nil, true)

	_ = env.Define("sleep_seconds", builtin("sleep_seconds", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("sleep_seconds", 1, len(args))
		}
		f, ok := asFloat(args[0])
		if !ok {
			return interp.NewError(interp.TypeError, "sleep_seconds() requires a number")
		}
		time.Sleep(time.Duration(f * float64(time.Second)))
		return &interp.NullValue{}
	}), nil, true)

	return env
}
