package builtins

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// loadThreadingModule builds the `threading` built-in module (spec.md
// §4.8, §5): run_all starts every given thread (each on its own
// goroutine), then joins them all through a golang.org/x/sync/errgroup
// Group, returning their results as an array or the first thread-body
// Error's message as an UndefinedError. A panic inside a thread body is
// not recovered.
func loadThreadingModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()

	_ = env.Define("run_all", builtin("run_all", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("run_all", 1, len(args))
		}
		arr, ok := args[0].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "run_all() requires an array of threads")
		}
		threads := make([]*interp.ThreadValue, len(arr.Elements))
		for i, el := range arr.Elements {
			t, ok := el.(*interp.ThreadValue)
			if !ok {
				return interp.NewError(interp.TypeError, "run_all() requires an array of threads")
			}
			threads[i] = t
			t.Start(e)
		}

		var g errgroup.Group
		results := make([]interp.Value, len(threads))
		for i, t := range threads {
			i, t := i, t
			g.Go(func() error {
				results[i] = t.Join()
				if errVal, ok := results[i].(*interp.ErrorValue); ok {
					return fmt.Errorf("%s", errVal.Message)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return interp.NewError(interp.UndefinedError, err.Error())
		}
		return &interp.ArrayValue{Elements: results}
	}), nil, true)

	return env
}
