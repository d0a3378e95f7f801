package builtins

import (
	"os"

	"github.com/dustin/go-humanize"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// loadOSModule builds the `os` built-in module (spec.md §4.8): argv,
// env lookup, and filesystem introspection. File sizes are rendered
// through github.com/dustin/go-humanize's IBytes, the same library the
// teacher pack's CLI-tooling example uses for human-readable byte
// counts, instead of hand-rolled KB/MB arithmetic.
func loadOSModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()

	_ = env.Define("getenv", builtin("getenv", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("getenv", 1, len(args))
		}
		name, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "getenv() requires a string")
		}
		return &interp.StringValue{Value: os.Getenv(name.Value)}
	}), nil, true)

	_ = env.Define("file_exists", builtin("file_exists", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("file_exists", 1, len(args))
		}
		name, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "file_exists() requires a string")
		}
		_, err := os.Stat(name.Value)
		return &interp.BooleanValue{Value: err == nil}
	}), nil, true)

	_ = env.Define("file_size_human", builtin("file_size_human", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("file_size_human", 1, len(args))
		}
		name, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "file_size_human() requires a string")
		}
		info, err := os.Stat(name.Value)
		if err != nil {
			return interp.NewError(interp.OSError, err.Error())
		}
		return &interp.StringValue{Value: humanize.IBytes(uint64(info.Size()))}
	}), nil, true)

	_ = env.Define("read_file", builtin("read_file", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("read_file", 1, len(args))
		}
		name, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "read_file() requires a string")
		}
		data, err := os.ReadFile(name.Value)
		if err != nil {
			return interp.NewError(interp.OSError, err.Error())
		}
		return &interp.StringValue{Value: string(data)}
	}), nil, true)

	args := make([]interp.Value, 0, len(os.Args))
	for _, a := range os.Args {
		args = append(args, &interp.StringValue{Value: a})
	}
	_ = env.Define("argv", &interp.ArrayValue{Elements: args}, nil, true)

	return env
}
