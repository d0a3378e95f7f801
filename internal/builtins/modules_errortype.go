package builtins

import "github.com/nightwing1978/luci-go/internal/interp"

// loadErrorTypeModule builds the `error_type` built-in module (spec.md
// §6): one integer constant per ErrorKind in the taxonomy, plus a
// `new(kind, message)` constructor for raising structured errors from
// user code.
func loadErrorTypeModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()

	kinds := []struct {
		name string
		kind interp.ErrorKind
	}{
		{"UNDEFINED", interp.UndefinedError},
		{"TYPE_ERROR", interp.TypeError},
		{"CONST_ERROR", interp.ConstError},
		{"IDENTIFIER_NOT_FOUND", interp.IdentifierNotFound},
		{"IDENTIFIER_ALREADY_EXISTS", interp.IdentifierAlreadyExists},
		{"VALUE_ERROR", interp.ValueError},
		{"KEY_ERROR", interp.KeyError},
		{"INDEX_ERROR", interp.IndexError},
		{"IMPORT_ERROR", interp.ImportError},
		{"SYNTAX_ERROR", interp.SyntaxError},
		{"OS_ERROR", interp.OSError},
	}
	for _, k := range kinds {
		_ = env.Define(k.name, &interp.IntegerValue{Value: int64(k.kind)}, nil, true)
	}

	_ = env.Define("new", builtin("new", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("new", 2, len(args))
		}
		kindInt, ok := args[0].(*interp.IntegerValue)
		msg, ok2 := args[1].(*interp.StringValue)
		if !ok || !ok2 {
			return interp.NewError(interp.TypeError, "error_type::new() requires (int, str)")
		}
		return interp.NewError(interp.ErrorKind(kindInt.Value), msg.Value)
	}), nil, true)

	return env
}
