package builtins

import (
	"github.com/nightwing1978/luci-go/internal/interp"
	"github.com/nightwing1978/luci-go/internal/types"
)

// loadTypingModule builds the `typing` built-in module (spec.md §4.8):
// is_int/is_str/… tag predicates plus a generic tag_of, mirroring the
// closed tag set internal/types.TagForIdentifier recognizes.
func loadTypingModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()

	tagCheck := func(name, tag string) {
		_ = env.Define(name, builtin(name, func(e *interp.Evaluator, args []interp.Value) interp.Value {
			if len(args) != 1 {
				return arityError(name, 1, len(args))
			}
			return &interp.BooleanValue{Value: args[0].Tag() == tag}
		}), nil, true)
	}
	tagCheck("is_int", "Integer")
	tagCheck("is_double", "Double")
	tagCheck("is_str", "String")
	tagCheck("is_bool", "Boolean")
	tagCheck("is_array", "Array")
	tagCheck("is_dict", "Dictionary")
	tagCheck("is_set", "Set")
	tagCheck("is_null", "Null")
	tagCheck("is_function", "Function")

	_ = env.Define("tag_of", builtin("tag_of", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("tag_of", 1, len(args))
		}
		return &interp.StringValue{Value: args[0].Tag()}
	}), nil, true)

	_ = env.Define("tag_for_type_name", builtin("tag_for_type_name", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("tag_for_type_name", 1, len(args))
		}
		name, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "tag_for_type_name() requires a string")
		}
		tag := types.TagForIdentifier(name.Value)
		if tag == "" {
			return &interp.NullValue{}
		}
		return &interp.StringValue{Value: tag}
	}), nil, true)

	return env
}
