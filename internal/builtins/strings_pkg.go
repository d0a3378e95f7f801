package builtins

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// registerStringMembers installs the String bound-method table (spec.md
// §4.6 "Strings"). Case-folding goes through golang.org/x/text/cases
// rather than strings.ToUpper/ToLower, since cases.Upper/Lower apply
// multi-rune case mappings (e.g. German ß upper-cases to SS) that the
// rune-by-rune stdlib transform does not. The casers use language.Und,
// so no language-specific rules (such as Turkish dotless i) apply.
func registerStringMembers() {
	upperCaser := cases.Upper(language.Und)
	lowerCaser := cases.Lower(language.Und)
	titleCaser := cases.Title(language.Und)

	interp.RegisterMember("String", "upper", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		return &interp.StringValue{Value: upperCaser.String(s.Value)}
	})
	interp.RegisterMember("String", "lower", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		return &interp.StringValue{Value: lowerCaser.String(s.Value)}
	})
	interp.RegisterMember("String", "title", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		return &interp.StringValue{Value: titleCaser.String(s.Value)}
	})
	interp.RegisterMember("String", "trim", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		return &interp.StringValue{Value: strings.TrimSpace(s.Value)}
	})
	interp.RegisterMember("String", "split", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		sep := args[1].(*interp.StringValue)
		parts := strings.Split(s.Value, sep.Value)
		elems := make([]interp.Value, len(parts))
		for i, p := range parts {
			elems[i] = &interp.StringValue{Value: p}
		}
		return &interp.ArrayValue{Elements: elems}
	})
	interp.RegisterMember("String", "join", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		arr, ok := args[1].(*interp.ArrayValue)
		if !ok {
			return interp.NewError(interp.TypeError, "join() requires an array of strings")
		}
		parts := make([]string, len(arr.Elements))
		for i, el := range arr.Elements {
			sv, ok := el.(*interp.StringValue)
			if !ok {
				return interp.NewError(interp.TypeError, "join() requires an array of strings")
			}
			parts[i] = sv.Value
		}
		return &interp.StringValue{Value: strings.Join(parts, s.Value)}
	})
	interp.RegisterMember("String", "replace", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		old := args[1].(*interp.StringValue)
		n := args[2].(*interp.StringValue)
		return &interp.StringValue{Value: strings.ReplaceAll(s.Value, old.Value, n.Value)}
	})
	interp.RegisterMember("String", "contains", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		sub := args[1].(*interp.StringValue)
		return &interp.BooleanValue{Value: strings.Contains(s.Value, sub.Value)}
	})
	interp.RegisterMember("String", "starts_with", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		prefix := args[1].(*interp.StringValue)
		return &interp.BooleanValue{Value: strings.HasPrefix(s.Value, prefix.Value)}
	})
	interp.RegisterMember("String", "ends_with", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		s := args[0].(*interp.StringValue)
		suffix := args[1].(*interp.StringValue)
		return &interp.BooleanValue{Value: strings.HasSuffix(s.Value, suffix.Value)}
	})
}

// registerStringCastGlobals installs the to_bool/to_int/to_double cast
// builtins (spec.md §4.6 "string casts").
func registerStringCastGlobals(e *interp.Evaluator) {
	def := func(name string, fn interp.BuiltinFunc) {
		_ = e.Global.Define(name, builtin(name, fn), nil, true)
	}

	def("to_bool", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("to_bool", 1, len(args))
		}
		switch v := args[0].(type) {
		case *interp.BooleanValue:
			return v
		case *interp.IntegerValue:
			return &interp.BooleanValue{Value: v.Value != 0}
		case *interp.DoubleValue:
			return &interp.BooleanValue{Value: v.Value != 0}
		case *interp.StringValue:
			switch strings.ToLower(strings.TrimSpace(v.Value)) {
			case "true", "1":
				return &interp.BooleanValue{Value: true}
			case "false", "0", "":
				return &interp.BooleanValue{Value: false}
			}
			return interp.NewError(interp.ValueError, "to_bool(): cannot parse "+v.Value)
		}
		return interp.NewError(interp.TypeError, "to_bool() not defined for "+args[0].Tag())
	})
	def("to_int", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("to_int", 1, len(args))
		}
		switch v := args[0].(type) {
		case *interp.IntegerValue:
			return v
		case *interp.DoubleValue:
			return &interp.IntegerValue{Value: int64(v.Value)}
		case *interp.BooleanValue:
			if v.Value {
				return &interp.IntegerValue{Value: 1}
			}
			return &interp.IntegerValue{Value: 0}
		case *interp.CharValue:
			return &interp.IntegerValue{Value: int64(v.Value)}
		case *interp.StringValue:
			n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
			if err != nil {
				return interp.NewError(interp.ValueError, "to_int(): cannot parse "+v.Value)
			}
			return &interp.IntegerValue{Value: n}
		}
		return interp.NewError(interp.TypeError, "to_int() not defined for "+args[0].Tag())
	})
	def("to_double", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("to_double", 1, len(args))
		}
		switch v := args[0].(type) {
		case *interp.DoubleValue:
			return v
		case *interp.IntegerValue:
			return &interp.DoubleValue{Value: float64(v.Value)}
		case *interp.StringValue:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
			if err != nil {
				return interp.NewError(interp.ValueError, "to_double(): cannot parse "+v.Value)
			}
			return &interp.DoubleValue{Value: f}
		}
		return interp.NewError(interp.TypeError, "to_double() not defined for "+args[0].Tag())
	})
}
