package builtins

import (
	"errors"
	"regexp"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// loadRegexModule builds the `regex` built-in module (spec.md §4.8):
// compile/matches/find_all/replace_all over Go's RE2-based regexp package,
// wrapped behind a Regex value carrying just the pattern string.
func loadRegexModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()

	_ = env.Define("compile", builtin("compile", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("compile", 1, len(args))
		}
		s, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "regex::compile() requires a string")
		}
		if _, err := regexp.Compile(s.Value); err != nil {
			return interp.NewError(interp.ValueError, err.Error())
		}
		return &interp.RegexValue{Pattern: s.Value}
	}), nil, true)

	_ = env.Define("matches", builtin("matches", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("matches", 2, len(args))
		}
		re, text, err := reAndText(args)
		if err != nil {
			return interp.NewError(interp.ValueError, err.Error())
		}
		return &interp.BooleanValue{Value: re.MatchString(text)}
	}), nil, true)

	_ = env.Define("find_all", builtin("find_all", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("find_all", 2, len(args))
		}
		re, text, err := reAndText(args)
		if err != nil {
			return interp.NewError(interp.ValueError, err.Error())
		}
		matches := re.FindAllString(text, -1)
		elems := make([]interp.Value, len(matches))
		for i, m := range matches {
			elems[i] = &interp.StringValue{Value: m}
		}
		return &interp.ArrayValue{Elements: elems}
	}), nil, true)

	_ = env.Define("replace_all", builtin("replace_all", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 3 {
			return arityError("replace_all", 3, len(args))
		}
		re, text, err := reAndText(args[:2])
		if err != nil {
			return interp.NewError(interp.ValueError, err.Error())
		}
		repl, ok := args[2].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "replace_all() requires a string replacement")
		}
		return &interp.StringValue{Value: re.ReplaceAllString(text, repl.Value)}
	}), nil, true)

	return env
}

func reAndText(args []interp.Value) (*regexp.Regexp, string, error) {
	rv, ok := args[0].(*interp.RegexValue)
	if !ok {
		return nil, "", errNotRegex
	}
	sv, ok := args[1].(*interp.StringValue)
	if !ok {
		return nil, "", errNotString
	}
	re, err := regexp.Compile(rv.Pattern)
	if err != nil {
		return nil, "", err
	}
	return re, sv.Value, nil
}

var (
	errNotRegex  = errors.New("expected a Regex value")
	errNotString = errors.New("expected a String value")
)
