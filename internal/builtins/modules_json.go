package builtins

import (
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// loadJSONModule builds the `json` built-in module (spec.md §4.8):
// parse/stringify plus a gjson-path get and an sjson-path set, so luci
// scripts can pluck/patch JSON without round-tripping through a full
// Value tree every time.
func loadJSONModule(e *interp.Evaluator) *interp.Environment {
	env := interp.NewEnvironment()

	_ = env.Define("parse", builtin("parse", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("parse", 1, len(args))
		}
		s, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "json::parse() requires a string")
		}
		if !gjson.Valid(s.Value) {
			return interp.NewError(interp.ValueError, "invalid JSON")
		}
		return gjsonToValue(gjson.Parse(s.Value))
	}), nil, true)

	_ = env.Define("stringify", builtin("stringify", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("stringify", 1, len(args))
		}
		return &interp.StringValue{Value: valueToJSON(args[0])}
	}), nil, true)

	_ = env.Define("get", builtin("get", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("get", 2, len(args))
		}
		doc, ok1 := args[0].(*interp.StringValue)
		path, ok2 := args[1].(*interp.StringValue)
		if !ok1 || !ok2 {
			return interp.NewError(interp.TypeError, "json::get() requires two strings")
		}
		result := gjson.Get(doc.Value, path.Value)
		if !result.Exists() {
			return interp.NewError(interp.KeyError, "json path not found: "+path.Value)
		}
		return gjsonToValue(result)
	}), nil, true)

	_ = env.Define("set", builtin("set", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 3 {
			return arityError("set", 3, len(args))
		}
		doc, ok1 := args[0].(*interp.StringValue)
		path, ok2 := args[1].(*interp.StringValue)
		if !ok1 || !ok2 {
			return interp.NewError(interp.TypeError, "json::set() requires string doc and path")
		}
		updated, err := sjson.Set(doc.Value, path.Value, valueToPlain(args[2]))
		if err != nil {
			return interp.NewError(interp.ValueError, err.Error())
		}
		return &interp.StringValue{Value: updated}
	}), nil, true)

	// dump/load are aliases of stringify/parse.
	for alias, name := range map[string]string{"dump": "stringify", "load": "parse"} {
		if fn, ok := env.Get(name); ok {
			_ = env.Define(alias, fn, nil, true)
		}
	}

	return env
}

func gjsonToValue(r gjson.Result) interp.Value {
	switch r.Type {
	case gjson.Null:
		return &interp.NullValue{}
	case gjson.False:
		return &interp.BooleanValue{Value: false}
	case gjson.True:
		return &interp.BooleanValue{Value: true}
	case gjson.String:
		return &interp.StringValue{Value: r.Str}
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return &interp.IntegerValue{Value: int64(r.Num)}
		}
		return &interp.DoubleValue{Value: r.Num}
	case gjson.JSON:
		if r.IsArray() {
			var elems []interp.Value
			r.ForEach(func(_, val gjson.Result) bool {
				elems = append(elems, gjsonToValue(val))
				return true
			})
			return &interp.ArrayValue{Elements: elems}
		}
		d := interp.NewDict()
		r.ForEach(func(key, val gjson.Result) bool {
			_ = d.Set(&interp.StringValue{Value: key.Str}, gjsonToValue(val))
			return true
		})
		return d
	}
	return &interp.NullValue{}
}

// valueToPlain converts a Value into a plain Go value sjson.Set can
// re-marshal (sjson.Set accepts any JSON-marshalable value).
func valueToPlain(v interp.Value) interface{} {
	switch vv := v.(type) {
	case *interp.NullValue:
		return nil
	case *interp.BooleanValue:
		return vv.Value
	case *interp.IntegerValue:
		return vv.Value
	case *interp.DoubleValue:
		return vv.Value
	case *interp.StringValue:
		return vv.Value
	case *interp.ArrayValue:
		out := make([]interface{}, len(vv.Elements))
		for i, e := range vv.Elements {
			out[i] = valueToPlain(e)
		}
		return out
	case *interp.DictValue:
		out := map[string]interface{}{}
		for i := range vv.Keys {
			out[vv.Keys[i].String()] = valueToPlain(vv.Values[i])
		}
		return out
	default:
		return v.String()
	}
}

func valueToJSON(v interp.Value) string {
	switch vv := v.(type) {
	case *interp.ArrayValue:
		doc := "[]"
		for i, e := range vv.Elements {
			doc, _ = sjson.Set(doc, strconv.Itoa(i), valueToPlain(e))
		}
		return doc
	default:
		doc, _ := sjson.Set("{}", "v", valueToPlain(v))
		return gjson.Get(doc, "v").Raw
	}
}
