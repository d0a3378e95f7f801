package builtins

import (
	"bufio"
	"os"
	"reflect"
	"strings"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// version is the luci language/runtime version reported by version();
// bumped independently of the cmd/luci CLI's own --version string.
var version = []int64{0, 1, 0}

// registerCoreGlobals installs the always-available global functions
// (spec.md §4.6 "Core" / SPEC_FULL §4.8 "builtins.Core"): print, eprint,
// input_line, len, type, type_str, internal_type_str, address, clone,
// freeze, defrost, frozen, freezer, range, format, exit, thread,
// complex, hash, error, version, arg.
func registerCoreGlobals(e *interp.Evaluator) {
	def := func(name string, fn interp.BuiltinFunc) {
		_ = e.Global.Define(name, builtin(name, fn), nil, true)
	}

	def("print", biPrint)
	def("eprint", biEprint)
	def("input_line", biInputLine)
	def("len", biLen)
	def("type", biType)
	def("type_str", biTypeStr)
	def("internal_type_str", biInternalTypeStr)
	def("address", biAddress)
	def("clone", biClone)
	def("freeze", biFreeze)
	def("defrost", biDefrost)
	def("is_frozen", biIsFrozen)
	def("frozen", biIsFrozen)
	def("freezer", biFreezer)
	def("range", biRange)
	def("format", biFormat)
	def("exit", biExit)
	def("thread", biThread)
	def("complex", biComplex)
	def("hash", biHash)
	def("error", biError)
	def("version", biVersion)
	def("arg", biArg)
}

func biPrint(e *interp.Evaluator, args []interp.Value) interp.Value {
	for i, a := range args {
		if i > 0 {
			e.Stdout(" ")
		}
		e.Stdout(a.String())
	}
	e.Stdout("\n")
	return &interp.NullValue{}
}

func biLen(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("len", 1, len(args))
	}
	switch v := args[0].(type) {
	case *interp.ArrayValue:
		return &interp.IntegerValue{Value: int64(len(v.Elements))}
	case *interp.ArrayDoubleValue:
		return &interp.IntegerValue{Value: int64(len(v.Elements))}
	case *interp.ArrayComplexValue:
		return &interp.IntegerValue{Value: int64(len(v.Elements))}
	case *interp.StringValue:
		return &interp.IntegerValue{Value: int64(len([]rune(v.Value)))}
	case *interp.DictValue:
		return &interp.IntegerValue{Value: int64(len(v.Keys))}
	case *interp.SetValue:
		return &interp.IntegerValue{Value: int64(len(v.Elements))}
	case *interp.RangeValue:
		return &interp.IntegerValue{Value: int64(v.Len())}
	}
	return interp.NewError(interp.TypeError, "len() not defined for "+args[0].Tag())
}

func biType(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("type", 1, len(args))
	}
	return &interp.StringValue{Value: args[0].Tag()}
}

func biClone(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("clone", 1, len(args))
	}
	return interp.Clone(args[0])
}

func biFreeze(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("freeze", 1, len(args))
	}
	freezeValue(args[0])
	return args[0]
}

func biDefrost(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("defrost", 1, len(args))
	}
	defrostValue(args[0])
	return args[0]
}

func biIsFrozen(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("is_frozen", 1, len(args))
	}
	return &interp.BooleanValue{Value: isFrozenValue(args[0])}
}

func biRange(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) < 1 || len(args) > 3 {
		return interp.NewError(interp.TypeError, "range() expects 1 to 3 arguments")
	}
	var lower, upper, stride int64 = 0, 0, 1
	ints := make([]int64, len(args))
	for i, a := range args {
		iv, ok := a.(*interp.IntegerValue)
		if !ok {
			return interp.NewError(interp.TypeError, "range() arguments must be int")
		}
		ints[i] = iv.Value
	}
	switch len(ints) {
	case 1:
		upper = ints[0]
	case 2:
		lower, upper = ints[0], ints[1]
	case 3:
		lower, upper, stride = ints[0], ints[1], ints[2]
	}
	return &interp.RangeValue{Lower: lower, Upper: upper, Stride: stride}
}

func biExit(e *interp.Evaluator, args []interp.Value) interp.Value {
	code := 0
	if len(args) == 1 {
		if iv, ok := args[0].(*interp.IntegerValue); ok {
			code = int(iv.Value)
		}
	}
	return &interp.ExitValue{Code: code}
}

func biComplex(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 2 {
		return arityError("complex", 2, len(args))
	}
	re, ok1 := asFloat(args[0])
	im, ok2 := asFloat(args[1])
	if !ok1 || !ok2 {
		return interp.NewError(interp.TypeError, "complex() arguments must be numeric")
	}
	return &interp.ComplexValue{Real: re, Imag: im}
}

func biHash(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("hash", 1, len(args))
	}
	key, err := interp.HashKey(args[0])
	if err != nil {
		return interp.NewError(interp.ValueError, err.Error())
	}
	return &interp.StringValue{Value: key}
}

func asFloat(v interp.Value) (float64, bool) {
	switch vv := v.(type) {
	case *interp.IntegerValue:
		return float64(vv.Value), true
	case *interp.DoubleValue:
		return vv.Value, true
	}
	return 0, false
}

// biThread spawns a ThreadValue wrapping fn (and an optional single
// argument); .start()/.join() are exposed as bound members on the Thread
// tag (spec.md §5 "Concurrency").
func biThread(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) < 1 || len(args) > 2 {
		return interp.NewError(interp.TypeError, "thread() expects 1 or 2 arguments")
	}
	fn, ok := args[0].(*interp.FunctionValue)
	if !ok {
		return interp.NewError(interp.TypeError, "thread() requires a function argument")
	}
	var arg interp.Value
	if len(args) == 2 {
		arg = args[1]
	}
	return &interp.ThreadValue{Fn: fn, Arg: arg}
}

// stdinReader is shared across input_line() calls so buffered-ahead
// bytes from one call remain available to the next.
var stdinReader = bufio.NewReader(os.Stdin)

func biEprint(e *interp.Evaluator, args []interp.Value) interp.Value {
	for i, a := range args {
		if i > 0 {
			e.Stderr(" ")
		}
		e.Stderr(a.String())
	}
	e.Stderr("\n")
	return &interp.NullValue{}
}

func biInputLine(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 0 {
		return arityError("input_line", 0, len(args))
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return interp.NewError(interp.OSError, err.Error())
	}
	line = strings.TrimRight(line, "\r\n")
	return &interp.StringValue{Value: line}
}

// biTypeStr renders x's luci-level type expression (e.g. "[int]",
// "{str}"), distinct from internal_type_str's raw runtime tag.
func biTypeStr(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("type_str", 1, len(args))
	}
	return &interp.StringValue{Value: interp.ValueType(args[0]).TypeString()}
}

func biInternalTypeStr(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("internal_type_str", 1, len(args))
	}
	return &interp.StringValue{Value: args[0].Tag()}
}

// biAddress surfaces the receiver's backing pointer as an identity
// diagnostic (spec.md §4.6 "address(x) -> int"); every Value
// implementation is a pointer type, so reflect.Value.Pointer() is
// always defined here.
func biAddress(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("address", 1, len(args))
	}
	rv := reflect.ValueOf(args[0])
	if rv.Kind() != reflect.Ptr {
		return &interp.IntegerValue{Value: 0}
	}
	return &interp.IntegerValue{Value: int64(rv.Pointer())}
}

// biFreezer returns a scope-bound freeze guard: args[0]'s freeze
// counter is incremented now and decremented automatically when the
// binding holding the guard falls out of scope (spec.md "freezer(x)").
func biFreezer(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("freezer", 1, len(args))
	}
	return interp.NewFreezer(args[0])
}

func biError(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 1 {
		return arityError("error", 1, len(args))
	}
	msg, ok := args[0].(*interp.StringValue)
	if !ok {
		return interp.NewError(interp.TypeError, "error() requires a string message")
	}
	return interp.NewError(interp.UndefinedError, msg.Value)
}

func biVersion(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 0 {
		return arityError("version", 0, len(args))
	}
	elems := make([]interp.Value, len(version))
	for i, n := range version {
		elems[i] = &interp.IntegerValue{Value: n}
	}
	return &interp.ArrayValue{Elements: elems}
}

func biArg(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) != 0 {
		return arityError("arg", 0, len(args))
	}
	rest := os.Args[1:]
	elems := make([]interp.Value, len(rest))
	for i, a := range rest {
		elems[i] = &interp.StringValue{Value: a}
	}
	return &interp.ArrayValue{Elements: elems}
}

func biFormat(e *interp.Evaluator, args []interp.Value) interp.Value {
	if len(args) < 1 {
		return arityError("format", 1, len(args))
	}
	str, ok := args[0].(*interp.StringValue)
	if !ok {
		return interp.NewError(interp.TypeError, "format() requires a string template")
	}
	out, err := FormatString(str.Value, args[1:])
	if err != nil {
		return interp.NewError(interp.ValueError, err.Error())
	}
	return &interp.StringValue{Value: out}
}

// freezeValue/defrostValue/isFrozenValue reach into the Base embedded
// in every Value via its promoted Freeze/Defrost/IsFrozen methods,
// avoiding an exported Base-mutation method surface on the public
// Value interface itself.
func freezeValue(v interp.Value) {
	if bh, ok := v.(interface{ Freeze() }); ok {
		bh.Freeze()
	}
}

func defrostValue(v interp.Value) {
	if bh, ok := v.(interface{ Defrost() }); ok {
		bh.Defrost()
	}
}

func isFrozenValue(v interp.Value) bool {
	if bh, ok := v.(interface{ IsFrozen() bool }); ok {
		return bh.IsFrozen()
	}
	return false
}
