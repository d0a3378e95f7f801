package builtins

import (
	"github.com/nightwing1978/luci-go/internal/interp"
)

// registerIOGlobals installs open(path, mode) and the IOObject
// bound-method table: read, readline, write, close (spec.md §4.6 "I/O").
func registerIOGlobals(e *interp.Evaluator) {
	_ = e.Global.Define("open", builtin("open", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 2 {
			return arityError("open", 2, len(args))
		}
		path, ok1 := args[0].(*interp.StringValue)
		mode, ok2 := args[1].(*interp.StringValue)
		if !ok1 || !ok2 {
			return interp.NewError(interp.TypeError, "open() requires (path, mode) strings")
		}
		io, err := interp.NewIOObject(path.Value, mode.Value)
		if err != nil {
			return interp.NewError(interp.OSError, err.Error())
		}
		return io
	}), nil, true)

	interp.RegisterMember("IOObject", "read", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		io := args[0].(*interp.IOObjectValue)
		s, err := io.Read()
		if err != nil {
			return interp.NewError(interp.OSError, err.Error())
		}
		return &interp.StringValue{Value: s}
	})
	interp.RegisterMember("IOObject", "readline", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		io := args[0].(*interp.IOObjectValue)
		line, ok, err := io.ReadLine()
		if err != nil {
			return interp.NewError(interp.OSError, err.Error())
		}
		if !ok {
			return &interp.NullValue{}
		}
		return &interp.StringValue{Value: line}
	})
	interp.RegisterMember("IOObject", "write", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		io := args[0].(*interp.IOObjectValue)
		s, ok := args[1].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "write() requires a string")
		}
		if err := io.Write(s.Value); err != nil {
			return interp.NewError(interp.OSError, err.Error())
		}
		return &interp.NullValue{}
	})
	interp.RegisterMember("IOObject", "close", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		io := args[0].(*interp.IOObjectValue)
		io.Close()
		return &interp.NullValue{}
	})
}
