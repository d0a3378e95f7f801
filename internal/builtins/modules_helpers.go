package builtins

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// registerModuleGlobals installs import(path), run(path), run_once(path)
// and scope_names() (spec.md §4.8 "module helpers"). All four operate on
// the lexical scope of the call site, reached through e.CurrentEnv since
// a BuiltinFunc otherwise only sees already-evaluated argument values.
func registerModuleGlobals(e *interp.Evaluator) {
	def := func(name string, fn interp.BuiltinFunc) {
		_ = e.Global.Define(name, builtin(name, fn), nil, true)
	}

	// import(path) is the callable-expression form of the `import a::b::c`
	// statement: path is a "::"-joined string, and the loaded module is
	// bound into the caller's scope under its last path segment.
	def("import", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("import", 1, len(args))
		}
		pathStr, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "import() requires a string path")
		}
		path := strings.Split(pathStr.Value, "::")
		mod, err := e.Modules.Load(e, path)
		if err != nil {
			return interp.NewError(interp.ImportError, err.Error())
		}
		env := e.CurrentEnv
		if env == nil {
			env = e.Global
		}
		name := path[len(path)-1]
		if declErr := env.Define(name, mod, nil, true); declErr != nil {
			return declErr
		}
		return mod
	})

	def("run", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("run", 1, len(args))
		}
		pathStr, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "run() requires a string path")
		}
		env := e.CurrentEnv
		if env == nil {
			env = e.Global
		}
		return e.RunFile(pathStr.Value, env)
	})

	def("run_once", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 1 {
			return arityError("run_once", 1, len(args))
		}
		pathStr, ok := args[0].(*interp.StringValue)
		if !ok {
			return interp.NewError(interp.TypeError, "run_once() requires a string path")
		}
		canonical, err := filepath.Abs(pathStr.Value)
		if err != nil {
			canonical = pathStr.Value
		}
		if e.RunOnceSeen[canonical] {
			return &interp.NullValue{}
		}
		env := e.CurrentEnv
		if env == nil {
			env = e.Global
		}
		result := e.RunFile(pathStr.Value, env)
		e.RunOnceSeen[canonical] = true
		return result
	})

	def("scope_names", func(e *interp.Evaluator, args []interp.Value) interp.Value {
		if len(args) != 0 {
			return arityError("scope_names", 0, len(args))
		}
		env := e.CurrentEnv
		if env == nil {
			env = e.Global
		}
		names := env.Names()
		sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
		elems := make([]interp.Value, len(names))
		for i, n := range names {
			elems[i] = &interp.StringValue{Value: n}
		}
		return &interp.ArrayValue{Elements: elems}
	})
}
