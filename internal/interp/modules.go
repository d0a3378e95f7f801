package interp

import (
	"fmt"
	"os"
	"strings"

	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/parser"
)

// ModuleLoader builds the Environment for a built-in module the first
// time it is imported (spec.md §4.5, §4.8). internal/builtins registers
// one per built-in module name.
type ModuleLoader func(e *Evaluator) *Environment

// ModuleRegistry tracks built-in module loaders plus the Unknown /
// Defined / Loaded state of every module path seen so far, and resolves
// filesystem `.luci` modules relative to SearchPaths (spec.md §4.5).
type ModuleRegistry struct {
	builtins    map[string]ModuleLoader
	loaded      map[string]*ModuleValue
	SearchPaths []string
}

func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		builtins: map[string]ModuleLoader{},
		loaded:   map[string]*ModuleValue{},
	}
}

// RegisterBuiltin installs a built-in module loader under name (e.g.
// "math", "os", "json").
func (r *ModuleRegistry) RegisterBuiltin(name string, loader ModuleLoader) {
	r.builtins[name] = loader
}

// Load resolves path (a `::`-separated import path) to a ModuleValue,
// memoizing across repeat imports (module state transitions Unknown ->
// Defined -> Loaded exactly once per path, spec.md §4.5).
func (r *ModuleRegistry) Load(e *Evaluator, path []string) (*ModuleValue, error) {
	key := strings.Join(path, "::")
	if mod, ok := r.loaded[key]; ok {
		return mod, nil
	}

	name := path[0]
	if loader, ok := r.builtins[name]; ok {
		env := loader(e)
		mod := &ModuleValue{Name: name, State: ModuleLoaded, Env: env}
		r.loaded[key] = mod
		return mod, nil
	}

	file, err := r.resolveFile(name)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read module %q: %w", name, err)
	}
	lx := lexer.New(string(src), lexer.WithFileName(file))
	p := parser.New(lx)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return nil, fmt.Errorf("module %q has parse errors: %s", name, p.Errors()[0])
	}
	moduleEnv := NewEnclosedEnvironment(e.Global)
	mod := &ModuleValue{Name: name, State: ModuleDefined, Env: moduleEnv, File: file}
	r.loaded[key] = mod
	result := e.evalProgram(program, moduleEnv)
	if errVal, ok := result.(*ErrorValue); ok {
		return nil, fmt.Errorf("module %q failed to load: %s", name, errVal.Message)
	}
	mod.State = ModuleLoaded
	return mod, nil
}

// RunFile parses and executes the source file at path directly into
// env — the caller's own scope, not a fresh module scope — per spec.md's
// `run(path)` contract ("executes a source file in the caller's
// environment").
func (e *Evaluator) RunFile(path string, env *Environment) Value {
	src, err := os.ReadFile(path)
	if err != nil {
		return NewError(OSError, err.Error())
	}
	lx := lexer.New(string(src), lexer.WithFileName(path))
	p := parser.New(lx)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return NewError(SyntaxError, p.Errors()[0].String())
	}
	return e.evalProgram(program, env)
}

func (r *ModuleRegistry) resolveFile(name string) (string, error) {
	fileName := name + ".luci"
	for _, dir := range r.SearchPaths {
		candidate := dir + string(os.PathSeparator) + fileName
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}
	return "", fmt.Errorf("module not found: %s", name)
}
