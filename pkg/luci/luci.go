// Package luci is the embeddable public API over the lexer, parser,
// interpreter and built-ins: Parse a script into an AST, Compile it into
// a reusable Program, or Run source directly. Grounded on the teacher's
// pkg/dwscript package contract (New/WithOption constructors, an Engine
// with Parse/Compile/Run, a Program wrapping an AST with derived
// Symbols) — the teacher package itself ships test-only in the
// retrieved pack, so the contract below is rebuilt from its test
// expectations rather than copied from source.
package luci

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nightwing1978/luci-go/internal/ast"
	luerrors "github.com/nightwing1978/luci-go/internal/errors"
	"github.com/nightwing1978/luci-go/internal/interp"
	"github.com/nightwing1978/luci-go/internal/builtins"
	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/parser"
	"github.com/nightwing1978/luci-go/internal/semantic"
)

// ErrorSeverity classifies a diagnostic's importance.
type ErrorSeverity int

const (
	SeverityError ErrorSeverity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Error is a single diagnostic with enough position information to
// render a caret under the offending source.
type Error struct {
	Message  string
	File     string
	Line     int
	Column   int
	Length   int
	Severity ErrorSeverity
	Code     string
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at %d:%d: %s", e.Severity, e.Line, e.Column, e.Message)
	if e.Code != "" {
		fmt.Fprintf(&sb, " [%s]", e.Code)
	}
	return sb.String()
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOutput redirects everything print()'d by evaluated scripts to w
// instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithTypeCheck enables the internal/semantic analysis pass on every
// Compile/RunString/RunFile call; diagnostics are returned as the error,
// and RunString/RunFile do not evaluate a program that produced any.
func WithTypeCheck(on bool) Option {
	return func(e *Engine) { e.typeCheck = on }
}

// WithSearchPaths sets the directories internal/interp's module loader
// searches for `import a::b` targets that are not built-in modules.
func WithSearchPaths(paths ...string) Option {
	return func(e *Engine) { e.searchPaths = paths }
}

// Engine is a configured, reusable front end: one Engine can Parse,
// Compile and Run many independent scripts.
type Engine struct {
	output      io.Writer
	typeCheck   bool
	searchPaths []string
}

// New constructs an Engine with the given options applied over sane
// defaults (stdout output, no type-checking, no extra search paths).
func New(opts ...Option) (*Engine, error) {
	e := &Engine{output: os.Stdout}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SetOutput redirects print() output after construction.
func (e *Engine) SetOutput(w io.Writer) { e.output = w }

// Parse lexes and parses source, returning the raw AST. Parse errors are
// collected (best-effort parsing per spec.md §4.2) and surfaced as a
// single combined error; the AST returned alongside it may still be
// partially populated.
func (e *Engine) Parse(source string) (*ast.Program, error) {
	return e.parseNamed(source, "")
}

func (e *Engine) parseNamed(source, file string) (*ast.Program, error) {
	var opts []lexer.Option
	if file != "" {
		opts = append(opts, lexer.WithFileName(file))
	}
	l := lexer.New(source, opts...)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return program, parseErrorsToError(errs, source, file)
	}
	return program, nil
}

// Program is a parsed (and optionally type-checked) script ready to run
// repeatedly without re-parsing.
type Program struct {
	ast     *ast.Program
	symbols []string
}

// AST returns the program's parsed syntax tree.
func (p *Program) AST() *ast.Program { return p.ast }

// Symbols returns the names bound by top-level `let` statements, in
// source order.
func (p *Program) Symbols() []string { return p.symbols }

// Compile parses source and, if type-checking is enabled, runs
// internal/semantic over the result. The Program is returned even when
// diagnostics are found, so callers can inspect Symbols()/AST() for
// tooling purposes; diagnostics are reported via the returned error.
func (e *Engine) Compile(source string) (*Program, error) {
	return e.compileNamed(source, "")
}

func (e *Engine) compileNamed(source, file string) (*Program, error) {
	tree, err := e.parseNamed(source, file)
	program := &Program{ast: tree, symbols: topLevelSymbols(tree)}
	if err != nil {
		return program, err
	}
	if e.typeCheck {
		a := semantic.NewAnalyzer()
		if serr := a.Analyze(tree); serr != nil {
			return program, serr
		}
	}
	return program, nil
}

// Result carries the final value and captured output of a Run call.
type Result struct {
	Value  interp.Value
	Output string
}

// Run evaluates an already-compiled Program and returns its value.
// print() output goes to the Engine's writer (os.Stdout unless changed
// by WithOutput/SetOutput), and Output is then empty; Run captures the
// output into Output only when that writer has been set to nil.
func (e *Engine) Run(program *Program) (*Result, error) {
	ev := interp.NewEvaluator()
	var captured strings.Builder
	sink := e.output
	if sink == nil {
		sink = &captured
	}
	ev.Stdout = func(s string) { fmt.Fprint(sink, s) }
	builtins.RegisterAll(ev)
	if len(e.searchPaths) > 0 {
		ev.Modules.SearchPaths = e.searchPaths
	}

	val := ev.Eval(program.ast, ev.Global)
	if errVal, ok := val.(*interp.ErrorValue); ok {
		return &Result{Value: val, Output: captured.String()}, fmt.Errorf("%s: %s", errVal.Kind, errVal.Message)
	}
	return &Result{Value: val, Output: captured.String()}, nil
}

// RunString parses and evaluates source directly, skipping the
// intermediate Program when the caller has no use for the AST.
func (e *Engine) RunString(source string) (*Result, error) {
	program, err := e.Compile(source)
	if err != nil {
		return nil, err
	}
	return e.Run(program)
}

// RunFile reads path and evaluates it, tagging any diagnostic with the
// file name it came from.
func (e *Engine) RunFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: err.Error(), Severity: SeverityError}
	}
	program, err := e.compileNamed(string(data), path)
	if err != nil {
		return nil, err
	}
	return e.Run(program)
}

func topLevelSymbols(tree *ast.Program) []string {
	if tree == nil {
		return nil
	}
	var names []string
	for _, stmt := range tree.Statements {
		if let, ok := stmt.(*ast.LetStatement); ok {
			names = append(names, let.Name)
		}
	}
	return names
}

func parseErrorsToError(errs []parser.ParseError, source, file string) error {
	compilerErrs := make([]*luerrors.CompilerError, len(errs))
	for i, pe := range errs {
		compilerErrs[i] = luerrors.NewCompilerError(pe.Pos, pe.Message, source, file)
	}
	return fmt.Errorf("%s", luerrors.FormatErrors(compilerErrs, false))
}
