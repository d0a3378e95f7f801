package semantic

import (
	"strings"
	"testing"

	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/parser"
)

func parseProgram(t *testing.T, input string) *parser.Parser {
	t.Helper()
	p := parser.New(lexer.New(input))
	return p
}

func TestAnalyzeLetTypeMismatch(t *testing.T) {
	p := parseProgram(t, `let x: int = "not an int";`)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	a := NewAnalyzer()
	err := a.Analyze(program)
	if err == nil {
		t.Fatal("expected a type-mismatch diagnostic, got none")
	}
	if !strings.Contains(a.Errors()[0], "cannot assign") {
		t.Errorf("unexpected diagnostic: %s", a.Errors()[0])
	}
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	p := parseProgram(t, `break;`)
	program := p.ParseProgram()
	a := NewAnalyzer()
	err := a.Analyze(program)
	if err == nil {
		t.Fatal("expected a diagnostic for break outside a loop")
	}
	if !strings.Contains(a.Errors()[0], "break outside") {
		t.Errorf("unexpected diagnostic: %s", a.Errors()[0])
	}
}

func TestAnalyzeBreakInsideLoopIsFine(t *testing.T) {
	p := parseProgram(t, `
		for (const i in range(0, 10)) {
			if (i == 3) { break; }
		}
	`)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	a := NewAnalyzer()
	if err := a.Analyze(program); err != nil {
		t.Errorf("unexpected diagnostics: %v", a.Errors())
	}
}

func TestAnalyzeUnreachableAfterReturn(t *testing.T) {
	p := parseProgram(t, `
		let f = fn() {
			return 1;
			let x = 2;
		};
	`)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	a := NewAnalyzer()
	err := a.Analyze(program)
	if err == nil {
		t.Fatal("expected an unreachable-statement diagnostic")
	}
	if !strings.Contains(a.Errors()[0], "unreachable") {
		t.Errorf("unexpected diagnostic: %s", a.Errors()[0])
	}
}

func TestAnalyzeReturnTypeMismatch(t *testing.T) {
	p := parseProgram(t, `
		let f = fn() -> int { return "oops"; };
	`)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	a := NewAnalyzer()
	err := a.Analyze(program)
	if err == nil {
		t.Fatal("expected a return-type-mismatch diagnostic")
	}
}
