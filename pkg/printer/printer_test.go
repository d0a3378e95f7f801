package printer_test

import (
	"testing"

	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/parser"
	"github.com/nightwing1978/luci-go/pkg/printer"
)

func mustParse(t *testing.T, input string) *lexer.Lexer {
	t.Helper()
	return lexer.New(input)
}

// reparse feeds source back through the lexer/parser and fails the test
// on any parse error, returning the number of top-level statements.
func reparse(t *testing.T, source string) int {
	t.Helper()
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("re-parse of printed output failed: %v\n--- printed source ---\n%s", errs, source)
	}
	return len(program.Statements)
}

func TestPrintRoundTripsLetStatements(t *testing.T) {
	src := `let x = 1 + 2; let y: str = "hi";`
	p := parser.New(mustParse(t, src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	printed := printer.New("  ").Print(program)
	if reparse(t, printed) != len(program.Statements) {
		t.Errorf("statement count changed across round-trip")
	}
}

func TestPrintRoundTripsFunctionLiteral(t *testing.T) {
	src := `let add = fn(a: int, b: int) -> int { return a + b; };`
	p := parser.New(mustParse(t, src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	printed := printer.New("  ").Print(program)
	reparse(t, printed)
}

func TestPrintRoundTripsUserTypeLiteral(t *testing.T) {
	src := `let Point = type {
		let x: int = 0;
		let y: int = 0;
		construct(ax, ay) { self.x = ax; self.y = ay; }
		sum() { return self.x + self.y; }
	};`
	p := parser.New(mustParse(t, src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	printed := printer.New("  ").Print(program)
	reparse(t, printed)
}

func TestPrintRoundTripsControlFlow(t *testing.T) {
	src := `
		let total = 0;
		for (const i in range(0, 5)) {
			if (i == 3) { break; } else { total = total + i; }
		}
	`
	p := parser.New(mustParse(t, src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	printed := printer.New("  ").Print(program)
	reparse(t, printed)
}

func TestPrintEmptyBlockRendersBraces(t *testing.T) {
	src := `let f = fn() { };`
	p := parser.New(mustParse(t, src))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	printed := printer.New("  ").Print(program)
	reparse(t, printed)
}
