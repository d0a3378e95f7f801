package interp_test

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/nightwing1978/luci-go/internal/builtins"
	"github.com/nightwing1978/luci-go/internal/interp"
	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/parser"
)

// runCapturingOutput evaluates input with a fresh evaluator, returning
// everything written through Stdout plus the Inspect() of the program's
// final value, grounded on the teacher's fixture_test.go snapshot style.
func runCapturingOutput(t *testing.T, input string) string {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	var out strings.Builder
	ev := interp.NewEvaluator()
	ev.Stdout = func(s string) { out.WriteString(s) }
	builtins.RegisterAll(ev)

	result := ev.Eval(program, ev.Global)
	out.WriteString("=> ")
	out.WriteString(result.Inspect())
	return out.String()
}

func TestSnapshotCoreLanguageFeatures(t *testing.T) {
	fixtures := []struct {
		name  string
		input string
	}{
		{
			name: "fibonacci",
			input: `
				let fib = fn(n: int) -> int {
					if (n < 2) { return n; }
					return fib(n - 1) + fib(n - 2);
				};
				fib(10);
			`,
		},
		{
			name: "string_formatting",
			input: `print("{} of {}", 3, "apples");`,
		},
		{
			name: "dict_iteration_sum",
			input: `
				let prices = {"apple": 1, "pear": 2, "plum": 3};
				let total = 0;
				for (const key in prices) {
					total = total + prices[key];
				}
				total;
			`,
		},
		{
			name: "user_type_with_destructor",
			input: `
				let log = [];
				let Handle = type {
					let id: int = 0;
					construct(n) { self.id = n; }
					destruct() { log.append(self.id); }
				};
				scope {
					let a = Handle(1);
					let b = Handle(2);
				}
				log;
			`,
		},
	}

	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, runCapturingOutput(t, f.input))
		})
	}
}
