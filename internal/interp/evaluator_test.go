package interp_test

import (
	"testing"

	"github.com/nightwing1978/luci-go/internal/builtins"
	"github.com/nightwing1978/luci-go/internal/interp"
	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/parser"
)

// mustEval registers every built-in (core globals, bound methods, and
// modules) before evaluating input, mirroring pkg/luci.Engine.Run.
func mustEval(t *testing.T, input string) interp.Value {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	ev := interp.NewEvaluator()
	ev.Stdout = func(string) {}
	builtins.RegisterAll(ev)
	return ev.Eval(program, ev.Global)
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"let x = 1 + 2; x;", 3},
		{"let x = 2 * (3 + 4); x;", 14},
		{"let x = 10 / 3; x;", 3},
		{"let x = 2 ** 5; x;", 32},
	}
	for _, tt := range tests {
		got := mustEval(t, tt.input)
		iv, ok := got.(*interp.IntegerValue)
		if !ok {
			t.Fatalf("%q: expected *IntegerValue, got %T (%s)", tt.input, got, got.Inspect())
		}
		if iv.Value != tt.want {
			t.Errorf("%q = %d, want %d", tt.input, iv.Value, tt.want)
		}
	}
}

func TestEvalClosureCapture(t *testing.T) {
	got := mustEval(t, `
		let makeCounter = fn() {
			let count = 0;
			return fn() { count = count + 1; return count; };
		};
		let counter = makeCounter();
		counter();
		counter();
		counter();
	`)
	iv, ok := got.(*interp.IntegerValue)
	if !ok {
		t.Fatalf("expected *IntegerValue, got %T (%s)", got, got.Inspect())
	}
	if iv.Value != 3 {
		t.Errorf("counter() = %d, want 3", iv.Value)
	}
}

func TestEvalIfElse(t *testing.T) {
	got := mustEval(t, `if (1 < 2) { "yes" } else { "no" };`)
	sv, ok := got.(*interp.StringValue)
	if !ok || sv.Value != "yes" {
		t.Fatalf("got %v, want StringValue(yes)", got.Inspect())
	}
}

func TestEvalForLoopOverRangeAccumulates(t *testing.T) {
	got := mustEval(t, `
		let total = 0;
		for (const i in range(0, 5)) {
			total = total + i;
		}
		total;
	`)
	iv, ok := got.(*interp.IntegerValue)
	if !ok || iv.Value != 10 {
		t.Fatalf("got %v, want 10", got.Inspect())
	}
}

func TestEvalUserTypeConstructAndMethod(t *testing.T) {
	got := mustEval(t, `
		let Point = type {
			let x: int = 0;
			let y: int = 0;
			construct(ax, ay) { self.x = ax; self.y = ay; }
			sum() { return self.x + self.y; }
		};
		let p = Point(3, 4);
		p.sum();
	`)
	iv, ok := got.(*interp.IntegerValue)
	if !ok || iv.Value != 7 {
		t.Fatalf("got %v, want 7", got.Inspect())
	}
}

func TestEvalTryExceptCatchesTypeMismatch(t *testing.T) {
	got := mustEval(t, `
		let result = 0;
		try {
			let x: int = "not an int";
		} except (err) {
			result = 1;
		}
		result;
	`)
	iv, ok := got.(*interp.IntegerValue)
	if !ok || iv.Value != 1 {
		t.Fatalf("got %v, want except block to run and set result=1", got.Inspect())
	}
}

func TestEvalFreezeRejectsMutation(t *testing.T) {
	got := mustEval(t, `
		let arr = [1, 2, 3];
		freeze(arr);
		arr.append(4);
	`)
	ev, ok := got.(*interp.ErrorValue)
	if !ok {
		t.Fatalf("expected *ErrorValue from mutating a frozen array, got %T (%s)", got, got.Inspect())
	}
	if ev.Kind != interp.ConstError {
		t.Errorf("unexpected error kind %v", ev.Kind)
	}
}

func TestEvalBreakStopsLoopEarly(t *testing.T) {
	got := mustEval(t, `
		let total = 0;
		for (const i in range(0, 10)) {
			if (i == 3) { break; }
			total = total + i;
		}
		total;
	`)
	iv, ok := got.(*interp.IntegerValue)
	if !ok || iv.Value != 3 {
		t.Fatalf("got %v, want 3 (0+1+2 before break)", got.Inspect())
	}
}

func TestEvalDestructorRunsOnScopeExit(t *testing.T) {
	got := mustEval(t, `
		let destroyed = 0;
		let Resource = type {
			destruct() { destroyed = destroyed + 1; }
		};
		scope {
			let r = Resource();
		}
		destroyed;
	`)
	iv, ok := got.(*interp.IntegerValue)
	if !ok || iv.Value != 1 {
		t.Fatalf("got %v, want destructor to run exactly once", got.Inspect())
	}
}
