package builtins_test

import (
	"testing"

	"github.com/nightwing1978/luci-go/internal/builtins"
	"github.com/nightwing1978/luci-go/internal/interp"
	"github.com/nightwing1978/luci-go/internal/lexer"
	"github.com/nightwing1978/luci-go/internal/parser"
)

func mustEval(t *testing.T, input string) interp.Value {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	ev := interp.NewEvaluator()
	ev.Stdout = func(string) {}
	builtins.RegisterAll(ev)
	return ev.Eval(program, ev.Global)
}

func TestCoreLenAcrossContainers(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{`len([1, 2, 3]);`, 3},
		{`len("hello");`, 5},
		{`len({"a": 1, "b": 2});`, 2},
		{`len({1, 2, 3, 3});`, 3},
	}
	for _, tt := range tests {
		got := mustEval(t, tt.input)
		iv, ok := got.(*interp.IntegerValue)
		if !ok || iv.Value != tt.want {
			t.Errorf("%q = %v, want %d", tt.input, got.Inspect(), tt.want)
		}
	}
}

func TestCoreTypeReportsRuntimeTag(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`type(1);`, "Integer"},
		{`type(1.5);`, "Double"},
		{`type("s");`, "String"},
		{`type([1]);`, "Array"},
	}
	for _, tt := range tests {
		got := mustEval(t, tt.input)
		sv, ok := got.(*interp.StringValue)
		if !ok || sv.Value != tt.want {
			t.Errorf("%q = %v, want %q", tt.input, got.Inspect(), tt.want)
		}
	}
}

func TestCoreCloneProducesIndependentContainer(t *testing.T) {
	got := mustEval(t, `
		let a = [1, 2, 3];
		let b = clone(a);
		b.append(4);
		len(a);
	`)
	iv, ok := got.(*interp.IntegerValue)
	if !ok || iv.Value != 3 {
		t.Fatalf("got %v, want len(a)=3 (clone must not alias the original)", got.Inspect())
	}
}

func TestCoreFreezeDefrostIsFrozenRoundTrip(t *testing.T) {
	got := mustEval(t, `
		let a = [1, 2];
		freeze(a);
		let frozenBefore = is_frozen(a);
		defrost(a);
		let frozenAfter = is_frozen(a);
		[frozenBefore, frozenAfter];
	`)
	arr, ok := got.(*interp.ArrayValue)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("expected a 2-element array, got %v", got.Inspect())
	}
	before, ok1 := arr.Elements[0].(*interp.BooleanValue)
	after, ok2 := arr.Elements[1].(*interp.BooleanValue)
	if !ok1 || !ok2 || !before.Value || after.Value {
		t.Errorf("got %v, want [true, false]", got.Inspect())
	}
}

func TestCoreRangeVariants(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{`len(range(5));`, 5},
		{`len(range(2, 7));`, 5},
		{`len(range(0, 10, 2));`, 5},
	}
	for _, tt := range tests {
		got := mustEval(t, tt.input)
		iv, ok := got.(*interp.IntegerValue)
		if !ok || iv.Value != tt.want {
			t.Errorf("%q = %v, want %d", tt.input, got.Inspect(), tt.want)
		}
	}
}

func TestCoreExitProducesExitValue(t *testing.T) {
	got := mustEval(t, `exit(7);`)
	ev, ok := got.(*interp.ExitValue)
	if !ok || ev.Code != 7 {
		t.Fatalf("got %v, want ExitValue{Code: 7}", got.Inspect())
	}
}

func TestStringMembersUpperLowerSplitJoin(t *testing.T) {
	got := mustEval(t, `"Hello".upper();`)
	if sv, ok := got.(*interp.StringValue); !ok || sv.Value != "HELLO" {
		t.Errorf("upper() = %v, want HELLO", got.Inspect())
	}

	got = mustEval(t, `"Hello".lower();`)
	if sv, ok := got.(*interp.StringValue); !ok || sv.Value != "hello" {
		t.Errorf("lower() = %v, want hello", got.Inspect())
	}

	got = mustEval(t, `len("a,b,c".split(","));`)
	if iv, ok := got.(*interp.IntegerValue); !ok || iv.Value != 3 {
		t.Errorf("split(\",\") length = %v, want 3", got.Inspect())
	}

	got = mustEval(t, `"-".join(["a", "b", "c"]);`)
	if sv, ok := got.(*interp.StringValue); !ok || sv.Value != "a-b-c" {
		t.Errorf("join(\"-\") = %v, want a-b-c", got.Inspect())
	}
}

func TestMathModuleSqrt(t *testing.T) {
	got := mustEval(t, `
		import math;
		math::sqrt(16.0);
	`)
	dv, ok := got.(*interp.DoubleValue)
	if !ok || dv.Value != 4.0 {
		t.Fatalf("math::sqrt(16.0) = %v, want 4.0", got.Inspect())
	}
}

func TestMathModulePow(t *testing.T) {
	got := mustEval(t, `
		import math;
		math::pow(2.0, 10.0);
	`)
	dv, ok := got.(*interp.DoubleValue)
	if !ok || dv.Value != 1024.0 {
		t.Fatalf("math::pow(2,10) = %v, want 1024.0", got.Inspect())
	}
}

func TestImportOfUnknownModuleIsAnImportError(t *testing.T) {
	got := mustEval(t, `import does_not_exist;`)
	ev, ok := got.(*interp.ErrorValue)
	if !ok || ev.Kind != interp.ImportError {
		t.Fatalf("got %v, want an ImportError", got.Inspect())
	}
}
