package types

import (
	"testing"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

func ident(name string) ast.TypeExpr {
	return &ast.IdentifierType{Token: lexer.Token{Type: lexer.IDENT, Literal: name}, Name: name}
}

func arrayOf(elem ast.TypeExpr) ast.TypeExpr {
	return &ast.ArrayType{Element: elem}
}

func TestIsCompatibleIdentical(t *testing.T) {
	if !IsCompatible(ident("int"), ident("int")) {
		t.Error("int should be compatible with int")
	}
	if IsCompatible(ident("int"), ident("str")) {
		t.Error("int should not be compatible with str")
	}
}

func TestIsCompatibleAllAndAny(t *testing.T) {
	all := &ast.AllType{}
	any_ := &ast.AnyType{}

	if !IsCompatible(ident("int"), all) {
		t.Error("anything should be compatible with all")
	}
	if !IsCompatible(any_, ident("int")) {
		t.Error("any should be compatible with anything except as U=all is handled separately")
	}
	if IsCompatible(all, ident("int")) {
		t.Error("all should not be compatible with a concrete type")
	}
	if !IsCompatible(all, all) {
		t.Error("all should be compatible with all")
	}
}

func TestIsCompatibleChoiceAsSource(t *testing.T) {
	tok := lexer.Token{Type: lexer.LT, Literal: "<"}
	choice := ast.NewChoiceType(tok, []ast.TypeExpr{ident("int"), ident("str")})

	// choice is a source (T): every element must be compatible with U.
	union := ast.NewChoiceType(tok, []ast.TypeExpr{ident("int"), ident("str"), ident("bool")})
	if !IsCompatible(choice, union) {
		t.Error("a narrower choice should be compatible with a wider choice containing all its elements")
	}
	if IsCompatible(choice, ident("int")) {
		t.Error("a multi-element choice should not be compatible with a single concrete type")
	}
}

func TestIsCompatibleChoiceAsDestination(t *testing.T) {
	tok := lexer.Token{Type: lexer.LT, Literal: "<"}
	choice := ast.NewChoiceType(tok, []ast.TypeExpr{ident("int"), ident("str")})

	// choice is a destination (U): T must match at least one element.
	if !IsCompatible(ident("int"), choice) {
		t.Error("int should be compatible with <int,str>")
	}
	if IsCompatible(ident("bool"), choice) {
		t.Error("bool should not be compatible with <int,str>")
	}
}

func TestIsCompatibleArraysAreCovariantByElement(t *testing.T) {
	if !IsCompatible(arrayOf(ident("int")), arrayOf(ident("int"))) {
		t.Error("[int] should be compatible with [int]")
	}
	if IsCompatible(arrayOf(ident("int")), arrayOf(ident("str"))) {
		t.Error("[int] should not be compatible with [str]")
	}
}

func TestIsCompatibleFunctionTypesCheckArityAndParams(t *testing.T) {
	fa := &ast.FunctionType{Parameters: []ast.TypeExpr{ident("int")}, Return: ident("bool")}
	fb := &ast.FunctionType{Parameters: []ast.TypeExpr{ident("int")}, Return: ident("bool")}
	fc := &ast.FunctionType{Parameters: []ast.TypeExpr{ident("int"), ident("int")}, Return: ident("bool")}

	if !IsCompatible(fa, fb) {
		t.Error("identical function signatures should be compatible")
	}
	if IsCompatible(fa, fc) {
		t.Error("function types with differing arity should not be compatible")
	}
}

func TestIsCompatibleWithValuePinsAnyToExistingComputedType(t *testing.T) {
	anyT := &ast.AnyType{}
	// Once a pin exists, a later assignment must match the pinned type.
	if IsCompatibleWithValue(anyT, ident("str"), ident("int")) {
		t.Error("an any-site pinned to int should reject a str on a later assignment")
	}
	if !IsCompatibleWithValue(anyT, ident("int"), ident("int")) {
		t.Error("an any-site pinned to int should accept another int")
	}
}

func TestMergeAllEmptyProducesAll(t *testing.T) {
	m := MergeAll(nil)
	if _, ok := m.(*ast.AllType); !ok {
		t.Fatalf("expected *ast.AllType for an empty merge, got %T", m)
	}
}

func TestMergeIdenticalCollapses(t *testing.T) {
	m := Merge(ident("int"), ident("int"))
	if m.TypeString() != "int" {
		t.Errorf("merging identical types should collapse, got %s", m.TypeString())
	}
}

func TestMergeDistinctProducesChoice(t *testing.T) {
	m := Merge(ident("int"), ident("str"))
	choice, ok := m.(*ast.ChoiceType)
	if !ok {
		t.Fatalf("expected *ast.ChoiceType, got %T", m)
	}
	if len(choice.Elements) != 2 {
		t.Errorf("expected 2 elements, got %d", len(choice.Elements))
	}
}

func TestTagForIdentifierKnownAndUnknown(t *testing.T) {
	if got := TagForIdentifier("int"); got != "Integer" {
		t.Errorf("TagForIdentifier(int) = %q, want Integer", got)
	}
	if got := TagForIdentifier("Widget"); got != "" {
		t.Errorf("TagForIdentifier(Widget) = %q, want empty (user type)", got)
	}
}
