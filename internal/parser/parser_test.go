package parser

import (
	"testing"

	"github.com/nightwing1978/luci-go/internal/ast"
	"github.com/nightwing1978/luci-go/internal/lexer"
)

func testParser(input string) *Parser {
	l := lexer.New(input)
	return New(l)
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errs := p.Errors()
	if len(errs) == 0 {
		return
	}
	t.Errorf("parser has %d errors", len(errs))
	for _, e := range errs {
		t.Errorf("parser error: %s", e.String())
	}
	t.FailNow()
}

func TestLetStatement(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		isConst  bool
		hasType  bool
	}{
		{"let x = 5;", "x", false, false},
		{"let const y: int = 10;", "y", true, true},
		{"let name: str = \"hi\";", "name", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := testParser(tt.input)
			program := p.ParseProgram()
			checkParserErrors(t, p)

			if len(program.Statements) != 1 {
				t.Fatalf("expected 1 statement, got %d", len(program.Statements))
			}
			stmt, ok := program.Statements[0].(*ast.LetStatement)
			if !ok {
				t.Fatalf("statement is not *ast.LetStatement, got %T", program.Statements[0])
			}
			if stmt.Name != tt.name {
				t.Errorf("Name = %q, want %q", stmt.Name, tt.name)
			}
			if stmt.Const != tt.isConst {
				t.Errorf("Const = %v, want %v", stmt.Const, tt.isConst)
			}
			if tt.hasType && stmt.DeclaredType == nil {
				t.Errorf("expected a declared type, got nil")
			}
		})
	}
}

func TestLetWithoutInitializerIsAnError(t *testing.T) {
	p := testParser("let x;")
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for `let x;` with no initializer")
	}
}

func TestIfExpression(t *testing.T) {
	p := testParser(`let x = if (true) { 1 } else { 2 };`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	let := program.Statements[0].(*ast.LetStatement)
	ifExpr, ok := let.Value.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected *ast.IfExpression, got %T", let.Value)
	}
	if ifExpr.Alternative == nil {
		t.Fatal("expected an else block")
	}
}

func TestForExpression(t *testing.T) {
	p := testParser(`for (const i in range(0, 10)) { print(i); }`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStatement, got %T", program.Statements[0])
	}
	forExpr, ok := stmt.Expression.(*ast.ForExpression)
	if !ok {
		t.Fatalf("expected *ast.ForExpression, got %T", stmt.Expression)
	}
	if !forExpr.Const || forExpr.Name != "i" {
		t.Errorf("got Const=%v Name=%q, want Const=true Name=\"i\"", forExpr.Const, forExpr.Name)
	}
}

func TestFunctionLiteralParameters(t *testing.T) {
	p := testParser(`let add = fn(a: int, b: int) -> int { return a + b; };`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	let := program.Statements[0].(*ast.LetStatement)
	fn, ok := let.Value.(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("expected *ast.FunctionLiteral, got %T", let.Value)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Parameters))
	}
	if fn.ReturnType == nil || fn.ReturnType.TypeString() != "int" {
		t.Errorf("expected return type int, got %v", fn.ReturnType)
	}
}

func TestUserTypeLiteral(t *testing.T) {
	p := testParser(`let Point = type {
		let x: int = 0;
		let y: int = 0;
		construct(ax, ay) { self.x = ax; self.y = ay; }
	};`)
	program := p.ParseProgram()
	checkParserErrors(t, p)

	let := program.Statements[0].(*ast.LetStatement)
	ut, ok := let.Value.(*ast.UserTypeLiteral)
	if !ok {
		t.Fatalf("expected *ast.UserTypeLiteral, got %T", let.Value)
	}
	if len(ut.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(ut.Members))
	}
}

func TestDictVsSetDisambiguation(t *testing.T) {
	tests := []struct {
		input  string
		isDict bool
	}{
		{"let d = {};", true},
		{"let d = {\"a\": 1};", true},
		{"let s = {1, 2, 3};", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := testParser(tt.input)
			program := p.ParseProgram()
			checkParserErrors(t, p)
			let := program.Statements[0].(*ast.LetStatement)
			_, isDict := let.Value.(*ast.DictLiteral)
			if isDict != tt.isDict {
				t.Errorf("got isDict=%v, want %v (value type %T)", isDict, tt.isDict, let.Value)
			}
		})
	}
}

func TestChoiceTypeAnnotation(t *testing.T) {
	p := testParser(`let x: <int, str> = 5;`)
	program := p.ParseProgram()
	checkParserErrors(t, p)
	let := program.Statements[0].(*ast.LetStatement)
	choice, ok := let.DeclaredType.(*ast.ChoiceType)
	if !ok {
		t.Fatalf("expected *ast.ChoiceType, got %T", let.DeclaredType)
	}
	if len(choice.Elements) != 2 {
		t.Errorf("expected 2 elements, got %d", len(choice.Elements))
	}
}
