package lexer

import "testing"

func TestNextTokenCoversOperatorsAndPunctuation(t *testing.T) {
	input := `let x = 1 + 2 * (3 - 4) / 5 % 2 ** 2;
	if (x == 1 && x != 2 || x <= 3) { x += 1; } else { x -= 1; }
	fn() -> int {}
	a::b
	// a line comment
	/! a doc comment
	`
	tests := []struct {
		wantType TokenType
		wantLit  string
	}{
		{LET, "let"}, {IDENT, "x"}, {ASSIGN, "="}, {INT, "1"},
		{PLUS, "+"}, {INT, "2"}, {STAR, "*"}, {LPAREN, "("},
		{INT, "3"}, {MINUS, "-"}, {INT, "4"}, {RPAREN, ")"},
		{SLASH, "/"}, {INT, "5"}, {PERCENT, "%"}, {INT, "2"},
		{POWER, "**"}, {INT, "2"}, {SEMICOLON, ";"},
		{IF, "if"}, {LPAREN, "("}, {IDENT, "x"}, {EQ, "=="}, {INT, "1"},
		{AND, "&&"}, {IDENT, "x"}, {NOT_EQ, "!="}, {INT, "2"},
		{OR, "||"}, {IDENT, "x"}, {LT_EQ, "<="}, {INT, "3"}, {RPAREN, ")"},
		{LBRACE, "{"}, {IDENT, "x"}, {PLUS_ASSIGN, "+="}, {INT, "1"}, {SEMICOLON, ";"}, {RBRACE, "}"},
		{ELSE, "else"}, {LBRACE, "{"}, {IDENT, "x"}, {MINUS_ASSIGN, "-="}, {INT, "1"}, {SEMICOLON, ";"}, {RBRACE, "}"},
		{FN, "fn"}, {LPAREN, "("}, {RPAREN, ")"}, {ARROW, "->"}, {IDENT, "int"}, {LBRACE, "{"}, {RBRACE, "}"},
		{IDENT, "a"}, {COLONCOLON, "::"}, {IDENT, "b"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %v, want %v (literal %q)", i, tok.Type, tt.wantType, tok.Literal)
		}
		if tok.Literal != tt.wantLit {
			t.Errorf("token %d: literal = %q, want %q", i, tok.Literal, tt.wantLit)
		}
	}
}

func TestNextTokenNumbers(t *testing.T) {
	tests := []struct {
		input    string
		wantType TokenType
	}{
		{"123", INT},
		{"1.5", DOUBLE},
		{"1.", DOUBLE},
		{"1e10", DOUBLE},
		{"1e+10", DOUBLE},
		{"1.5e-3", DOUBLE},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Errorf("%q: type = %v, want %v", tt.input, tok.Type, tt.wantType)
		}
		if tok.Literal != tt.input {
			t.Errorf("%q: literal = %q, want %q", tt.input, tok.Literal, tt.input)
		}
	}
}

func TestNextTokenMalformedExponentIsIllegal(t *testing.T) {
	l := New("1e")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got type %v, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Errorf("expected 1 lexer error, got %d", len(l.Errors()))
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	// \0101 is three octal digits after the leading 0: 1*64 + 0*8 + 1 = 65 ('A').
	l := New(`"a\nb\tc\"d\0101"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("got type %v, want STRING", tok.Type)
	}
	want := "a\nb\tc\"dA"
	if tok.Literal != want {
		t.Errorf("literal = %q, want %q", tok.Literal, want)
	}
}

func TestNextTokenUnterminatedStringIsIllegal(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("got type %v, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Errorf("expected 1 lexer error, got %d", len(l.Errors()))
	}
}

func TestNextTokenCommentsAreSkippedByDefault(t *testing.T) {
	l := New("let x = 1; // trailing comment\nlet y = 2;")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	for _, ty := range types {
		if ty == COMMENT || ty == DOC_COMMENT {
			t.Fatalf("expected comments to be skipped, got a COMMENT token: %v", types)
		}
	}
}

func TestNextTokenPreserveCommentsOption(t *testing.T) {
	l := New("// hi\nlet x = 1;", WithPreserveComments(true))
	tok := l.NextToken()
	if tok.Type != COMMENT {
		t.Fatalf("got type %v, want COMMENT", tok.Type)
	}
}

func TestWithFileNameAttachesToPosition(t *testing.T) {
	l := New("let x = 1;", WithFileName("script.luci"))
	tok := l.NextToken()
	if tok.Pos.File == nil || *tok.Pos.File != "script.luci" {
		t.Errorf("expected Pos.File = script.luci, got %v", tok.Pos.File)
	}
}

func TestIllegalCharacterReportsPositionAndError(t *testing.T) {
	l := New("let x = @;")
	for i := 0; i < 3; i++ {
		l.NextToken()
	}
	tok := l.NextToken()
	if tok.Type != ILLEGAL || tok.Literal != "@" {
		t.Fatalf("got %v %q, want ILLEGAL @", tok.Type, tok.Literal)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 lexer error, got %d", len(l.Errors()))
	}
}
