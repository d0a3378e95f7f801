package errors

import (
	"strings"
	"testing"

	"github.com/nightwing1978/luci-go/internal/lexer"
)

func TestFormatShowsCaretAtColumn(t *testing.T) {
	src := "let x = 1 +;"
	e := NewCompilerError(lexer.Position{Line: 1, Column: 11}, "unexpected token ;", src, "")
	out := e.Format(false)

	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], src) {
		t.Errorf("expected source line to be rendered, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "^") {
		t.Errorf("expected a caret line, got %q", lines[2])
	}
}

func TestFormatIncludesFileName(t *testing.T) {
	e := NewCompilerError(lexer.Position{Line: 3, Column: 1}, "boom", "a\nb\nc", "script.luci")
	out := e.Format(false)
	if !strings.HasPrefix(out, "Error in script.luci:3:1") {
		t.Errorf("expected file-qualified header, got %q", out)
	}
}

func TestFormatErrorsEmpty(t *testing.T) {
	if got := FormatErrors(nil, false); got != "" {
		t.Errorf("expected empty string for no errors, got %q", got)
	}
}

func TestFormatErrorsMultipleAreNumberedAndIndented(t *testing.T) {
	errs := []*CompilerError{
		NewCompilerError(lexer.Position{Line: 1, Column: 1}, "first", "x", ""),
		NewCompilerError(lexer.Position{Line: 1, Column: 1}, "second", "x", ""),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Errorf("expected a count header, got %q", out)
	}
	if !strings.Contains(out, "[Error 1 of 2]") || !strings.Contains(out, "[Error 2 of 2]") {
		t.Errorf("expected numbered banners, got %q", out)
	}
	if !strings.Contains(out, "  Error at") {
		t.Errorf("expected indented per-error output, got %q", out)
	}
}
