// Package errors formats luci compiler diagnostics (lexer/parser/
// semantic errors) with source context, line/column information, and a
// caret pointing at the offending column, grounded on the teacher's
// internal/errors package.
package errors

import (
	"fmt"
	"strings"

	"github.com/kr/text"

	"github.com/nightwing1978/luci-go/internal/lexer"
)

// CompilerError is a single diagnostic with position and the full
// source text it refers to (so Format can slice out the offending
// line without the caller re-threading source text everywhere).
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// NewCompilerError constructs a CompilerError.
func NewCompilerError(pos lexer.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the standard error interface.
func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the header, the offending source line, and a caret at
// the error column. If color is true, ANSI codes highlight the caret
// and message for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder
	e.writeHeader(&sb)

	line := e.sourceLine(e.Pos.Line)
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		writeCaret(&sb, len(lineNumStr)+e.Pos.Column-1, color)
	}

	writeMessage(&sb, e.Message, color)
	return sb.String()
}

// FormatWithContext renders contextLines of surrounding source above
// and below the error line, dimming non-error lines when color is on.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	var sb strings.Builder
	e.writeHeader(&sb)

	ctx := e.sourceContext(e.Pos.Line, contextLines, contextLines)
	if len(ctx) == 0 {
		return e.Format(color)
	}
	startLine := e.Pos.Line - contextLines
	if startLine < 1 {
		startLine = 1
	}

	for i, line := range ctx {
		currentLine := startLine + i
		lineNumStr := fmt.Sprintf("%4d | ", currentLine)
		if currentLine == e.Pos.Line {
			if color {
				sb.WriteString("\033[1m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
			writeCaret(&sb, len(lineNumStr)+e.Pos.Column-1, color)
		} else {
			if color {
				sb.WriteString("\033[2m")
			}
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	writeMessage(&sb, e.Message, color)
	return sb.String()
}

func (e *CompilerError) writeHeader(sb *strings.Builder) {
	if e.File != "" {
		fmt.Fprintf(sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}
}

func writeCaret(sb *strings.Builder, col int, color bool) {
	sb.WriteString(strings.Repeat(" ", col))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")
}

func writeMessage(sb *strings.Builder, msg string, color bool) {
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(msg)
	if color {
		sb.WriteString("\033[0m")
	}
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func (e *CompilerError) sourceContext(lineNum, before, after int) []string {
	if e.Source == "" {
		return nil
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return nil
	}
	start := lineNum - before
	if start < 1 {
		start = 1
	}
	end := lineNum + after
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start-1 : end]
}

// FormatErrors renders every error in errs, each individually via
// Format, indented under a numbered "[Error i of n]" banner. Multi-error
// output is indented two spaces with github.com/kr/text's Indent, the
// same library the teacher pack pulls in transitively through testify,
// rather than hand-rolling a per-line prefix loop.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Compilation failed with %d error(s):\n\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errs))
		sb.WriteString(text.Indent(err.Format(color), "  "))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
