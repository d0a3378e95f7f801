package builtins

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nightwing1978/luci-go/internal/interp"
)

// FormatString implements the format mini-language's placeholder
// grammar `{index?[:spec]?}`, with spec grammar
// `[[fill]align][sign][#][0][width][.precision][L]type` (spec.md §4.6
// "format(...)").
func FormatString(template string, args []interp.Value) (string, error) {
	var out strings.Builder
	runes := []rune(template)
	autoIndex := 0

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '{' {
			if i+1 < len(runes) && runes[i+1] == '{' {
				out.WriteRune('{')
				i++
				continue
			}
			end := strings.IndexRune(string(runes[i+1:]), '}')
			if end < 0 {
				return "", fmt.Errorf("format: unterminated placeholder")
			}
			inner := string(runes[i+1 : i+1+end])
			i += end + 1

			idxPart, specPart, _ := strings.Cut(inner, ":")
			var idx int
			if idxPart == "" {
				idx = autoIndex
				autoIndex++
			} else {
				n, err := strconv.Atoi(idxPart)
				if err != nil {
					return "", fmt.Errorf("format: bad index %q", idxPart)
				}
				idx = n
			}
			if idx < 0 || idx >= len(args) {
				return "", fmt.Errorf("format: index %d out of range", idx)
			}
			rendered, err := applySpec(args[idx], specPart)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
			continue
		}
		if ch == '}' && i+1 < len(runes) && runes[i+1] == '}' {
			out.WriteRune('}')
			i++
			continue
		}
		out.WriteRune(ch)
	}
	return out.String(), nil
}

// fmtSpec is a parsed `[[fill]align][sign][#][0][width][.precision][L]type`.
type fmtSpec struct {
	fill      rune
	align     byte // 0, '<', '>', '^'
	sign      byte // 0, '+', '-', ' '
	alt       bool
	zeroPad   bool
	width     int
	precision int
	hasPrec   bool
	typ       byte // 0, 'd','f','x','X','o','b','s','e'
}

func parseSpec(spec string) fmtSpec {
	var s fmtSpec
	s.fill = ' '
	r := []rune(spec)
	i := 0
	if len(r) >= 2 && (r[1] == '<' || r[1] == '>' || r[1] == '^') {
		s.fill = r[0]
		s.align = byte(r[1])
		i = 2
	} else if len(r) >= 1 && (r[0] == '<' || r[0] == '>' || r[0] == '^') {
		s.align = byte(r[0])
		i = 1
	}
	if i < len(r) && (r[i] == '+' || r[i] == '-' || r[i] == ' ') {
		s.sign = byte(r[i])
		i++
	}
	if i < len(r) && r[i] == '#' {
		s.alt = true
		i++
	}
	if i < len(r) && r[i] == '0' {
		s.zeroPad = true
		i++
	}
	widthStart := i
	for i < len(r) && r[i] >= '0' && r[i] <= '9' {
		i++
	}
	if i > widthStart {
		s.width, _ = strconv.Atoi(string(r[widthStart:i]))
	}
	if i < len(r) && r[i] == '.' {
		i++
		precStart := i
		for i < len(r) && r[i] >= '0' && r[i] <= '9' {
			i++
		}
		s.precision, _ = strconv.Atoi(string(r[precStart:i]))
		s.hasPrec = true
	}
	if i < len(r) && r[i] == 'L' {
		i++
	}
	if i < len(r) {
		s.typ = byte(r[i])
	}
	return s
}

func applySpec(v interp.Value, specStr string) (string, error) {
	spec := parseSpec(specStr)
	var rendered string

	switch spec.typ {
	case 'd':
		iv, ok := v.(*interp.IntegerValue)
		if !ok {
			return "", fmt.Errorf("format: %%d requires an int")
		}
		rendered = strconv.FormatInt(iv.Value, 10)
		if spec.sign == '+' && iv.Value >= 0 {
			rendered = "+" + rendered
		}
	case 'x', 'X':
		iv, ok := v.(*interp.IntegerValue)
		if !ok {
			return "", fmt.Errorf("format: %%x requires an int")
		}
		rendered = strconv.FormatInt(iv.Value, 16)
		if spec.typ == 'X' {
			rendered = strings.ToUpper(rendered)
		}
		if spec.alt {
			rendered = "0x" + rendered
		}
	case 'o':
		iv, ok := v.(*interp.IntegerValue)
		if !ok {
			return "", fmt.Errorf("format: %%o requires an int")
		}
		rendered = strconv.FormatInt(iv.Value, 8)
	case 'b':
		iv, ok := v.(*interp.IntegerValue)
		if !ok {
			return "", fmt.Errorf("format: %%b requires an int")
		}
		rendered = strconv.FormatInt(iv.Value, 2)
	case 'f':
		f, ok := asFloat(v)
		if !ok {
			return "", fmt.Errorf("format: %%f requires a number")
		}
		prec := 6
		if spec.hasPrec {
			prec = spec.precision
		}
		rendered = strconv.FormatFloat(f, 'f', prec, 64)
	case 'e':
		f, ok := asFloat(v)
		if !ok {
			return "", fmt.Errorf("format: %%e requires a number")
		}
		prec := 6
		if spec.hasPrec {
			prec = spec.precision
		}
		rendered = strconv.FormatFloat(f, 'e', prec, 64)
	case 's', 0:
		rendered = v.String()
		if spec.hasPrec && len(rendered) > spec.precision {
			rendered = rendered[:spec.precision]
		}
	default:
		return "", fmt.Errorf("format: unknown type %q", string(spec.typ))
	}

	if spec.width > len([]rune(rendered)) {
		pad := spec.width - len([]rune(rendered))
		fill := spec.fill
		align := spec.align
		if spec.zeroPad && align == 0 {
			align = '>'
			fill = '0'
		}
		if align == 0 {
			if spec.typ != 's' && spec.typ != 0 {
				align = '>'
			} else {
				align = '<'
			}
		}
		padStr := strings.Repeat(string(fill), pad)
		switch align {
		case '>':
			rendered = padStr + rendered
		case '^':
			left := pad / 2
			right := pad - left
			rendered = strings.Repeat(string(fill), left) + rendered + strings.Repeat(string(fill), right)
		default:
			rendered = rendered + padStr
		}
	}
	return rendered, nil
}
