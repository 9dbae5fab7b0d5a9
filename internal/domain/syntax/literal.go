package syntax

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Keyword is the value of a keyword literal, without its leading colon.
type Keyword string

// Symbol is the value of a symbol token.
type Symbol string

var (
	intPattern   = regexp.MustCompile(`^[+-]?(0[xX][0-9a-fA-F]+|[0-9]+[rR][0-9a-zA-Z]+|[0-9]+)N?$`)
	floatPattern = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]*)?([eE][+-]?[0-9]+)?M?$`)
	ratioPattern = regexp.MustCompile(`^[+-]?[0-9]+/[0-9]+$`)
	decimalInt   = regexp.MustCompile(`^[+-]?[0-9]+$`)
)

var namedChars = map[string]rune{
	"newline":   '\n',
	"space":     ' ',
	"tab":       '\t',
	"backspace": '\b',
	"formfeed":  '\f',
	"return":    '\r',
}

func isNumberText(s string) bool {
	return intPattern.MatchString(s) || floatPattern.MatchString(s) || ratioPattern.MatchString(s)
}

func isSymbolText(s string) bool {
	if s == "" || s == "nil" || s == "true" || s == "false" {
		return false
	}

	switch s[0] {
	case ':', '\\', '#':
		return false
	}

	return !isNumberText(s)
}

// IsLiteral reports whether the node can be read as plain data: tokens,
// strings, and collections made only of literals.
func IsLiteral(n *Node) bool {
	switch n.Tag {
	case TagToken, TagString:
		return true
	case TagList, TagVector, TagMap, TagSet:
		for _, form := range n.Forms() {
			if !IsLiteral(form) {
				return false
			}
		}

		return true
	case TagQuote:
		head := n.Head()
		return head != nil && IsLiteral(head)
	default:
		return false
	}
}

// LiteralValue extracts the value of a leaf literal. Collections are not
// converted; use IsLiteral to test them.
func LiteralValue(n *Node) (any, bool) {
	switch n.Tag {
	case TagString:
		s, ok := unquote(n.Value)
		return s, ok
	case TagToken:
		return tokenValue(n.Value)
	default:
		return nil, false
	}
}

// IntegerValue returns the value of a plain decimal integer token.
func IntegerValue(n *Node) (int64, bool) {
	if n == nil || n.Tag != TagToken || !decimalInt.MatchString(n.Value) {
		return 0, false
	}

	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

//nolint:cyclop // One branch per token kind.
func tokenValue(text string) (any, bool) {
	switch {
	case text == "nil":
		return nil, true
	case text == "true":
		return true, true
	case text == "false":
		return false, true
	case text == "##Inf":
		return math.Inf(1), true
	case text == "##-Inf":
		return math.Inf(-1), true
	case text == "##NaN":
		return math.NaN(), true
	case strings.HasPrefix(text, ":"):
		return Keyword(text[1:]), true
	case strings.HasPrefix(text, `\`):
		return charValue(text[1:])
	case intPattern.MatchString(text):
		return intValue(text)
	case floatPattern.MatchString(text):
		v, err := strconv.ParseFloat(strings.TrimSuffix(text, "M"), 64)
		return v, err == nil
	case ratioPattern.MatchString(text):
		num, den, _ := strings.Cut(text, "/")
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)

		return n / d, errN == nil && errD == nil && d != 0
	case isSymbolText(text):
		return Symbol(text), true
	default:
		return nil, false
	}
}

func intValue(text string) (any, bool) {
	text = strings.TrimSuffix(text, "N")

	sign := ""
	if text[0] == '+' || text[0] == '-' {
		sign, text = text[:1], text[1:]
	}

	base := 10

	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base, text = 16, text[2:]
	case strings.ContainsAny(text, "rR"):
		radix, digits, _ := strings.Cut(strings.ToLower(text), "r")

		b, err := strconv.Atoi(radix)
		if err != nil || b < 2 || b > 36 {
			return nil, false
		}

		base, text = b, digits
	case len(text) > 1 && text[0] == '0':
		base = 8
	}

	v, err := strconv.ParseInt(sign+text, base, 64)

	return v, err == nil
}

func charValue(name string) (any, bool) {
	if r, ok := namedChars[name]; ok {
		return r, true
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return r, true
	}

	if strings.HasPrefix(name, "u") && len(name) == 5 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		return rune(v), err == nil
	}

	if strings.HasPrefix(name, "o") && len(name) > 1 {
		v, err := strconv.ParseUint(name[1:], 8, 32)
		return rune(v), err == nil
	}

	return nil, false
}

func unquote(raw string) (string, bool) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", false
	}

	body := raw[1 : len(raw)-1]

	var b strings.Builder

	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			b.WriteByte(c)
			continue
		}

		i++

		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+4 < len(body) {
				if v, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 4

					continue
				}
			}

			return "", false
		default:
			b.WriteByte(body[i])
		}
	}

	return b.String(), true
}
