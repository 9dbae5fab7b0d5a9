package syntax

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports malformed source text.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

// Parse reads source text into a lossless tree rooted at a TagForms node.
// Text that is not valid UTF-8 is rejected, since it could not be written
// back unchanged.
func Parse(text string) (*Node, error) {
	if !utf8.ValidString(text) {
		return nil, &SyntaxError{Pos: invalidUTF8Position(text), Msg: "invalid UTF-8 encoding"}
	}

	r := &reader{src: []rune(text), row: 1, col: 1}
	root := &Node{Tag: TagForms, Pos: Position{Row: 1, Col: 1}}

	for !r.eof() {
		if isCloser(r.peek()) {
			return nil, r.errorf(r.pos(), "unmatched delimiter %q", r.peek())
		}

		node, err := r.readNode()
		if err != nil {
			return nil, err
		}

		root.Children = append(root.Children, node)
	}

	return root, nil
}

// invalidUTF8Position locates the first byte that is not valid UTF-8.
func invalidUTF8Position(text string) Position {
	pos := Position{Row: 1, Col: 1}

	for i := 0; i < len(text); {
		c, size := utf8.DecodeRuneInString(text[i:])
		if c == utf8.RuneError && size <= 1 {
			return pos
		}

		if c == '\n' {
			pos.Row++
			pos.Col = 1
		} else {
			pos.Col++
		}

		i += size
	}

	return pos
}

type reader struct {
	src []rune
	i   int
	row int
	col int
}

func (r *reader) eof() bool {
	return r.i >= len(r.src)
}

func (r *reader) peek() rune {
	return r.peekAt(0)
}

func (r *reader) peekAt(offset int) rune {
	if r.i+offset >= len(r.src) {
		return 0
	}

	return r.src[r.i+offset]
}

func (r *reader) pos() Position {
	return Position{Row: r.row, Col: r.col}
}

func (r *reader) advance(n int) {
	for ; n > 0 && !r.eof(); n-- {
		if r.src[r.i] == '\n' {
			r.row++
			r.col = 1
		} else {
			r.col++
		}

		r.i++
	}
}

func (r *reader) errorf(pos Position, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// tokenEnd returns the index just past the token starting at from.
func (r *reader) tokenEnd(from int) int {
	end := from
	for end < len(r.src) && !isWhitespace(r.src[end]) && !isTerminating(r.src[end]) {
		end++
	}

	return end
}

func (r *reader) readNode() (*Node, error) {
	pos := r.pos()
	c := r.peek()

	switch {
	case isWhitespace(c):
		return r.readWhile(pos, TagWhitespace, isWhitespace), nil
	case c == ';':
		return r.readComment(pos), nil
	case c == '(':
		return r.readBracketed(pos, TagList, 1, ')')
	case c == '[':
		return r.readBracketed(pos, TagVector, 1, ']')
	case c == '{':
		return r.readBracketed(pos, TagMap, 1, '}')
	case isCloser(c):
		return nil, r.errorf(pos, "unexpected delimiter %q", c)
	case c == '"':
		return r.readString(pos, TagString, 1)
	case c == '\'':
		return r.readPrefixed(pos, TagQuote, "'", 1)
	case c == '`':
		return r.readPrefixed(pos, TagSyntaxQuote, "`", 1)
	case c == '~' && r.peekAt(1) == '@':
		return r.readPrefixed(pos, TagUnquoteSplicing, "~@", 1)
	case c == '~':
		return r.readPrefixed(pos, TagUnquote, "~", 1)
	case c == '@':
		return r.readPrefixed(pos, TagDeref, "@", 1)
	case c == '^':
		return r.readPrefixed(pos, TagMeta, "^", 2)
	case c == '\\':
		return r.readChar(pos)
	case c == '#':
		return r.readDispatch(pos)
	default:
		return r.readToken(pos, r.i), nil
	}
}

func (r *reader) readWhile(pos Position, tag Tag, pred func(rune) bool) *Node {
	start := r.i
	for !r.eof() && pred(r.peek()) {
		r.advance(1)
	}

	return &Node{Tag: tag, Value: string(r.src[start:r.i]), Pos: pos}
}

func (r *reader) readComment(pos Position) *Node {
	return r.readWhile(pos, TagComment, func(c rune) bool { return c != '\n' })
}

func (r *reader) readToken(pos Position, start int) *Node {
	end := r.tokenEnd(r.i)
	r.advance(end - r.i)

	return &Node{Tag: TagToken, Value: string(r.src[start:end]), Pos: pos}
}

func (r *reader) readBracketed(pos Position, tag Tag, openLen int, closer rune) (*Node, error) {
	r.advance(openLen)
	node := &Node{Tag: tag, Pos: pos}

	for {
		if r.eof() {
			return nil, r.errorf(pos, "unterminated %s, expected %q", tag, closer)
		}

		c := r.peek()
		if c == closer {
			r.advance(1)
			return node, nil
		}

		if isCloser(c) {
			return nil, r.errorf(r.pos(), "mismatched delimiter %q, expected %q", c, closer)
		}

		child, err := r.readNode()
		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, child)
	}
}

// readPrefixed reads a reader prefix followed by the given number of forms,
// keeping any whitespace and comments in between as children.
func (r *reader) readPrefixed(pos Position, tag Tag, prefix string, forms int) (*Node, error) {
	r.advance(len([]rune(prefix)))
	node := &Node{Tag: tag, Value: prefix, Pos: pos}

	for forms > 0 {
		if r.eof() {
			return nil, r.errorf(pos, "unexpected end of input after %q", prefix)
		}

		if isCloser(r.peek()) {
			return nil, r.errorf(r.pos(), "unexpected delimiter %q after %q", r.peek(), prefix)
		}

		child, err := r.readNode()
		if err != nil {
			return nil, err
		}

		node.Children = append(node.Children, child)

		// A discarded form is skipped, so #_ #_ a b discards both a and b.
		if child.IsSignificant() && child.Tag != TagDiscard {
			forms--
		}
	}

	return node, nil
}

func (r *reader) readString(pos Position, tag Tag, openLen int) (*Node, error) {
	start := r.i
	r.advance(openLen)

	for {
		if r.eof() {
			return nil, r.errorf(pos, "unterminated %s", tag)
		}

		switch r.peek() {
		case '\\':
			if r.i+1 >= len(r.src) {
				return nil, r.errorf(pos, "unterminated %s", tag)
			}

			r.advance(2)
		case '"':
			r.advance(1)
			return &Node{Tag: tag, Value: string(r.src[start:r.i]), Pos: pos}, nil
		default:
			r.advance(1)
		}
	}
}

func (r *reader) readChar(pos Position) (*Node, error) {
	start := r.i
	if r.i+1 >= len(r.src) {
		return nil, r.errorf(pos, "unterminated character literal")
	}

	// The first character after the backslash is always part of the literal.
	r.advance(2)
	end := r.tokenEnd(r.i)
	r.advance(end - r.i)

	return &Node{Tag: TagToken, Value: string(r.src[start:r.i]), Pos: pos}, nil
}

//nolint:cyclop // One case per dispatch macro.
func (r *reader) readDispatch(pos Position) (*Node, error) {
	next := r.peekAt(1)
	if r.i+1 >= len(r.src) {
		return nil, r.errorf(pos, "unexpected end of input after '#'")
	}

	switch {
	case next == '{':
		return r.readBracketed(pos, TagSet, 2, '}')
	case next == '(':
		return r.readBracketed(pos, TagFn, 2, ')')
	case next == '"':
		return r.readString(pos, TagRegex, 2)
	case next == '\'':
		return r.readPrefixed(pos, TagVarQuote, "#'", 1)
	case next == '_':
		return r.readPrefixed(pos, TagDiscard, "#_", 1)
	case next == '^':
		return r.readPrefixed(pos, TagMeta, "#^", 2)
	case next == '=':
		return r.readPrefixed(pos, TagReaderMacro, "#=", 1)
	case next == '!':
		return r.readComment(pos), nil
	case next == '?' && r.peekAt(2) == '@':
		return r.readPrefixed(pos, TagReaderMacro, "#?@", 1)
	case next == '?':
		return r.readPrefixed(pos, TagReaderMacro, "#?", 1)
	case next == '#':
		start := r.i
		r.advance(2)

		return r.readToken(pos, start), nil
	case next == ':' || unicode.IsLetter(next) || next == '_' || next == '.':
		end := r.tokenEnd(r.i + 1)
		return r.readPrefixed(pos, TagReaderMacro, string(r.src[r.i:end]), 1)
	default:
		return nil, r.errorf(pos, "unsupported dispatch macro \"#%c\"", next)
	}
}

func isWhitespace(c rune) bool {
	return c == ',' || unicode.IsSpace(c)
}

func isCloser(c rune) bool {
	return c == ')' || c == ']' || c == '}'
}

// isTerminating reports whether c ends a token. The '#', quote and '%'
// macro characters may appear inside symbols.
func isTerminating(c rune) bool {
	switch c {
	case '"', ';', '@', '^', '`', '~', '(', ')', '[', ']', '{', '}', '\\':
		return true
	}

	return false
}
