// Package syntax implements a lossless concrete syntax tree for Clojure and
// EDN source text. Parsing then serializing an unmodified tree reproduces the
// input byte for byte, including whitespace, commas and comments.
package syntax

import (
	"fmt"
	"strings"
)

// Tag identifies the kind of a syntax node.
type Tag int

// Node tags.
const (
	TagForms Tag = iota // root: the sequence of top-level forms
	TagList
	TagVector
	TagMap
	TagSet
	TagFn
	TagQuote
	TagSyntaxQuote
	TagUnquote
	TagUnquoteSplicing
	TagDeref
	TagVarQuote
	TagMeta
	TagDiscard
	TagReaderMacro
	TagToken
	TagString
	TagRegex
	TagComment
	TagWhitespace
)

var tagNames = [...]string{
	TagForms:           "forms",
	TagList:            "list",
	TagVector:          "vector",
	TagMap:             "map",
	TagSet:             "set",
	TagFn:              "fn",
	TagQuote:           "quote",
	TagSyntaxQuote:     "syntax-quote",
	TagUnquote:         "unquote",
	TagUnquoteSplicing: "unquote-splicing",
	TagDeref:           "deref",
	TagVarQuote:        "var",
	TagMeta:            "meta",
	TagDiscard:         "uneval",
	TagReaderMacro:     "reader-macro",
	TagToken:           "token",
	TagString:          "string",
	TagRegex:           "regex",
	TagComment:         "comment",
	TagWhitespace:      "whitespace",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}

	return fmt.Sprintf("tag(%d)", int(t))
}

// Position is a 1-based (row, col) location. The zero value means the node
// was not produced by the parser.
type Position struct {
	Row int
	Col int
}

// IsZero reports whether the position is unset.
func (p Position) IsZero() bool {
	return p.Row == 0 && p.Col == 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Node is an element of the syntax tree.
//
// Bracketed tags (list, vector, map, set, fn) and the root only use
// Children. Prefix tags (quote, meta, discard, reader macros, ...) keep the
// exact prefix text in Value followed by their Children. Leaf tags keep their
// exact source text in Value.
type Node struct {
	Tag      Tag
	Value    string
	Children []*Node
	Pos      Position
}

var brackets = map[Tag][2]string{
	TagList:   {"(", ")"},
	TagVector: {"[", "]"},
	TagMap:    {"{", "}"},
	TagSet:    {"#{", "}"},
	TagFn:     {"#(", ")"},
}

// IsBracketed reports whether the node is a delimited collection.
func (n *Node) IsBracketed() bool {
	_, ok := brackets[n.Tag]
	return ok
}

// IsPrefix reports whether the node is a reader prefix applied to a form.
func (n *Node) IsPrefix() bool {
	return n.Tag >= TagQuote && n.Tag <= TagReaderMacro
}

// IsLeaf reports whether the node carries text instead of children.
func (n *Node) IsLeaf() bool {
	return n.Tag >= TagToken
}

// IsSignificant reports whether the node is a form rather than formatting.
func (n *Node) IsSignificant() bool {
	return n.Tag != TagWhitespace && n.Tag != TagComment
}

// String serializes the node back to source text.
func (n *Node) String() string {
	var b strings.Builder

	n.write(&b)

	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		return
	}

	if n.IsLeaf() {
		b.WriteString(n.Value)
		return
	}

	delims, bracketed := brackets[n.Tag]
	if bracketed {
		b.WriteString(delims[0])
	} else {
		b.WriteString(n.Value)
	}

	for _, child := range n.Children {
		child.write(b)
	}

	if bracketed {
		b.WriteString(delims[1])
	}
}

// Forms returns the significant children of the node.
func (n *Node) Forms() []*Node {
	forms := make([]*Node, 0, len(n.Children))

	for _, child := range n.Children {
		if child.IsSignificant() {
			forms = append(forms, child)
		}
	}

	return forms
}

// FormIndex maps the index of a significant child to its index in Children.
// It returns -1 when there are not enough forms.
func (n *Node) FormIndex(form int) int {
	seen := 0

	for i, child := range n.Children {
		if !child.IsSignificant() {
			continue
		}

		if seen == form {
			return i
		}

		seen++
	}

	return -1
}

// Head returns the first form of the node, or nil.
func (n *Node) Head() *Node {
	for _, child := range n.Children {
		if child.IsSignificant() {
			return child
		}
	}

	return nil
}

// SymbolName returns the symbol text when the node is a symbol token.
func (n *Node) SymbolName() (string, bool) {
	if n == nil || n.Tag != TagToken || !isSymbolText(n.Value) {
		return "", false
	}

	return n.Value, true
}

// IsCall reports whether the node is an invocation form: a list or an
// anonymous function literal whose first form is a symbol.
func (n *Node) IsCall() bool {
	if n == nil || (n.Tag != TagList && n.Tag != TagFn) {
		return false
	}

	_, ok := n.Head().SymbolName()

	return ok
}

// CallHead returns the head symbol of an invocation form.
func (n *Node) CallHead() (string, bool) {
	if !n.IsCall() {
		return "", false
	}

	return n.Head().SymbolName()
}

// Clone returns a shallow copy of the node with its own children slice.
func (n *Node) Clone() *Node {
	clone := *n
	if n.Children != nil {
		clone.Children = append([]*Node(nil), n.Children...)
	}

	return &clone
}
