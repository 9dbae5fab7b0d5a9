package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned when an edit addresses a node that does not exist.
var ErrInvalidPath = errors.New("invalid node path")

// Replace returns a new tree where the node at path is replaced by node.
// Only the nodes along path are copied; every other subtree is shared.
func Replace(root *Node, path Path, node *Node) (*Node, error) {
	return editAt(root, path, func(parent *Node, i int) {
		parent.Children[i] = node
	})
}

// Remove returns a new tree without the node at path.
func Remove(root *Node, path Path) (*Node, error) {
	return editAt(root, path, func(parent *Node, i int) {
		parent.Children = append(parent.Children[:i:i], parent.Children[i+1:]...)
	})
}

// InsertBefore returns a new tree with node inserted as the previous sibling
// of the node at path.
func InsertBefore(root *Node, path Path, node *Node) (*Node, error) {
	return editAt(root, path, func(parent *Node, i int) {
		parent.Children = insert(parent.Children, i, node)
	})
}

// InsertAfter returns a new tree with node inserted as the next sibling of
// the node at path.
func InsertAfter(root *Node, path Path, node *Node) (*Node, error) {
	return editAt(root, path, func(parent *Node, i int) {
		parent.Children = insert(parent.Children, i+1, node)
	})
}

func insert(children []*Node, i int, node *Node) []*Node {
	out := make([]*Node, 0, len(children)+1)
	out = append(out, children[:i]...)
	out = append(out, node)

	return append(out, children[i:]...)
}

func editAt(root *Node, path Path, fn func(parent *Node, i int)) (*Node, error) {
	if root == nil || len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	i := path[0]
	if i < 0 || i >= len(root.Children) {
		return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, i)
	}

	clone := root.Clone()

	if len(path) == 1 {
		fn(clone, i)
		return clone, nil
	}

	child, err := editAt(root.Children[i], path[1:], fn)
	if err != nil {
		return nil, err
	}

	clone.Children[i] = child

	return clone, nil
}

// NewToken builds a token leaf.
func NewToken(text string) *Node {
	return &Node{Tag: TagToken, Value: text}
}

// NewString builds a string literal leaf from unquoted contents.
func NewString(contents string) *Node {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(contents)
	return &Node{Tag: TagString, Value: `"` + escaped + `"`}
}

// NewWhitespace builds a whitespace leaf.
func NewWhitespace(text string) *Node {
	return &Node{Tag: TagWhitespace, Value: text}
}

// NewList builds a list from forms separated by single spaces.
func NewList(forms ...*Node) *Node {
	list := &Node{Tag: TagList}

	for i, form := range forms {
		if i > 0 {
			list.Children = append(list.Children, NewWhitespace(" "))
		}

		list.Children = append(list.Children, form)
	}

	return list
}

// WithChild returns a copy of n where the child at index i is replaced.
func WithChild(n *Node, i int, child *Node) *Node {
	clone := n.Clone()
	clone.Children[i] = child

	return clone
}

// WithHead returns a copy of the invocation form n with its head symbol
// replaced by symbol. A namespace qualifier on the original head is kept.
func WithHead(n *Node, symbol string) (*Node, error) {
	i := n.FormIndex(0)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s has no head form", ErrInvalidPath, n.Tag)
	}

	head := n.Children[i]
	if name, ok := head.SymbolName(); ok {
		if ns, _, qualified := strings.Cut(name, "/"); qualified && ns != "" && !strings.Contains(symbol, "/") {
			symbol = ns + "/" + symbol
		}
	}

	replacement := NewToken(symbol)
	replacement.Pos = head.Pos

	return WithChild(n, i, replacement), nil
}

// WithoutForm returns a copy of n without its form-th significant child.
// The whitespace run separating the form from its predecessor goes with it,
// so "(if c a b)" without form 3 becomes "(if c a)".
func WithoutForm(n *Node, form int) (*Node, error) {
	i := n.FormIndex(form)
	if i < 0 {
		return nil, fmt.Errorf("%w: form %d out of range", ErrInvalidPath, form)
	}

	start, end := i, i+1
	if form > 0 {
		for start > 0 && n.Children[start-1].Tag == TagWhitespace {
			start--
		}
	} else {
		for end < len(n.Children) && n.Children[end].Tag == TagWhitespace {
			end++
		}
	}

	clone := n.Clone()
	clone.Children = append(clone.Children[:start:start], n.Children[end:]...)

	// A line comment must stay terminated or it swallows the closer.
	if start > 0 && start < i && n.Children[start-1].Tag == TagComment {
		clone.Children = insert(clone.Children, start, NewWhitespace("\n"))
	}

	return clone, nil
}

// SwapForms returns a copy of n with two significant children exchanged.
// Formatting between them stays in place.
func SwapForms(n *Node, a, b int) (*Node, error) {
	i, j := n.FormIndex(a), n.FormIndex(b)
	if i < 0 || j < 0 {
		return nil, fmt.Errorf("%w: cannot swap forms %d and %d", ErrInvalidPath, a, b)
	}

	clone := n.Clone()
	clone.Children[i], clone.Children[j] = n.Children[j], n.Children[i]

	return clone, nil
}

// Wrap returns the list (head n).
func Wrap(n *Node, head string) *Node {
	return NewList(NewToken(head), n)
}
