// Package mutagens holds the catalog of mutation operators. Each operator is
// a plain record pairing a predicate over syntax nodes with a transform that
// builds the replacement node.
package mutagens

import (
	"strings"

	"gooze.dev/pkg/clooze/internal/domain/syntax"
	m "gooze.dev/pkg/clooze/internal/model"
)

// Category groups related operators.
type Category string

// Operator categories, in catalog order.
const (
	CategoryArithmetic  Category = "arithmetic"
	CategoryComparison  Category = "comparison"
	CategoryLogical     Category = "logical"
	CategoryConditional Category = "conditional"
	CategoryConstant    Category = "constant"
	CategoryCollection  Category = "collection"
	CategoryNil         Category = "nil"
	CategoryCall        Category = "call"
)

const coreNamespace = "clojure.core/"

// Operator is a single mutation rule. Predicate must be pure; Transform is
// only called on nodes the predicate accepted.
type Operator struct {
	ID          m.OperatorID
	Category    Category
	Description string
	Predicate   func(n *syntax.Node) bool
	Transform   func(n *syntax.Node) (*syntax.Node, error)
}

// NormalizeSymbol strips the clojure.core qualifier from a symbol.
func NormalizeSymbol(name string) string {
	return strings.TrimPrefix(name, coreNamespace)
}

// callHead returns the normalized head symbol of an invocation form.
func callHead(n *syntax.Node) (string, bool) {
	head, ok := n.CallHead()
	if !ok {
		return "", false
	}

	return NormalizeSymbol(head), true
}

// isCallTo reports whether n invokes one of the given symbols.
func isCallTo(n *syntax.Node, symbols ...string) bool {
	head, ok := callHead(n)
	if !ok {
		return false
	}

	for _, symbol := range symbols {
		if head == symbol {
			return true
		}
	}

	return false
}

// argCount returns the number of forms following the head of a call.
func argCount(n *syntax.Node) int {
	return len(n.Forms()) - 1
}

// headSwap builds an operator replacing the call head from with to.
func headSwap(id m.OperatorID, category Category, from, to string) Operator {
	return Operator{
		ID:          id,
		Category:    category,
		Description: "replace (" + from + " ...) with (" + to + " ...)",
		Predicate: func(n *syntax.Node) bool {
			return isCallTo(n, from)
		},
		Transform: func(n *syntax.Node) (*syntax.Node, error) {
			return syntax.WithHead(n, to)
		},
	}
}

// tokenSwap builds an operator replacing a literal token in any position.
func tokenSwap(id m.OperatorID, from, to string) Operator {
	return Operator{
		ID:          id,
		Category:    CategoryConstant,
		Description: "replace " + from + " with " + to,
		Predicate: func(n *syntax.Node) bool {
			return n.Tag == syntax.TagToken && n.Value == from
		},
		Transform: func(n *syntax.Node) (*syntax.Node, error) {
			return leaf(n, to), nil
		},
	}
}

// leaf builds a token carrying the position of the node it replaces.
func leaf(n *syntax.Node, text string) *syntax.Node {
	token := syntax.NewToken(text)
	token.Pos = n.Pos

	return token
}
