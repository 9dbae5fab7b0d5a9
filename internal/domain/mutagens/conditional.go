package mutagens

import (
	"fmt"

	"gooze.dev/pkg/clooze/internal/domain/syntax"
)

// conditionalOperators invert, reorder or prune branching forms.
func conditionalOperators() []Operator {
	return []Operator{
		headSwap("cond-if-ifnot", CategoryConditional, "if", "if-not"),
		headSwap("cond-ifnot-if", CategoryConditional, "if-not", "if"),
		headSwap("cond-when-whennot", CategoryConditional, "when", "when-not"),
		headSwap("cond-whennot-when", CategoryConditional, "when-not", "when"),
		{
			ID:          "cond-negate-test",
			Category:    CategoryConditional,
			Description: "replace (if c ...) with (if (not c) ...)",
			Predicate: func(n *syntax.Node) bool {
				return isCallTo(n, "if", "when") && argCount(n) >= 2
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				i := n.FormIndex(1)
				return syntax.WithChild(n, i, syntax.Wrap(n.Children[i], "not")), nil
			},
		},
		{
			ID:          "cond-swap-branches",
			Category:    CategoryConditional,
			Description: "swap the then and else branches of if",
			Predicate:   isIfWithElse,
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return syntax.SwapForms(n, 2, 3)
			},
		},
		{
			ID:          "cond-drop-else",
			Category:    CategoryConditional,
			Description: "remove the else branch of if",
			Predicate:   isIfWithElse,
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return syntax.WithoutForm(n, 3)
			},
		},
		{
			ID:          "cond-drop-clause",
			Category:    CategoryConditional,
			Description: "remove the first test/expression pair of cond",
			Predicate: func(n *syntax.Node) bool {
				args := argCount(n)
				return isCallTo(n, "cond") && args >= 4 && args%2 == 0
			},
			Transform: dropFirstClause,
		},
	}
}

func isIfWithElse(n *syntax.Node) bool {
	return isCallTo(n, "if", "if-not") && argCount(n) == 3
}

func dropFirstClause(n *syntax.Node) (*syntax.Node, error) {
	withoutTest, err := syntax.WithoutForm(n, 1)
	if err != nil {
		return nil, fmt.Errorf("drop cond test: %w", err)
	}

	out, err := syntax.WithoutForm(withoutTest, 1)
	if err != nil {
		return nil, fmt.Errorf("drop cond expression: %w", err)
	}

	return out, nil
}
