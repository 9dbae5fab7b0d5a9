package mutagens

import "gooze.dev/pkg/clooze/internal/domain/syntax"

// logicalOperators swap boolean connectives and drop negations.
func logicalOperators() []Operator {
	return []Operator{
		headSwap("logic-and-or", CategoryLogical, "and", "or"),
		headSwap("logic-or-and", CategoryLogical, "or", "and"),
		{
			ID:          "logic-remove-not",
			Category:    CategoryLogical,
			Description: "replace (not x) with x",
			Predicate: func(n *syntax.Node) bool {
				return isCallTo(n, "not") && argCount(n) == 1
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return n.Forms()[1], nil
			},
		},
		headSwap("logic-every-some", CategoryLogical, "every?", "some"),
		headSwap("logic-notevery-every", CategoryLogical, "not-every?", "every?"),
		headSwap("logic-istrue-isfalse", CategoryLogical, "true?", "false?"),
	}
}
