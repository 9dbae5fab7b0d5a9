package mutagens

import (
	"strings"

	"gooze.dev/pkg/clooze/internal/domain/syntax"
)

var (
	variadicHeads   = []string{"+", "*", "and", "or", "str", "concat", "merge", "max", "min"}
	orderedHeads    = []string{"-", "/", "<", ">", "<=", ">=", "quot", "rem", "mod", "compare"}
	unwrappingHeads = []string{"inc", "dec", "first", "last", "seq", "vec", "set", "str"}
)

// callOperators edit the arguments of a call.
func callOperators() []Operator {
	return []Operator{
		{
			ID:          "call-drop-last-arg",
			Category:    CategoryCall,
			Description: "remove the last argument of (" + strings.Join(variadicHeads, " ") + ")",
			Predicate: func(n *syntax.Node) bool {
				return isCallTo(n, variadicHeads...) && argCount(n) >= 2
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return syntax.WithoutForm(n, argCount(n))
			},
		},
		{
			ID:          "call-swap-args",
			Category:    CategoryCall,
			Description: "swap the first two arguments of (" + strings.Join(orderedHeads, " ") + ")",
			Predicate: func(n *syntax.Node) bool {
				return isCallTo(n, orderedHeads...) && argCount(n) >= 2
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return syntax.SwapForms(n, 1, 2)
			},
		},
		{
			ID:          "call-unwrap",
			Category:    CategoryCall,
			Description: "replace (f x) with x for " + strings.Join(unwrappingHeads, " "),
			Predicate: func(n *syntax.Node) bool {
				return isCallTo(n, unwrappingHeads...) && argCount(n) == 1
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return n.Forms()[1], nil
			},
		},
	}
}
