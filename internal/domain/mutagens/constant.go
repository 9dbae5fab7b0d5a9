package mutagens

import (
	"math"
	"strconv"

	"gooze.dev/pkg/clooze/internal/domain/syntax"
)

// emptyStringReplacement is the text an empty string literal becomes.
const emptyStringReplacement = "clooze"

// constantOperators replace literal values wherever they appear.
func constantOperators() []Operator {
	return []Operator{
		tokenSwap("const-true-false", "true", "false"),
		tokenSwap("const-false-true", "false", "true"),
		tokenSwap("const-zero-one", "0", "1"),
		tokenSwap("const-one-zero", "1", "0"),
		{
			ID:          "const-int-inc",
			Category:    CategoryConstant,
			Description: "replace an integer n (other than 0 and 1) with n+1",
			Predicate: func(n *syntax.Node) bool {
				v, ok := syntax.IntegerValue(n)
				return ok && n.Value != "0" && n.Value != "1" && v < math.MaxInt64
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				v, _ := syntax.IntegerValue(n)
				return leaf(n, strconv.FormatInt(v+1, 10)), nil
			},
		},
		{
			ID:          "const-string-empty",
			Category:    CategoryConstant,
			Description: `replace a non-empty string with ""`,
			Predicate: func(n *syntax.Node) bool {
				return n.Tag == syntax.TagString && n.Value != `""`
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return stringLeaf(n, ""), nil
			},
		},
		{
			ID:          "const-empty-string",
			Category:    CategoryConstant,
			Description: `replace "" with "` + emptyStringReplacement + `"`,
			Predicate: func(n *syntax.Node) bool {
				return n.Tag == syntax.TagString && n.Value == `""`
			},
			Transform: func(n *syntax.Node) (*syntax.Node, error) {
				return stringLeaf(n, emptyStringReplacement), nil
			},
		},
		tokenSwap("const-nil-true", "nil", "true"),
	}
}

func stringLeaf(n *syntax.Node, contents string) *syntax.Node {
	s := syntax.NewString(contents)
	s.Pos = n.Pos

	return s
}
