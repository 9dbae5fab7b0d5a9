package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *Node {
	t.Helper()

	root, err := Parse(text)
	require.NoError(t, err)

	return root
}

func TestWalk_PreOrder(t *testing.T) {
	root := mustParse(t, "(f [a 1] ; note\n \"s\")")

	var visited []string

	Walk(root, func(n *Node, _ Path) bool {
		visited = append(visited, n.String())
		return true
	})

	assert.Equal(t, []string{
		"(f [a 1] ; note\n \"s\")",
		"f",
		"[a 1]",
		"a",
		"1",
		`"s"`,
	}, visited)
}

func TestWalk_SkipsDescendants(t *testing.T) {
	root := mustParse(t, "(a (b c) d)")

	var visited []string

	Walk(root, func(n *Node, _ Path) bool {
		visited = append(visited, n.String())
		return n.Tag != TagList || n.Head().Value != "b"
	})

	assert.Equal(t, []string{"(a (b c) d)", "a", "(b c)", "d"}, visited)
}

func TestWalk_PathsAddressNodes(t *testing.T) {
	root := mustParse(t, "(defn f [x]\n  (if (pos? x) x (- x)))")

	var paths []Path

	Walk(root, func(n *Node, path Path) bool {
		paths = append(paths, path)
		assert.Same(t, n, At(root, path))

		return true
	})

	// Retained paths must stay valid after the walk.
	for _, path := range paths {
		assert.NotNil(t, At(root, path))
	}
}

func TestLocate(t *testing.T) {
	root := mustParse(t, "(defn add [a b]\n  (+ a b))")

	node, path, ok := Locate(root, Position{Row: 2, Col: 3})
	require.True(t, ok)
	assert.Equal(t, "(+ a b)", node.String())
	assert.Same(t, node, At(root, path))

	head, _, ok := Locate(root, Position{Row: 2, Col: 4})
	require.True(t, ok)
	assert.Equal(t, "+", head.Value)

	_, _, ok = Locate(root, Position{Row: 9, Col: 9})
	assert.False(t, ok)

	_, _, ok = Locate(root, Position{})
	assert.False(t, ok)
}

func TestLocate_FirstInWalkOrder(t *testing.T) {
	root := mustParse(t, "'x")

	// The quote and its target start at different columns; the quote wins
	// for its own position.
	node, _, ok := Locate(root, Position{Row: 1, Col: 1})
	require.True(t, ok)
	assert.Equal(t, TagQuote, node.Tag)
}

func TestReplace_SharesUntouchedSubtrees(t *testing.T) {
	root := mustParse(t, "(a (b c)) (d e)")

	_, path, ok := Locate(root, Position{Row: 1, Col: 7})
	require.True(t, ok)

	edited, err := Replace(root, path, NewToken("z"))
	require.NoError(t, err)

	assert.Equal(t, "(a (b z)) (d e)", edited.String())
	assert.Equal(t, "(a (b c)) (d e)", root.String())
	assert.Same(t, root.Children[2], edited.Children[2])
	assert.NotSame(t, root.Children[0], edited.Children[0])
}

func TestRemoveAndInsert(t *testing.T) {
	root := mustParse(t, "[a b c]")
	_, path, ok := Locate(root, Position{Row: 1, Col: 4})
	require.True(t, ok)

	removed, err := Remove(root, path)
	require.NoError(t, err)
	assert.Equal(t, "[a  c]", removed.String())

	before, err := InsertBefore(root, path, NewToken("x "))
	require.NoError(t, err)
	assert.Equal(t, "[a x b c]", before.String())

	after, err := InsertAfter(root, path, NewToken(" y"))
	require.NoError(t, err)
	assert.Equal(t, "[a b y c]", after.String())

	assert.Equal(t, "[a b c]", root.String())
}

func TestEdit_InvalidPath(t *testing.T) {
	root := mustParse(t, "(a)")

	_, err := Replace(root, Path{}, NewToken("x"))
	require.ErrorIs(t, err, ErrInvalidPath)

	_, err = Replace(root, Path{0, 5}, NewToken("x"))
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestWithHead(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		symbol string
		want   string
	}{
		{"plain", "(+ a b)", "-", "(- a b)"},
		{"qualified keeps namespace", "(clojure.core/+ a b)", "-", "(clojure.core/- a b)"},
		{"qualified replacement", "(+ a b)", "clojure.core/-", "(clojure.core/- a b)"},
		{"anonymous fn", "#(< % 1)", "<=", "#(<= % 1)"},
		{"leading whitespace", "( when x y)", "when-not", "( when-not x y)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := mustParse(t, tt.text).Forms()[0]

			got, err := WithHead(call, tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, call.Head().Pos, got.Head().Pos)
		})
	}

	_, err := WithHead(mustParse(t, "()").Forms()[0], "x")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestWithoutForm(t *testing.T) {
	tests := []struct {
		name string
		text string
		form int
		want string
	}{
		{"last form", "(if c a b)", 3, "(if c a)"},
		{"middle form", "(+ a b c)", 2, "(+ a c)"},
		{"first form", "(a b)", 0, "(b)"},
		{"multiline", "(if c\n  a\n  b)", 3, "(if c\n  a)"},
		{"comment before", "(f a ;; note\n b)", 2, "(f a ;; note\n)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithoutForm(mustParse(t, tt.text).Forms()[0], tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := WithoutForm(mustParse(t, "(a)").Forms()[0], 4)
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestSwapForms(t *testing.T) {
	call := mustParse(t, "(if c\n  yes\n  no)").Forms()[0]

	got, err := SwapForms(call, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "(if c\n  no\n  yes)", got.String())
	assert.Equal(t, "(if c\n  yes\n  no)", call.String())

	_, err = SwapForms(call, 2, 9)
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestWrap(t *testing.T) {
	test := mustParse(t, "(pos? x)").Forms()[0]
	assert.Equal(t, "(not (pos? x))", Wrap(test, "not").String())
}

func TestNewString(t *testing.T) {
	assert.Equal(t, `""`, NewString("").String())
	assert.Equal(t, `"say \"hi\" \\o/"`, NewString(`say "hi" \o/`).String())
}
