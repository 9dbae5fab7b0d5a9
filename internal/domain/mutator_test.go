package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	"gooze.dev/pkg/clooze/internal/domain/syntax"
	m "gooze.dev/pkg/clooze/internal/model"
)

const formattedUnit = `(ns app.core
  (:require [clojure.string :as str]))

;; Adds two numbers.
(defn add
  "Returns the sum."
  [a b]
  (+ a   b))   ; odd spacing stays

(defn classify [n]
  (cond
    (< n 0) :negative
    (= n 0) :zero
    :else   :positive))

(defn greet [names]
  (when (seq names)
    (str/join ", " (map #(str "hi " %) names))))

(def limits {:max 10, :min 0, :enabled true})
`

func TestMutator_Apply_Examples(t *testing.T) {
	mutator := NewMutator(mutagens.Default())

	mutated, err := mutator.Apply([]byte("(+ a b)"), m.Position{Row: 1, Col: 1}, "arith-add-sub")
	require.NoError(t, err)
	assert.Equal(t, "(- a b)", string(mutated))

	mutated, err = mutator.Apply([]byte("(defn add [a b] (+ a b))"), m.Position{Row: 1, Col: 17}, "arith-add-sub")
	require.NoError(t, err)
	assert.Equal(t, "(defn add [a b] (- a b))", string(mutated))
}

func TestMutator_Apply_KeepsFormatting(t *testing.T) {
	mutator := NewMutator(mutagens.Default())

	mutated, err := mutator.Apply([]byte(formattedUnit), m.Position{Row: 8, Col: 3}, "arith-add-sub")
	require.NoError(t, err)

	originalLines := strings.Split(formattedUnit, "\n")
	mutatedLines := strings.Split(string(mutated), "\n")
	require.Len(t, mutatedLines, len(originalLines))

	for i := range originalLines {
		if i == 7 {
			assert.Equal(t, "  (- a   b))   ; odd spacing stays", mutatedLines[i])
			continue
		}

		assert.Equal(t, originalLines[i], mutatedLines[i], "line %d", i+1)
	}
}

// offsetOf converts a 1-based position to a byte offset in ASCII text.
func offsetOf(text string, pos m.Position) int {
	offset := 0
	for row := 1; row < pos.Row; row++ {
		offset += strings.IndexByte(text[offset:], '\n') + 1
	}

	return offset + pos.Col - 1
}

func TestMutator_Apply_EverySiteOnlyTouchesItsForm(t *testing.T) {
	registry := mutagens.Default()
	mutator := NewMutator(registry)

	sites, err := NewScanner(registry.All(), DefaultSkipForms).Scan("core.clj", []byte(formattedUnit))
	require.NoError(t, err)
	require.NotEmpty(t, sites)

	for _, instance := range Expand(sites, "app.core", 0) {
		mutated, err := mutator.Apply([]byte(formattedUnit), instance.Position, instance.Operator)
		require.NoError(t, err, "%s at %s", instance.Operator, instance.Position)

		start := offsetOf(formattedUnit, instance.Position)
		require.Equal(t, instance.Original, formattedUnit[start:start+len(instance.Original)])

		prefix := formattedUnit[:start]
		suffix := formattedUnit[start+len(instance.Original):]

		assert.True(t, strings.HasPrefix(string(mutated), prefix), "%s at %s changed text before the site", instance.Operator, instance.Position)
		assert.True(t, strings.HasSuffix(string(mutated), suffix), "%s at %s changed text after the site", instance.Operator, instance.Position)

		_, err = syntax.Parse(string(mutated))
		assert.NoError(t, err, "%s at %s produced unreadable text", instance.Operator, instance.Position)
	}
}

func TestMutator_Apply_Errors(t *testing.T) {
	mutator := NewMutator(mutagens.Default())
	text := []byte("(+ a b)")

	_, err := mutator.Apply(text, m.Position{Row: 1, Col: 1}, "no-such-operator")
	require.ErrorIs(t, err, ErrUnknownOperator)

	_, err = mutator.Apply(text, m.Position{Row: 4, Col: 1}, "arith-add-sub")
	require.ErrorIs(t, err, ErrSiteNotFound)

	_, err = mutator.Apply(text, m.Position{}, "arith-add-sub")
	require.ErrorIs(t, err, ErrSiteNotFound)

	_, err = mutator.Apply(text, m.Position{Row: 1, Col: 1}, "cmp-lt-lte")
	require.ErrorIs(t, err, ErrSiteNotFound)

	_, err = mutator.Apply([]byte("(+ a b"), m.Position{Row: 1, Col: 1}, "arith-add-sub")

	var syntaxErr *syntax.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestMutator_Apply_TransformFailures(t *testing.T) {
	always := func(*syntax.Node) bool { return true }

	registry, err := mutagens.NewRegistry([]mutagens.Operator{
		{ID: "panics", Predicate: always, Transform: func(*syntax.Node) (*syntax.Node, error) { panic("boom") }},
		{ID: "fails", Predicate: always, Transform: func(*syntax.Node) (*syntax.Node, error) { return nil, errors.New("nope") }},
		{ID: "empty", Predicate: always, Transform: func(*syntax.Node) (*syntax.Node, error) { return nil, nil }},
	}, nil)
	require.NoError(t, err)

	mutator := NewMutator(registry)

	for _, id := range []m.OperatorID{"panics", "fails", "empty"} {
		_, err := mutator.Apply([]byte("(f x)"), m.Position{Row: 1, Col: 1}, id)
		require.ErrorIs(t, err, ErrTransformFailed, "operator %s", id)
	}
}

func TestDiff(t *testing.T) {
	diff := Diff("src/app/core.clj", []byte("(ns app.core)\n(+ a b)\n"), []byte("(ns app.core)\n(- a b)\n"))

	assert.Contains(t, diff, "--- src/app/core.clj")
	assert.Contains(t, diff, "+++ src/app/core.clj (mutated)")
	assert.Contains(t, diff, "-(+ a b)")
	assert.Contains(t, diff, "+(- a b)")

	assert.Empty(t, Diff("same.clj", []byte("x\n"), []byte("x\n")))
}
