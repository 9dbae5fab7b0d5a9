package domain

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	"gooze.dev/pkg/clooze/internal/domain/syntax"
	m "gooze.dev/pkg/clooze/internal/model"
)

// Mutator applies a single mutation instance to unit text.
type Mutator interface {
	// Apply re-parses text, locates the node at pos and returns the text with
	// only that node replaced by the operator's transform.
	Apply(text []byte, pos m.Position, operator m.OperatorID) ([]byte, error)
}

type mutator struct {
	registry *mutagens.Registry
}

// NewMutator constructs a Mutator resolving operators through registry.
func NewMutator(registry *mutagens.Registry) Mutator {
	return &mutator{registry: registry}
}

func (mu *mutator) Apply(text []byte, pos m.Position, operator m.OperatorID) ([]byte, error) {
	op, ok := mu.registry.ByID(operator)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, operator)
	}

	root, err := syntax.Parse(string(text))
	if err != nil {
		return nil, err
	}

	node, path, ok := syntax.Locate(root, fromPosition(pos))
	if !ok {
		return nil, fmt.Errorf("%w: no form at %s", ErrSiteNotFound, pos)
	}

	if !predicateMatches(op, node) {
		return nil, fmt.Errorf("%w: %s does not apply at %s", ErrSiteNotFound, operator, pos)
	}

	replacement, err := transform(op, node)
	if err != nil {
		return nil, err
	}

	mutated, err := syntax.Replace(root, path, replacement)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransformFailed, err)
	}

	return []byte(mutated.String()), nil
}

func transform(op mutagens.Operator, n *syntax.Node) (replacement *syntax.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			replacement = nil
			err = fmt.Errorf("%w: %s panicked: %v", ErrTransformFailed, op.ID, r)
		}
	}()

	replacement, err = op.Transform(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransformFailed, op.ID, err)
	}

	if replacement == nil {
		return nil, fmt.Errorf("%w: %s returned no node", ErrTransformFailed, op.ID)
	}

	return replacement, nil
}

// Diff renders a unified diff between the original and mutated unit text.
func Diff(name string, original, mutated []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(mutated)),
		FromFile: name,
		ToFile:   name + " (mutated)",
		Context:  2,
	})
	if err != nil {
		return ""
	}

	return diff
}
