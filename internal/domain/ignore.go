package domain

import (
	"strings"

	"gooze.dev/pkg/clooze/internal/domain/syntax"
	m "gooze.dev/pkg/clooze/internal/model"
)

// IgnoreDirective is the comment marker that suppresses mutations. On its
// own it suppresses every operator; followed by ids it suppresses only those:
//
//	;; clooze:ignore
//	;; clooze:ignore arith-add-sub cmp-lt-lte
//
// A directive on a line of its own applies to forms starting on its line or
// on the next one. A directive after code applies to forms starting on its
// line only. Either way it covers everything inside those forms.
const IgnoreDirective = "clooze:ignore"

type ignoreRule struct {
	all       bool
	operators map[m.OperatorID]struct{}
}

func (r ignoreRule) ignores(id m.OperatorID) bool {
	if r.all {
		return true
	}

	_, ok := r.operators[id]

	return ok
}

func (r ignoreRule) merge(other ignoreRule) ignoreRule {
	if r.all || other.all {
		return ignoreRule{all: true}
	}

	if len(other.operators) == 0 {
		return r
	}

	if len(r.operators) == 0 {
		return other
	}

	merged := ignoreRule{operators: make(map[m.OperatorID]struct{}, len(r.operators)+len(other.operators))}
	for id := range r.operators {
		merged.operators[id] = struct{}{}
	}

	for id := range other.operators {
		merged.operators[id] = struct{}{}
	}

	return merged
}

// collectIgnores indexes the ignore directives of a tree by the rows they
// cover.
func collectIgnores(root *syntax.Node) map[int]ignoreRule {
	rules := make(map[int]ignoreRule)
	codeRow := 0

	var visit func(n *syntax.Node)
	visit = func(n *syntax.Node) {
		switch {
		case n.Tag == syntax.TagComment:
			if rule, ok := parseIgnore(n.Value); ok && !n.Pos.IsZero() {
				rules[n.Pos.Row] = rules[n.Pos.Row].merge(rule)
				if codeRow != n.Pos.Row {
					rules[n.Pos.Row+1] = rules[n.Pos.Row+1].merge(rule)
				}
			}

			return
		case n.Tag == syntax.TagWhitespace || n.Pos.IsZero():
		case len(n.Children) == 0:
			codeRow = n.Pos.Row + strings.Count(n.Value, "\n")
		case n.Tag != syntax.TagForms:
			codeRow = n.Pos.Row
		}

		for _, child := range n.Children {
			visit(child)
		}
	}

	visit(root)

	return rules
}

func parseIgnore(comment string) (ignoreRule, bool) {
	text := strings.TrimLeft(comment, ";#! \t")

	rest, ok := strings.CutPrefix(text, IgnoreDirective)
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return ignoreRule{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ignoreRule{all: true}, true
	}

	rule := ignoreRule{operators: make(map[m.OperatorID]struct{}, len(fields))}
	for _, field := range fields {
		rule.operators[m.OperatorID(strings.TrimSuffix(field, ","))] = struct{}{}
	}

	return rule, true
}
