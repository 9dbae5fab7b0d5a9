package domain

import (
	"fmt"
	"log/slog"

	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	"gooze.dev/pkg/clooze/internal/domain/syntax"
	m "gooze.dev/pkg/clooze/internal/model"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "spy"}

// DefaultSkipForms are call heads whose whole form is never mutated.
var DefaultSkipForms = defaultSkipForms()

func defaultSkipForms() []string {
	forms := []string{
		"comment", "ns",
		"println", "print", "prn", "pr", "printf",
		"pprint", "clojure.pprint/pprint", "tap>",
	}

	for _, alias := range []string{"log", "timbre"} {
		for _, level := range logLevels {
			forms = append(forms, alias+"/"+level, alias+"/"+level+"f")
		}
	}

	return forms
}

// docstringHeads are definition forms whose docstring is not mutated.
var docstringHeads = map[string]bool{
	"defn": true, "defn-": true, "defmacro": true, "defmulti": true,
}

// Scanner enumerates mutation sites with a fixed operator set.
type Scanner struct {
	operators []mutagens.Operator
	skipForms map[string]struct{}
}

// NewScanner builds a scanner over operators, in catalog order. Calls whose
// head is in skipForms are opaque.
func NewScanner(operators []mutagens.Operator, skipForms []string) *Scanner {
	skip := make(map[string]struct{}, 2*len(skipForms))
	for _, form := range skipForms {
		skip[form] = struct{}{}
		skip[mutagens.NormalizeSymbol(form)] = struct{}{}
	}

	return &Scanner{operators: operators, skipForms: skip}
}

// Operators returns the active operators.
func (s *Scanner) Operators() []mutagens.Operator {
	return s.operators
}

// Scan parses text and returns its mutation sites in pre-order.
func (s *Scanner) Scan(source m.Path, text []byte) ([]m.Site, error) {
	root, err := syntax.Parse(string(text))
	if err != nil {
		return nil, err
	}

	return s.ScanTree(source, root), nil
}

// ScanTree returns the mutation sites of an already parsed unit.
func (s *Scanner) ScanTree(source m.Path, root *syntax.Node) []m.Site {
	var sites []m.Site

	ignores := collectIgnores(root)
	opaque := make(map[*syntax.Node]struct{})
	suppressed := make(map[*syntax.Node]ignoreRule)

	syntax.Walk(root, func(n *syntax.Node, _ syntax.Path) bool {
		if _, ok := opaque[n]; ok || s.isOpaque(n) {
			return false
		}

		rule := suppressed[n]
		if !n.Pos.IsZero() {
			rule = rule.merge(ignores[n.Pos.Row])
		}

		if rule.all {
			return false
		}

		markOpaqueChildren(n, opaque)

		if len(rule.operators) > 0 {
			for _, child := range n.Children {
				suppressed[child] = rule
			}
		}

		if n.Pos.IsZero() {
			return true
		}

		var matched []m.OperatorID

		for _, op := range s.operators {
			if rule.ignores(op.ID) {
				continue
			}

			if predicateMatches(op, n) {
				matched = append(matched, op.ID)
			}
		}

		if len(matched) > 0 {
			sites = append(sites, m.Site{
				Position:  toPosition(n.Pos),
				Operators: matched,
				Original:  n.String(),
				Source:    source,
			})
		}

		return true
	})

	return sites
}

// isOpaque reports whether n and everything inside it is left alone:
// discarded forms, quoted data and calls to skip forms. Syntax-quote templates
// stay mutable.
func (s *Scanner) isOpaque(n *syntax.Node) bool {
	if n.Tag == syntax.TagDiscard || n.Tag == syntax.TagQuote {
		return true
	}

	head, ok := n.CallHead()
	if !ok {
		return false
	}

	if head == "quote" || head == "clojure.core/quote" {
		return true
	}

	if _, skip := s.skipForms[head]; skip {
		return true
	}

	_, skip := s.skipForms[mutagens.NormalizeSymbol(head)]

	return skip
}

// markOpaqueChildren records the docstring of definition forms and the
// metadata of ^ forms.
func markOpaqueChildren(n *syntax.Node, opaque map[*syntax.Node]struct{}) {
	if n.Tag == syntax.TagMeta {
		if forms := n.Forms(); len(forms) > 1 {
			opaque[forms[0]] = struct{}{}
		}

		return
	}

	head, ok := n.CallHead()
	if !ok {
		return
	}

	head = mutagens.NormalizeSymbol(head)
	forms := n.Forms()

	switch {
	case head == "def" && len(forms) == 4 && forms[2].Tag == syntax.TagString:
		opaque[forms[2]] = struct{}{}
	case head == "defprotocol" && len(forms) > 2 && forms[2].Tag == syntax.TagString:
		opaque[forms[2]] = struct{}{}
	case docstringHeads[head] && len(forms) > 3 && forms[2].Tag == syntax.TagString:
		opaque[forms[2]] = struct{}{}
	}
}

// predicateMatches evaluates a predicate, treating a panic as a non-match.
func predicateMatches(op mutagens.Operator, n *syntax.Node) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Operator predicate panicked", "operator", op.ID, "position", n.Pos.String(), "panic", fmt.Sprint(r))

			ok = false
		}
	}()

	return op.Predicate(n)
}

// Expand pairs every site with each of its operators. A site with N
// operators yields N instances, in site then operator order, indexed from
// start.
func Expand(sites []m.Site, namespace string, start int) []m.Instance {
	var instances []m.Instance

	for _, site := range sites {
		for _, id := range site.Operators {
			instances = append(instances, m.Instance{
				Index:     start + len(instances),
				Position:  site.Position,
				Operator:  id,
				Original:  site.Original,
				Source:    site.Source,
				Namespace: namespace,
			})
		}
	}

	return instances
}

func toPosition(p syntax.Position) m.Position {
	return m.Position{Row: p.Row, Col: p.Col}
}

func fromPosition(p m.Position) syntax.Position {
	return syntax.Position{Row: p.Row, Col: p.Col}
}
