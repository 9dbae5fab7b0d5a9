package mutagens

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	m "gooze.dev/pkg/clooze/internal/model"
)

// Preset names.
const (
	PresetMinimal       = "minimal"
	PresetFast          = "fast"
	PresetStandard      = "standard"
	PresetComprehensive = "comprehensive"
)

var (
	// ErrUnknownOperator is returned for operator ids missing from the catalog.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrUnknownPreset is returned for preset names that are not defined.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrDuplicateOperator is returned when a catalog repeats an id.
	ErrDuplicateOperator = errors.New("duplicate operator id")
)

// minimalPreset lists the highest-signal operators for quick feedback.
var minimalPreset = []m.OperatorID{
	"arith-add-sub",
	"arith-sub-add",
	"arith-inc-dec",
	"cmp-lt-lte",
	"cmp-gt-gte",
	"cmp-eq-neq",
	"logic-and-or",
	"logic-or-and",
	"logic-remove-not",
	"cond-if-ifnot",
	"cond-when-whennot",
	"const-true-false",
	"const-false-true",
	"coll-first-last",
	"coll-empty-seq",
	"nil-isnil-issome",
}

// Registry is an ordered operator catalog with named presets.
type Registry struct {
	operators []Operator
	index     map[m.OperatorID]int
	presets   map[string][]m.OperatorID
	names     []string
}

// NewRegistry builds a registry over operators. Every preset id must exist
// in the catalog.
func NewRegistry(operators []Operator, presets map[string][]m.OperatorID) (*Registry, error) {
	r := &Registry{
		operators: operators,
		index:     make(map[m.OperatorID]int, len(operators)),
		presets:   make(map[string][]m.OperatorID, len(presets)),
	}

	for i, op := range operators {
		if _, exists := r.index[op.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOperator, op.ID)
		}

		r.index[op.ID] = i
	}

	for name, ids := range presets {
		for _, id := range ids {
			if _, ok := r.index[id]; !ok {
				return nil, fmt.Errorf("preset %s: %w: %s", name, ErrUnknownOperator, id)
			}
		}

		r.presets[name] = ids
		r.names = append(r.names, name)
	}

	slices.Sort(r.names)

	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the built-in catalog.
func Default() *Registry {
	defaultOnce.Do(func() {
		ops := Catalog()

		all := make([]m.OperatorID, 0, len(ops))
		for _, op := range ops {
			all = append(all, op.ID)
		}

		registry, err := NewRegistry(ops, map[string][]m.OperatorID{
			PresetMinimal:       minimalPreset,
			PresetFast:          minimalPreset,
			PresetStandard:      all,
			PresetComprehensive: all,
		})
		if err != nil {
			panic(err)
		}

		defaultRegistry = registry
	})

	return defaultRegistry
}

// Catalog returns a fresh copy of every built-in operator in catalog order.
func Catalog() []Operator {
	var ops []Operator

	ops = append(ops, arithmeticOperators()...)
	ops = append(ops, comparisonOperators()...)
	ops = append(ops, logicalOperators()...)
	ops = append(ops, conditionalOperators()...)
	ops = append(ops, constantOperators()...)
	ops = append(ops, collectionOperators()...)
	ops = append(ops, nilOperators()...)
	ops = append(ops, callOperators()...)

	return ops
}

// All returns the catalog in order.
func (r *Registry) All() []Operator {
	return slices.Clone(r.operators)
}

// Categories returns the distinct categories in catalog order.
func (r *Registry) Categories() []Category {
	var categories []Category

	for _, op := range r.operators {
		if !slices.Contains(categories, op.Category) {
			categories = append(categories, op.Category)
		}
	}

	return categories
}

// Presets returns the defined preset names, sorted.
func (r *Registry) Presets() []string {
	return slices.Clone(r.names)
}

// Preset returns the operator ids selected by a preset.
func (r *Registry) Preset(name string) ([]m.OperatorID, bool) {
	ids, ok := r.presets[name]
	if !ok {
		return nil, false
	}

	return slices.Clone(ids), true
}

// ByID looks up a single operator.
func (r *Registry) ByID(id m.OperatorID) (Operator, bool) {
	i, ok := r.index[id]
	if !ok {
		return Operator{}, false
	}

	return r.operators[i], true
}

// OperatorsFor filters the catalog to ids, keeping catalog order. Unknown
// ids are ignored.
func (r *Registry) OperatorsFor(ids []m.OperatorID) []Operator {
	var ops []Operator

	for _, op := range r.operators {
		if slices.Contains(ids, op.ID) {
			ops = append(ops, op)
		}
	}

	return ops
}

// Resolve selects the active operators for a run. Explicit ids take
// precedence over the preset; an empty preset means standard.
func (r *Registry) Resolve(preset string, ids []m.OperatorID) ([]Operator, error) {
	if len(ids) > 0 {
		for _, id := range ids {
			if _, ok := r.index[id]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, id)
			}
		}

		return r.OperatorsFor(ids), nil
	}

	if preset == "" {
		preset = PresetStandard
	}

	selected, ok := r.presets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, preset)
	}

	return r.OperatorsFor(selected), nil
}

// Info describes every operator, listing the presets that include it.
// Aliases sharing another preset's selection are not listed.
func (r *Registry) Info() []m.OperatorInfo {
	infos := make([]m.OperatorInfo, 0, len(r.operators))

	for _, op := range r.operators {
		info := m.OperatorInfo{
			ID:          op.ID,
			Category:    string(op.Category),
			Description: op.Description,
		}

		for _, name := range r.names {
			if name == PresetFast {
				continue
			}

			if slices.Contains(r.presets[name], op.ID) {
				info.Presets = append(info.Presets, name)
			}
		}

		infos = append(infos, info)
	}

	return infos
}
