package model

import "fmt"

// OperatorID identifies a mutation operator in the catalog.
type OperatorID string

// Position is a 1-based (row, col) location in a source unit. The zero
// value means the position is unknown.
type Position struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// IsZero reports whether the position is unset.
func (p Position) IsZero() bool {
	return p.Row == 0 && p.Col == 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Site is a single location in a unit where one or more operators match.
type Site struct {
	Position  Position
	Operators []OperatorID // matching operators, in catalog order
	Original  string       // source text of the matched form
	Source    Path
}

// Instance is one site paired with one of its matching operators. It holds
// no tree reference so it can be applied against a freshly parsed unit.
type Instance struct {
	Index     int
	Position  Position
	Operator  OperatorID
	Original  string
	Source    Path
	Namespace string
}

// OperatorInfo describes a catalog operator for display purposes.
type OperatorInfo struct {
	ID          OperatorID
	Category    string
	Description string
	Presets     []string
}
