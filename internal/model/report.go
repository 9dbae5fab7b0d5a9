package model

import (
	"fmt"
	"time"
)

// TestStatus represents the outcome of testing one mutation instance.
type TestStatus int

const (
	// Killed indicates the mutation was detected by tests.
	Killed TestStatus = iota
	// Survived indicates the mutation was not detected by tests.
	Survived
	// TimedOut indicates the test run exceeded the mutation timeout.
	TimedOut
	// Errored indicates the execution environment failed for this mutation.
	Errored
)

var statusNames = map[TestStatus]string{
	Killed:   "killed",
	Survived: "survived",
	TimedOut: "timed-out",
	Errored:  "errored",
}

func (s TestStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s TestStatus) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown test status %d", int(s))
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TestStatus) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}

	return fmt.Errorf("unknown test status %q", string(text))
}

// Result is the classified outcome of one mutation instance.
type Result struct {
	Index      int           `yaml:"index"`
	Position   Position      `yaml:"position"`
	Operator   OperatorID    `yaml:"operator"`
	Source     Path          `yaml:"source"`
	Namespace  string        `yaml:"namespace"`
	Status     TestStatus    `yaml:"status"`
	Diagnostic string        `yaml:"diagnostic,omitempty"`
	Diff       string        `yaml:"diff,omitempty"`
	Duration   time.Duration `yaml:"duration"`
}

// TestOutcome is what a sandbox reports after running a unit's tests.
type TestOutcome struct {
	Tests      int
	Assertions int
	Failures   int
	Errors     int
	Output     string
}

// Passed reports whether no test failed or errored.
func (o TestOutcome) Passed() bool {
	return o.Failures == 0 && o.Errors == 0
}

// RunConfig is the resolved configuration of a mutation run.
type RunConfig struct {
	Preset         string        `yaml:"preset"`
	Operators      []OperatorID  `yaml:"operators"`
	Timeout        time.Duration `yaml:"timeout"`
	SkipEquivalent bool          `yaml:"skip_equivalent"`
	Threshold      float64       `yaml:"threshold"`
	DryRun         bool          `yaml:"dry_run"`
	Parallel       int           `yaml:"parallel"`
	SkipForms      []string      `yaml:"skip_forms"`
}

// Shard identifies which slice of the units a run covered.
type Shard struct {
	Index int `yaml:"index"`
	Total int `yaml:"total"`
}

// RunReport is the complete outcome of a mutation run handed to reporting.
type RunReport struct {
	Results []Result `yaml:"results"`
	Units   int      `yaml:"units"`
	Skipped int      `yaml:"skipped"`
	// UnitErrors describes the units that could not be scanned or tested.
	UnitErrors []string      `yaml:"unit_errors,omitempty"`
	Elapsed    time.Duration `yaml:"elapsed"`
	Score      float64       `yaml:"score"`
	Config     RunConfig     `yaml:"config"`
	Shard      Shard         `yaml:"shard"`
}

// Count returns how many results have the given status.
func (r RunReport) Count(status TestStatus) int {
	count := 0

	for _, result := range r.Results {
		if result.Status == status {
			count++
		}
	}

	return count
}
