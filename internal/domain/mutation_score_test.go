package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "gooze.dev/pkg/clooze/internal/model"
)

func statuses(values ...m.TestStatus) []m.Result {
	results := make([]m.Result, 0, len(values))
	for i, status := range values {
		results = append(results, m.Result{Index: i, Status: status})
	}

	return results
}

func TestMutationScore(t *testing.T) {
	tests := []struct {
		name    string
		results []m.Result
		want    float64
	}{
		{"no results", nil, 100.0},
		{"three killed one survived", statuses(m.Killed, m.Killed, m.Killed, m.Survived), 75.0},
		{"timeouts count as detected", statuses(m.Killed, m.TimedOut, m.Survived, m.Survived), 50.0},
		{"errored stays in the denominator", statuses(m.Killed, m.Errored), 50.0},
		{"all survived", statuses(m.Survived, m.Survived), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MutationScore(tt.results), 1e-9)
		})
	}
}
