package domain

import (
	m "gooze.dev/pkg/clooze/internal/model"
)

// MutationScore returns 100 * (killed + timed-out) / total. Errored results
// count towards the total. No results scores 100.
func MutationScore(results []m.Result) float64 {
	detected := 0

	for _, result := range results {
		switch result.Status {
		case m.Killed, m.TimedOut:
			detected++
		case m.Survived, m.Errored:
		}
	}

	if len(results) == 0 {
		return 100.0
	}

	return 100 * float64(detected) / float64(len(results))
}
