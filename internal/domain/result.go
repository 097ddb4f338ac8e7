package domain

import (
	"fmt"
	"strings"
)

// RunResult summarizes one replay run over the pending log.
// A run never fails partway; every record is classified into exactly one
// of the three buckets.
type RunResult struct {
	// Processed counts records whose handler succeeded; they were removed
	// from the store.
	Processed int

	// Failed counts records whose handler returned an error; their retry
	// count was incremented and they remain for the next run.
	Failed int

	// Skipped counts records at the retry ceiling or with no registered
	// handler. They stay in the store for diagnosis and are never retried.
	Skipped int
}

// Total returns the number of records the run classified.
func (r RunResult) Total() int {
	return r.Processed + r.Failed + r.Skipped
}

// Summary renders the result in user-facing terms. Failed records are
// described as pending retry, since retry is still possible up to the
// ceiling.
func (r RunResult) Summary() string {
	if r.Total() == 0 {
		return "nothing to sync"
	}
	var parts []string
	if r.Processed > 0 {
		parts = append(parts, fmt.Sprintf("%d %s saved", r.Processed, plural(r.Processed, "update", "updates")))
	}
	if r.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d will retry", r.Failed))
	}
	if r.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", r.Skipped))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
