package ports

import "github.com/ahoin001/Soma-sub005/internal/domain"

// RunObserver receives progress and completion callbacks from replay runs.
// Callbacks are invoked synchronously from the replay goroutine and must
// not block.
type RunObserver interface {
	// OnProgress is called after each record of a run with the number of
	// records classified so far and the run's total.
	OnProgress(completed, total int)

	// OnRunComplete is called with the count triple after each run.
	OnRunComplete(result domain.RunResult)

	// OnPendingCount is called whenever a fresh queue depth is known, both
	// after runs and on the offline poll tick.
	OnPendingCount(count int)
}

// ProgressFunc reports per-record progress within a single run.
type ProgressFunc func(completed, total int)
