package offline

import "github.com/ahoin001/Soma-sub005/internal/domain"

// Observer receives sync lifecycle callbacks. Implementations drive UI
// affordances: a pending-count badge, a "3 updates saved" toast.
type Observer interface {
	// OnProgress is called per record within a replay run.
	OnProgress(completed, total int)

	// OnRunComplete is called with the count triple after each run.
	// RunResult.Summary renders it in user-facing terms.
	OnRunComplete(result RunResult)

	// OnPendingCount is called whenever a fresh queue depth is known.
	OnPendingCount(count int)
}

// BaseObserver provides no-op defaults; embed it to implement only the
// callbacks you care about.
type BaseObserver struct{}

func (BaseObserver) OnProgress(completed, total int) {}
func (BaseObserver) OnRunComplete(result RunResult)  {}
func (BaseObserver) OnPendingCount(count int)        {}

// Re-exported domain types so embedders need only this package.
type (
	// Kind identifies a mutation type.
	Kind = domain.Kind

	// PendingMutation is a queued, not-yet-confirmed write.
	PendingMutation = domain.PendingMutation

	// RunResult is the count triple of a replay run.
	RunResult = domain.RunResult
)

// Mutation kinds.
const (
	KindAddFoodLog    = domain.KindAddFoodLog
	KindDeleteFoodLog = domain.KindDeleteFoodLog
	KindSetWaterTotal = domain.KindSetWaterTotal
	KindLogWeight     = domain.KindLogWeight
	KindSetGoal       = domain.KindSetGoal
)

// Errors re-exported for errors.Is checks.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrClientClosed    = domain.ErrClientClosed
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrUnknownKind     = domain.ErrUnknownKind
)

// Transient marks an executor error as a retryable network failure.
// Executors supplied to Execute wrap connection-level failures with it;
// unwrapped errors propagate to the caller instead of being queued.
var Transient = domain.Transient

// IsTransient reports whether an error chain carries a transient marker.
var IsTransient = domain.IsTransient
