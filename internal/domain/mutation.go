package domain

import (
	"encoding/json"
	"time"
)

// Kind identifies which handler processes a queued mutation.
// The set is closed; handlers are registered per kind at startup.
type Kind string

const (
	// KindAddFoodLog appends a food log entry for a day.
	KindAddFoodLog Kind = "food_log.add"

	// KindDeleteFoodLog removes a previously logged food entry.
	KindDeleteFoodLog Kind = "food_log.delete"

	// KindSetWaterTotal sets the water total for a day (last write wins).
	KindSetWaterTotal Kind = "water.set_total"

	// KindLogWeight records a weight entry.
	KindLogWeight Kind = "weight.log"

	// KindSetGoal sets a goal value (last write wins).
	KindSetGoal Kind = "goal.set"
)

// Kinds returns all known mutation kinds.
func Kinds() []Kind {
	return []Kind{
		KindAddFoodLog,
		KindDeleteFoodLog,
		KindSetWaterTotal,
		KindLogWeight,
		KindSetGoal,
	}
}

// Valid reports whether k is a known mutation kind.
func (k Kind) Valid() bool {
	switch k {
	case KindAddFoodLog, KindDeleteFoodLog, KindSetWaterTotal, KindLogWeight, KindSetGoal:
		return true
	default:
		return false
	}
}

// PendingMutation is a durable record of a write that has not yet been
// confirmed against the remote source of truth. The payload is opaque to
// the queue; only the registered handler for Kind interprets it.
type PendingMutation struct {
	// ID is the store's primary key, generated at enqueue time.
	ID string

	// Kind selects the handler that replays this mutation.
	Kind Kind

	// Payload is the kind-specific body, stored and replayed verbatim.
	Payload json.RawMessage

	// CreatedAt orders replay. Per-kind FIFO is guaranteed.
	CreatedAt time.Time

	// RetryCount is incremented on each failed replay attempt.
	RetryCount int

	// LastError holds the most recent failure message, empty until the
	// first failure.
	LastError string
}
