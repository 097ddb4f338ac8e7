package ports

import (
	"context"
	"encoding/json"

	"github.com/ahoin001/Soma-sub005/internal/domain"
)

// MutationStore is the durable log of pending mutations. It must survive
// process restarts; a record exists in the store exactly until it has been
// successfully replayed.
//
// There is no cross-process mutual exclusion on the store. Two processes
// sharing one store can race to replay the same record; this is accepted
// because handlers are required to be idempotent.
type MutationStore interface {
	// Append persists a new pending mutation and returns its generated id.
	// An error means the write is not durable and must be surfaced to the
	// caller, never swallowed.
	Append(ctx context.Context, kind domain.Kind, payload json.RawMessage) (string, error)

	// ListAll returns every pending mutation ordered ascending by creation
	// time. Global ordering is best-effort; ordering between two mutations
	// of the same kind is guaranteed.
	ListAll(ctx context.Context) ([]domain.PendingMutation, error)

	// Remove deletes a record by id. Removing an absent id is not an error.
	Remove(ctx context.Context, id string) error

	// Count returns the number of pending mutations.
	Count(ctx context.Context) (int, error)

	// UpdateRetry increments a record's retry count and records the failure
	// message. The read-modify-write is atomic for the single record.
	UpdateRetry(ctx context.Context, id string, errMsg string) error

	// Clear removes every record.
	Clear(ctx context.Context) error
}
