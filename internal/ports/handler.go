package ports

import (
	"context"
	"encoding/json"
)

// Handler executes one mutation against the remote collaborator during
// replay. The payload is the exact bytes stored at enqueue time.
//
// Handlers must be idempotent: delivery is at-least-once (a handler can
// succeed remotely while the process crashes before the record is removed),
// so re-invoking with the same payload must not double-apply the effect.
//
// A network-level failure should be wrapped with domain.Transient so the
// immediate-execution path can classify it; during replay any returned
// error counts as a failed attempt regardless of classification.
type Handler func(ctx context.Context, payload json.RawMessage) error
