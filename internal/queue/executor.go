package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ahoin001/Soma-sub005/internal/domain"
	"github.com/ahoin001/Soma-sub005/internal/ports"
	"github.com/ahoin001/Soma-sub005/pkg/log"
)

// ExecResult reports how a network-aware execution ended.
type ExecResult struct {
	// Success is true when the executor ran and succeeded immediately.
	Success bool

	// Queued is true when the mutation was enqueued for later replay.
	Queued bool

	// QueuedID is the pending-mutation id when Queued is true.
	QueuedID string
}

// Executor is the network-aware execution wrapper: it attempts a write
// immediately when online and falls back to the durable queue on network
// failure or while offline.
type Executor struct {
	store   ports.MutationStore
	monitor ports.ConnectivityMonitor
	logger  log.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(store ports.MutationStore, monitor ports.ConnectivityMonitor, logger log.Logger) *Executor {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Executor{store: store, monitor: monitor, logger: logger}
}

// ExecuteWithOfflineFallback runs fn if currently online. While offline it
// enqueues without attempting fn. A fn failure classified transient via
// domain.IsTransient converts into an enqueue; any other failure
// propagates unchanged so the caller can surface it exactly once.
//
// An enqueue that itself fails returns an error: the write is not durable
// and must not be reported as saved.
func (e *Executor) ExecuteWithOfflineFallback(ctx context.Context, kind domain.Kind, payload json.RawMessage, fn func(ctx context.Context) error) (ExecResult, error) {
	if !kind.Valid() {
		return ExecResult{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	if !e.monitor.Online() {
		return e.enqueue(ctx, kind, payload)
	}

	err := fn(ctx)
	if err == nil {
		return ExecResult{Success: true}, nil
	}
	if !domain.IsTransient(err) {
		return ExecResult{}, err
	}

	e.logger.Info("network failure, queueing mutation",
		log.String("kind", string(kind)),
		log.Err(err),
	)
	return e.enqueue(ctx, kind, payload)
}

func (e *Executor) enqueue(ctx context.Context, kind domain.Kind, payload json.RawMessage) (ExecResult, error) {
	id, err := e.store.Append(ctx, kind, payload)
	if err != nil {
		return ExecResult{}, fmt.Errorf("queue mutation %s: %w", kind, err)
	}
	e.logger.Debug("mutation queued", log.String("kind", string(kind)), log.String("id", id))
	return ExecResult{Queued: true, QueuedID: id}, nil
}
