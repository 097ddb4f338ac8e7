package queue

import (
	"context"
	"sync/atomic"

	"github.com/ahoin001/Soma-sub005/internal/domain"
	"github.com/ahoin001/Soma-sub005/internal/ports"
	"github.com/ahoin001/Soma-sub005/pkg/log"
)

// DefaultMaxRetries is the retry ceiling applied when none is configured.
const DefaultMaxRetries = 3

// Processor drains the pending-mutation log in order, dispatching each
// record to its registered handler.
//
// A single atomic flag enforces single-flight execution within the
// process: a Process call while a run is in flight is a no-op. Mutations
// appended during a run are not guaranteed to be included in it. The flag
// provides no cross-process exclusion; that is accepted because handlers
// are idempotent.
type Processor struct {
	store      ports.MutationStore
	registry   *Registry
	maxRetries atomic.Int32
	logger     log.Logger
	processing atomic.Bool
}

// NewProcessor creates a processor. maxRetries <= 0 selects
// DefaultMaxRetries.
func NewProcessor(store ports.MutationStore, registry *Registry, maxRetries int, logger log.Logger) *Processor {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	p := &Processor{
		store:    store,
		registry: registry,
		logger:   logger,
	}
	p.maxRetries.Store(int32(maxRetries))
	return p
}

// MaxRetries returns the current retry ceiling.
func (p *Processor) MaxRetries() int {
	return int(p.maxRetries.Load())
}

// SetMaxRetries adjusts the retry ceiling at runtime. Records already at
// or past the new ceiling are skipped on the next run.
func (p *Processor) SetMaxRetries(n int) {
	if n > 0 {
		p.maxRetries.Store(int32(n))
	}
}

// PendingCount reports the current queue depth.
func (p *Processor) PendingCount(ctx context.Context) (int, error) {
	return p.store.Count(ctx)
}

// Process executes one replay run and returns the count triple.
//
// Per-record outcomes never abort the run; only a failure of the store
// itself returns a non-nil error, in which case the caller should retry
// the whole run later. A concurrent call during an in-flight run returns
// a zero result and nil error without touching the store.
func (p *Processor) Process(ctx context.Context, progress ports.ProgressFunc) (domain.RunResult, error) {
	if !p.processing.CompareAndSwap(false, true) {
		p.logger.Debug("replay already in flight, skipping")
		return domain.RunResult{}, nil
	}
	defer p.processing.Store(false)

	records, err := p.store.ListAll(ctx)
	if err != nil {
		return domain.RunResult{}, err
	}
	if len(records) == 0 {
		return domain.RunResult{}, nil
	}

	maxRetries := int(p.maxRetries.Load())
	total := len(records)
	var result domain.RunResult

	for i, rec := range records {
		p.step(ctx, rec, maxRetries, &result)
		if progress != nil {
			progress(i+1, total)
		}
	}

	p.logger.Info("replay run complete",
		log.Int("processed", result.Processed),
		log.Int("failed", result.Failed),
		log.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (p *Processor) step(ctx context.Context, rec domain.PendingMutation, maxRetries int, result *domain.RunResult) {
	if rec.RetryCount >= maxRetries {
		// Left in the store so it stays visible; purging is an explicit
		// operator action, never automatic.
		p.logger.Warn("mutation at retry ceiling, skipping",
			log.String("id", rec.ID),
			log.String("kind", string(rec.Kind)),
			log.Int("retries", rec.RetryCount),
			log.String("last_error", rec.LastError),
		)
		result.Skipped++
		return
	}

	handler, ok := p.registry.Lookup(rec.Kind)
	if !ok {
		p.logger.Error("no handler registered for kind, skipping",
			log.String("id", rec.ID),
			log.String("kind", string(rec.Kind)),
		)
		result.Skipped++
		return
	}

	if err := handler(ctx, rec.Payload); err != nil {
		p.logger.Warn("mutation replay failed",
			log.String("id", rec.ID),
			log.String("kind", string(rec.Kind)),
			log.Err(err),
		)
		if uerr := p.store.UpdateRetry(ctx, rec.ID, err.Error()); uerr != nil {
			p.logger.Error("failed to record retry", log.String("id", rec.ID), log.Err(uerr))
		}
		result.Failed++
		return
	}

	if err := p.store.Remove(ctx, rec.ID); err != nil {
		// The handler succeeded but the record stays; the next run will
		// re-deliver, which idempotent handlers absorb.
		p.logger.Error("failed to remove replayed mutation", log.String("id", rec.ID), log.Err(err))
		result.Failed++
		return
	}

	p.logger.Debug("mutation replayed",
		log.String("id", rec.ID),
		log.String("kind", string(rec.Kind)),
	)
	result.Processed++
}
