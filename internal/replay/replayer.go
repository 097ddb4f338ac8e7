package replay

import (
	"context"
	"time"

	"github.com/ahoin001/Soma-sub005/internal/ports"
	"github.com/ahoin001/Soma-sub005/internal/queue"
	"github.com/ahoin001/Soma-sub005/pkg/log"
)

// DefaultPollInterval is how often queue depth is reported while offline.
const DefaultPollInterval = 5 * time.Second

// Replayer bridges connectivity signals to the queue processor. On each
// offline-to-online transition with pending mutations it triggers exactly
// one replay run; while offline it polls queue depth so observers can keep
// a badge current without attempting pointless processing.
type Replayer struct {
	processor *queue.Processor
	monitor   ports.ConnectivityMonitor
	observer  ports.RunObserver
	logger    log.Logger

	pollInterval time.Duration
	backoff      *backoff
}

// Config carries Replayer tuning.
type Config struct {
	PollInterval   time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// NewReplayer creates a Replayer. observer may be nil.
func NewReplayer(processor *queue.Processor, monitor ports.ConnectivityMonitor, observer ports.RunObserver, logger log.Logger, cfg Config) *Replayer {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Replayer{
		processor:    processor,
		monitor:      monitor,
		observer:     observer,
		logger:       logger,
		pollInterval: cfg.PollInterval,
		backoff:      newBackoff(cfg.BackoffInitial, cfg.BackoffMax),
	}
}

// Run executes the replay loop until ctx is canceled or the monitor's
// event channel closes. Returns ctx.Err() on cancellation, nil on channel
// close.
func (r *Replayer) Run(ctx context.Context) error {
	// A queue populated while the process was down should drain on the
	// first sight of connectivity, so an initially-offline start counts
	// as having been offline.
	wasOffline := !r.monitor.Online()
	if wasOffline {
		r.reportPending(ctx)
	} else if n, err := r.pendingCount(ctx); err != nil {
		// Can't tell whether leftovers exist; keep the trigger armed so
		// a poll tick retries once the store recovers.
		wasOffline = true
	} else if n > 0 {
		wasOffline = !r.runOnce(ctx)
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case online, ok := <-r.monitor.Events():
			if !ok {
				return nil
			}
			if !online {
				wasOffline = true
				r.reportPending(ctx)
				continue
			}
			if wasOffline {
				n, err := r.pendingCount(ctx)
				if err != nil {
					// A store error must not drop the trigger; the
					// flag stays set so the poll tick retries.
					continue
				}
				if n == 0 {
					wasOffline = false
					continue
				}
				// Cleared only when the run actually happened; a store
				// failure leaves the flag set so the poll tick retries.
				wasOffline = !r.runOnce(ctx)
			}

		case <-ticker.C:
			if !r.monitor.Online() {
				r.reportPending(ctx)
				continue
			}
			if !wasOffline {
				continue
			}
			n, err := r.pendingCount(ctx)
			if err != nil {
				continue
			}
			if n == 0 {
				wasOffline = false
				continue
			}
			wasOffline = !r.runOnce(ctx)
		}
	}
}

// runOnce triggers a single replay run, reporting the outcome to the
// observer. Returns false when the run failed at the store level.
func (r *Replayer) runOnce(ctx context.Context) bool {
	r.logger.Info("connectivity restored, replaying queued mutations")

	result, err := r.processor.Process(ctx, r.progress())
	if err != nil {
		r.logger.Error("replay run failed", log.Err(err))
		if serr := r.backoff.Sleep(ctx); serr != nil {
			return false
		}
		return false
	}
	r.backoff.Reset()

	r.logger.Info("sync complete", log.String("summary", result.Summary()))
	if r.observer != nil {
		r.observer.OnRunComplete(result)
	}
	r.reportPending(ctx)
	return true
}

func (r *Replayer) progress() ports.ProgressFunc {
	if r.observer == nil {
		return nil
	}
	return r.observer.OnProgress
}

func (r *Replayer) pendingCount(ctx context.Context) (int, error) {
	n, err := r.processor.PendingCount(ctx)
	if err != nil {
		r.logger.Error("pending count failed", log.Err(err))
		return 0, err
	}
	return n, nil
}

// reportPending pushes the current queue depth to the observer. On a
// store error the observer's count is left stale rather than reset to a
// bogus zero.
func (r *Replayer) reportPending(ctx context.Context) {
	n, err := r.pendingCount(ctx)
	if err != nil {
		return
	}
	if r.observer != nil {
		r.observer.OnPendingCount(n)
	}
}
