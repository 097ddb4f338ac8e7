package offline

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ahoin001/Soma-sub005/internal/adapters/connectivity"
	"github.com/ahoin001/Soma-sub005/internal/adapters/sqlite"
	"github.com/ahoin001/Soma-sub005/internal/domain"
	"github.com/ahoin001/Soma-sub005/internal/ports"
	"github.com/ahoin001/Soma-sub005/internal/queue"
	"github.com/ahoin001/Soma-sub005/internal/replay"
	"github.com/ahoin001/Soma-sub005/pkg/log"
)

// ShutdownTimeout is the maximum time Stop waits for the replay loop.
const ShutdownTimeout = 30 * time.Second

// Client is the offline consistency layer, owned once per application
// instance and passed to whatever needs to enqueue writes or trigger
// replay. Use New to create one, RegisterHandler to bind replay handlers,
// then Start to begin connectivity-triggered replay.
type Client struct {
	cfg       Config
	logger    log.Logger
	observer  Observer
	store     ports.MutationStore
	db        *sql.DB // owned when the store was built from cfg.DBPath
	monitor   ports.ConnectivityMonitor
	prober    *connectivity.Prober // non-nil when the monitor is owned
	registry  *queue.Registry
	processor *queue.Processor
	executor  *queue.Executor
	replayer  *replay.Replayer

	mu      sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a Client with the given configuration. The instance is
// stopped; call Start to begin background replay.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.validate(o); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	c := &Client{
		cfg:      cfg,
		logger:   logger,
		observer: o.observer,
		store:    o.store,
		monitor:  o.monitor,
		registry: queue.NewRegistry(),
	}

	if c.store == nil {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		c.db = db
		c.store = sqlite.NewStore(db)
	}

	if c.monitor == nil {
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		c.prober = connectivity.NewProber(cfg.ProbeURL, cfg.ProbeInterval, httpClient, logger)
		c.monitor = c.prober
	}

	c.processor = queue.NewProcessor(c.store, c.registry, cfg.MaxRetries, logger)
	c.executor = queue.NewExecutor(c.store, c.monitor, logger)
	c.replayer = replay.NewReplayer(c.processor, c.monitor, c.observerBridge(), logger, replay.Config{
		PollInterval:   cfg.OfflinePollInterval,
		BackoffInitial: cfg.BackoffInitial,
		BackoffMax:     cfg.BackoffMax,
	})

	return c, nil
}

// RegisterHandler binds the replay handler for a mutation kind. Handlers
// must be idempotent; see ports.Handler. Register every kind before Start.
func (c *Client) RegisterHandler(kind Kind, handler ports.Handler) {
	c.registry.Register(kind, handler)
}

// Start begins connectivity monitoring and background replay.
// Returns ErrAlreadyRunning if the client is already started, and
// ErrClientClosed once Stop has been called: Stop releases the store and
// monitor, so the client is one-shot.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return domain.ErrClientClosed
	}
	if c.running {
		return domain.ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true

	if c.prober != nil {
		c.prober.Start(runCtx)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.replayer.Run(runCtx); err != nil && err != context.Canceled {
			c.logger.Error("replay loop exited", log.Err(err))
		}
	}()

	c.logger.Info("offline sync started")
	return nil
}

// Stop shuts down background replay, waiting up to ShutdownTimeout.
// Returns ErrNotRunning if the client is not started, ErrShutdownTimeout
// if the replay loop failed to exit in time. Stop is final: it closes
// the owned database and monitor, so the client cannot be started again.
func (c *Client) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return domain.ErrNotRunning
	}
	c.running = false
	c.stopped = true
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-time.After(ShutdownTimeout):
		err = domain.ErrShutdownTimeout
	}

	if c.prober != nil {
		c.prober.Stop()
	}
	if c.db != nil {
		if cerr := c.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	c.logger.Info("offline sync stopped")
	return err
}

// Execute runs fn immediately when online, falling back to the durable
// queue while offline or when fn fails with a Transient error. Any other
// fn error propagates unchanged. See queue.Executor for the exact
// contract.
func (c *Client) Execute(ctx context.Context, kind Kind, payload json.RawMessage, fn func(ctx context.Context) error) (queue.ExecResult, error) {
	return c.executor.ExecuteWithOfflineFallback(ctx, kind, payload, fn)
}

// Enqueue appends a mutation directly to the durable queue without an
// immediate attempt. Callers that already know the write failed use this.
func (c *Client) Enqueue(ctx context.Context, kind Kind, payload json.RawMessage) (string, error) {
	if !kind.Valid() {
		return "", domain.ErrUnknownKind
	}
	return c.store.Append(ctx, kind, payload)
}

// Process triggers one replay run immediately, regardless of connectivity
// transitions. Safe to call while the client is running: single-flight
// discipline makes an overlapping call a no-op.
func (c *Client) Process(ctx context.Context) (RunResult, error) {
	result, err := c.processor.Process(ctx, c.progress())
	if err != nil {
		return result, err
	}
	if c.observer != nil && result.Total() > 0 {
		c.observer.OnRunComplete(result)
	}
	return result, nil
}

// PendingCount reports the current queue depth.
func (c *Client) PendingCount(ctx context.Context) (int, error) {
	return c.processor.PendingCount(ctx)
}

// SetMaxRetries adjusts the retry ceiling at runtime, e.g. from a config
// reload.
func (c *Client) SetMaxRetries(n int) {
	c.processor.SetMaxRetries(n)
}

// Online reports the current connectivity state.
func (c *Client) Online() bool {
	return c.monitor.Online()
}

func (c *Client) progress() ports.ProgressFunc {
	if c.observer == nil {
		return nil
	}
	return c.observer.OnProgress
}

// observerBridge adapts the public Observer to the internal RunObserver
// port, keeping nil handling in one place.
func (c *Client) observerBridge() ports.RunObserver {
	if c.observer == nil {
		return nil
	}
	return runObserver{c.observer}
}

type runObserver struct {
	observer Observer
}

func (o runObserver) OnProgress(completed, total int)       { o.observer.OnProgress(completed, total) }
func (o runObserver) OnRunComplete(result domain.RunResult) { o.observer.OnRunComplete(result) }
func (o runObserver) OnPendingCount(count int)              { o.observer.OnPendingCount(count) }
