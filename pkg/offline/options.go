package offline

import (
	"github.com/ahoin001/Soma-sub005/internal/ports"
	"github.com/ahoin001/Soma-sub005/pkg/log"
)

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	logger   log.Logger
	observer Observer
	monitor  ports.ConnectivityMonitor
	store    ports.MutationStore
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets a handler for sync events: run completion, progress,
// and pending-count updates. Callbacks run synchronously on the replay
// goroutine.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithMonitor injects a connectivity monitor, replacing the built-in HTTP
// prober. Host applications that receive connectivity signals from their
// environment use this to bridge them in.
func WithMonitor(monitor ports.ConnectivityMonitor) Option {
	return func(o *options) {
		o.monitor = monitor
	}
}

// WithStore injects a mutation store, replacing the built-in SQLite store.
func WithStore(store ports.MutationStore) Option {
	return func(o *options) {
		o.store = store
	}
}
