package cliconfig

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ahoin001/Soma-sub005/pkg/log"
)

const defaultDebounceDelay = 100 * time.Millisecond

// Watcher monitors the config file and invokes a callback with the
// re-parsed FileConfig after each change, debounced so editors that write
// in several steps trigger a single reload. A long-running agent uses it
// to pick up tunable settings without a restart.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(FileConfig)
	logger   log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	timer  *time.Timer
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onChange func(FileConfig), logger log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		path:     path,
		debounce: defaultDebounceDelay,
		onChange: onChange,
		logger:   logger,
	}
}

// Start begins watching in the background. Returns an error if the
// underlying filesystem watcher cannot be created.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: editors replace files by rename, which drops a
	// watch set on the file itself.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.cancel = cancel
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(watchCtx, watcher)
	return nil
}

// Stop halts watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watch error", log.Err(err))
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	fc, err := LoadFileConfig(w.path)
	if err != nil {
		w.logger.Error("reload config", log.Err(err))
		return
	}
	w.logger.Info("config file changed", log.String("path", w.path))
	w.onChange(fc)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
