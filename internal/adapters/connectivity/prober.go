package connectivity

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ahoin001/Soma-sub005/pkg/log"
)

// Prober determines connectivity by periodically issuing a HEAD request
// against a probe URL. Any HTTP response, including an error status, means
// the network path is up; only transport failures count as offline.
type Prober struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   log.Logger

	mu      sync.Mutex
	online  bool
	events  chan bool
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

// NewProber creates a Prober. It starts in the offline state until the
// first successful probe.
func NewProber(url string, interval time.Duration, client *http.Client, logger log.Logger) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Prober{
		url:      url,
		interval: interval,
		client:   client,
		logger:   logger,
		events:   make(chan bool, 16),
	}
}

// Start begins probing in the background. A no-op after Stop: the
// events channel is closed then, and a revived loop would publish into
// it.
func (p *Prober) Start(ctx context.Context) {
	probeCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	if p.stopped || p.cancel != nil {
		p.mu.Unlock()
		cancel()
		return
	}
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop(probeCtx)
}

// Stop halts probing and closes the events channel. Safe to call more
// than once; only the first call closes the channel.
func (p *Prober) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	alreadyStopped := p.stopped
	p.stopped = true
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	if !alreadyStopped {
		close(p.events)
	}
}

// Online returns the state observed by the most recent probe.
func (p *Prober) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Events delivers the new state on each transition.
func (p *Prober) Events() <-chan bool {
	return p.events
}

func (p *Prober) loop(ctx context.Context) {
	defer p.wg.Done()

	p.update(p.probe(ctx))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.update(p.probe(ctx))
		}
	}
}

func (p *Prober) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		p.logger.Error("build probe request", log.Err(err))
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

func (p *Prober) update(online bool) {
	p.mu.Lock()
	changed := p.online != online
	p.online = online
	p.mu.Unlock()

	if !changed {
		return
	}
	p.logger.Info("connectivity changed", log.Bool("online", online))

	select {
	case p.events <- online:
	default:
	}
}
