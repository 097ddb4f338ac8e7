package queue

import (
	"sort"
	"sync"

	"github.com/ahoin001/Soma-sub005/internal/domain"
	"github.com/ahoin001/Soma-sub005/internal/ports"
)

// Registry maps mutation kinds to their replay handlers. It is a flat
// table; a kind with no entry is a configuration error that the processor
// classifies as skipped rather than surfacing to callers, so a stored log
// from a newer or older build never wedges replay.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.Kind]ports.Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[domain.Kind]ports.Handler)}
}

// Register binds a handler to a kind, replacing any previous binding.
func (r *Registry) Register(kind domain.Kind, handler ports.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = handler
}

// Lookup returns the handler for kind, if any.
func (r *Registry) Lookup(kind domain.Kind) (ports.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []domain.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.Kind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
