package connectivity

import "sync"

// Manual is a ConnectivityMonitor driven by explicit SetOnline calls.
// Host applications that already receive connectivity signals from their
// environment bridge them through Manual; tests use it to script
// transitions.
type Manual struct {
	mu     sync.Mutex
	online bool
	events chan bool
}

// NewManual creates a Manual monitor with the given initial state.
func NewManual(online bool) *Manual {
	return &Manual{
		online: online,
		events: make(chan bool, 16),
	}
}

// Online returns the current connectivity state.
func (m *Manual) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline updates the state and emits an event on a transition.
// Repeated calls with the same state are no-ops.
func (m *Manual) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online == online {
		return
	}
	m.online = online

	select {
	case m.events <- online:
	default:
		// An observer this far behind will resynchronize via Online().
	}
}

// Events delivers the new state on each transition.
func (m *Manual) Events() <-chan bool {
	return m.events
}
