package ports

// ConnectivityMonitor reports whether the remote collaborator is reachable
// and notifies on transitions.
type ConnectivityMonitor interface {
	// Online returns the current connectivity state.
	Online() bool

	// Events delivers the new state on each transition. The channel is
	// closed when the monitor shuts down.
	Events() <-chan bool
}
