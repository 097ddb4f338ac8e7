// Package replay runs the connectivity-triggered replay loop: it watches
// the connectivity monitor and drives the queue processor when the
// application comes back online.
package replay
