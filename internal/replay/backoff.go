package replay

import (
	"context"
	"math/rand"
	"time"
)

// Default backoff configuration values.
const (
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
)

// backoff implements exponential backoff with jitter for run retries.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	if initial <= 0 {
		initial = DefaultBackoffInitial
	}
	if max <= 0 {
		max = DefaultBackoffMax
	}
	return &backoff{initial: initial, max: max, current: initial}
}

// Sleep waits for the current backoff duration and increases it.
// Returns early with the context error if ctx is canceled.
func (b *backoff) Sleep(ctx context.Context) error {
	// ±20% jitter
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	sleep := time.Duration(float64(b.current) + jitter)

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}

	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Reset returns the backoff to its initial duration.
func (b *backoff) Reset() {
	b.current = b.initial
}
