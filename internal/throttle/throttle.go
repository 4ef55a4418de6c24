// Package throttle paces sequential sends so consecutive attempts start
// at least a configured interval apart.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttler enforces a minimum interval between consecutive sends. The
// orchestrator calls Wait between items only, so a batch of N sends
// incurs N-1 waits and no trailing delay.
type Throttler struct {
	limiter *rate.Limiter
}

// New returns a Throttler with the given minimum inter-send interval.
func New(interval time.Duration) *Throttler {
	l := rate.NewLimiter(rate.Every(interval), 1)
	// Drain the initial token: the limiter is created right before the
	// first send, so the first Wait must already hold for the interval.
	l.Allow()
	return &Throttler{limiter: l}
}

// Wait blocks until the interval since the previous Wait has elapsed,
// or the context is cancelled.
func (t *Throttler) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
