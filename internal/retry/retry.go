// Package retry provides a bounded retry combinator shared by every
// external call that may fail transiently.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Backoff returns the wait duration before retrying after the given
// zero-based failed attempt.
type Backoff func(attempt int) time.Duration

// Exponential returns a backoff that doubles from base: base, 2*base,
// 4*base, ...
func Exponential(base time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return base << uint(attempt)
	}
}

// Do runs fn up to maxAttempts times, waiting backoff(i) between
// attempt i and i+1. It returns nil as soon as fn succeeds, the last
// error once the attempt budget is exhausted, and the context error if
// the context is cancelled during a wait.
func Do(ctx context.Context, maxAttempts int, backoff Backoff, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		return fmt.Errorf("retry: maxAttempts must be >= 1, got %d", maxAttempts)
	}
	var last error
	for i := 0; i < maxAttempts; i++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		last = err
		if i == maxAttempts-1 {
			break
		}
		if err := wait(ctx, backoff(i)); err != nil {
			return err
		}
	}
	return last
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	tmr := time.NewTimer(d)
	defer tmr.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-tmr.C:
		return nil
	}
}
