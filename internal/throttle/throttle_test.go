package throttle

import (
	"context"
	"testing"
	"time"
)

func TestWaitEnforcesInterval(t *testing.T) {
	t.Parallel()
	const interval = 20 * time.Millisecond
	th := New(interval)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := th.Wait(context.Background()); err != nil {
			t.Fatalf("Wait error: %v", err)
		}
	}
	// Even the first Wait holds for the interval: the throttler is
	// created at the moment of the first send.
	if elapsed := time.Since(start); elapsed < 3*interval-interval/2 {
		t.Fatalf("3 waits took %v, want at least ~%v", elapsed, 3*interval)
	}
}

func TestWaitHonorsCancellation(t *testing.T) {
	t.Parallel()
	th := New(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := th.Wait(ctx); err == nil {
		t.Fatal("expected error from cancelled wait")
	}
}
