package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExponentialSchedule(t *testing.T) {
	t.Parallel()
	b := Exponential(time.Second)

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	for i, w := range want {
		if got := b(i); got != w {
			t.Fatalf("backoff(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()
	calls := 0
	err := Do(context.Background(), 3, Exponential(time.Millisecond), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttemptBudget(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("always fails")
	calls := 0
	err := Do(context.Background(), 3, Exponential(time.Millisecond), func(ctx context.Context) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want last attempt error", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want exactly 3", calls)
	}
}

func TestDoSingleAttemptNoWait(t *testing.T) {
	t.Parallel()
	calls := 0
	start := time.Now()
	err := Do(context.Background(), 1, Exponential(time.Hour), func(ctx context.Context) error {
		calls++
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("waited %v after final attempt, want no trailing backoff", elapsed)
	}
}

func TestDoCancelledDuringBackoff(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, 3, Exponential(time.Hour), func(ctx context.Context) error {
		calls++
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry after cancel)", calls)
	}
}

func TestDoRejectsZeroAttempts(t *testing.T) {
	t.Parallel()
	err := Do(context.Background(), 0, Exponential(time.Millisecond), func(ctx context.Context) error {
		t.Fatal("fn must not be called")
		return nil
	})
	if err == nil {
		t.Fatal("expected error for zero attempts")
	}
}
