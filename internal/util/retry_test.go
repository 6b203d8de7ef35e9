// ABOUTME: Tests for provider retry helpers
// ABOUTME: Validates backoff bounds, jitter range, and context-aware waiting
package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff_NoDelayWithoutAttempt(t *testing.T) {
	if got := CalculateBackoff(time.Second, 0); got != 0 {
		t.Errorf("CalculateBackoff(1s, 0) = %v, want 0", got)
	}
	if got := CalculateBackoff(0, 3); got != 0 {
		t.Errorf("CalculateBackoff(0, 3) = %v, want 0", got)
	}
}

func TestCalculateBackoff_GrowsWithinJitter(t *testing.T) {
	base := 50 * time.Millisecond

	for attempt := 1; attempt <= 6; attempt++ {
		nominal := base * time.Duration(1<<uint(attempt))
		lo, hi := nominal*3/4, nominal*5/4

		got := CalculateBackoff(base, attempt)
		if got < lo || got > hi {
			t.Errorf("attempt %d: backoff %v outside [%v, %v]", attempt, got, lo, hi)
		}
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	limit := MaxBackoff * 5 / 4
	for _, attempt := range []int{10, 31, 1000} {
		if got := CalculateBackoff(time.Second, attempt); got > limit {
			t.Errorf("attempt %d: backoff %v exceeds %v", attempt, got, limit)
		}
	}
}

func TestWait_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Wait(ctx, time.Second, 4)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait() should not sleep after cancellation")
	}
}

func TestWait_Elapses(t *testing.T) {
	if err := Wait(context.Background(), time.Millisecond, 1); err != nil {
		t.Errorf("Wait() error = %v, want nil", err)
	}
}
