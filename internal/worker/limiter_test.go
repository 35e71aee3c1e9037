package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_PerHostIsolation(t *testing.T) {
	l := NewLimiter(1, 1)
	ctx := context.Background()

	// Drain host A's bucket.
	if err := l.Wait(ctx, "https://a.example.com/page"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	// Host B should not be blocked by host A's consumption.
	start := time.Now()
	if err := l.Wait(ctx, "https://b.example.com/page"); err != nil {
		t.Fatalf("other host wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("other host waited %v, expected immediate token", elapsed)
	}
}

func TestLimiter_UnparseableURLNotLimited(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "not a url"); err != nil {
		t.Errorf("expected no limiting for unparseable URL, got %v", err)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 10)
	ctx := context.Background()

	start := time.Now()
	if err := l.WaitWithDelay(ctx, "https://a.example.com", 30*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("delay not applied: %v", elapsed)
	}
}

func TestLimiter_WaitWithDelayCancellation(t *testing.T) {
	l := NewLimiter(100, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.WaitWithDelay(ctx, "https://a.example.com", time.Minute); err == nil {
		t.Error("expected context error, got nil")
	}
}
