package checkpoint

import (
	"testing"
	"time"
)

func TestBucket_BurstThenDeplete(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBucket(5, now)

	// A fresh bucket admits exactly capacity immediate requests.
	for i := 0; i < 5; i++ {
		admitted, retry := b.checkAndConsume(now, 5, 2.0)
		if !admitted {
			t.Errorf("request %d should be admitted (burst)", i+1)
		}
		if retry != 0 {
			t.Errorf("request %d: retry = %d, want 0", i+1, retry)
		}
	}

	// The (capacity+1)-th is rejected.
	admitted, retry := b.checkAndConsume(now, 5, 2.0)
	if admitted {
		t.Error("request 6 should be rejected (bucket empty)")
	}
	if retry < 1 {
		t.Errorf("retry = %d, want >= 1 when rejected", retry)
	}
}

func TestBucket_RetryAfterRoundsUp(t *testing.T) {
	tests := []struct {
		name       string
		refillRate float64
		wantRetry  int
	}{
		// Empty bucket needs 1 full token.
		{name: "half token per second", refillRate: 0.5, wantRetry: 2},
		{name: "one token per second", refillRate: 1.0, wantRetry: 1},
		{name: "43 per minute", refillRate: 43.0 / 60, wantRetry: 2},
		{name: "fast refill floors at one second", refillRate: 100.0, wantRetry: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			b := newBucket(1, now)

			if admitted, _ := b.checkAndConsume(now, 1, tt.refillRate); !admitted {
				t.Fatal("first request should be admitted")
			}

			admitted, retry := b.checkAndConsume(now, 1, tt.refillRate)
			if admitted {
				t.Fatal("second request should be rejected")
			}
			if retry != tt.wantRetry {
				t.Errorf("retry = %d, want %d", retry, tt.wantRetry)
			}
		})
	}
}

func TestBucket_RefillCapsAtCapacity(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBucket(3, now)

	// Drain.
	for i := 0; i < 3; i++ {
		b.checkAndConsume(now, 3, 10.0)
	}

	// An hour at 10 tokens/sec would refill thousands; the bucket
	// still holds at most capacity.
	now = now.Add(time.Hour)
	admittedCount := 0
	for i := 0; i < 10; i++ {
		if admitted, _ := b.checkAndConsume(now, 3, 10.0); admitted {
			admittedCount++
		}
	}
	if admittedCount != 3 {
		t.Errorf("admitted %d requests after refill, want 3 (capped at capacity)", admittedCount)
	}
}

func TestBucket_ClockGoingBackwardsDoesNotDrain(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBucket(2, now)

	if admitted, _ := b.checkAndConsume(now, 2, 1.0); !admitted {
		t.Fatal("first request should be admitted")
	}
	if b.tokens != 1 {
		t.Fatalf("tokens = %v, want 1", b.tokens)
	}

	// A timestamp earlier than lastRefill must not change the balance.
	earlier := now.Add(-10 * time.Second)
	admitted, _ := b.checkAndConsume(earlier, 2, 1.0)
	if !admitted {
		t.Error("request should be admitted (one token left)")
	}
	if b.tokens != 0 {
		t.Errorf("tokens = %v, want 0 (negative elapsed clamped)", b.tokens)
	}

	admitted, retry := b.checkAndConsume(earlier, 2, 1.0)
	if admitted {
		t.Error("request should be rejected (bucket empty, no refill from skew)")
	}
	if retry < 1 {
		t.Errorf("retry = %d, want >= 1", retry)
	}
}

func TestBucket_RejectedRequestsStillAdvanceRefill(t *testing.T) {
	// Capacity 1, half a token per second. A client retrying every
	// second must not be starved: the rejected call at t+1 resets the
	// refill window but keeps the accrued half token.
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBucket(1, now)

	if admitted, _ := b.checkAndConsume(now, 1, 0.5); !admitted {
		t.Fatal("first request should be admitted")
	}

	now = now.Add(time.Second)
	if admitted, _ := b.checkAndConsume(now, 1, 0.5); admitted {
		t.Fatal("request at +1s should be rejected (only 0.5 tokens)")
	}

	now = now.Add(time.Second)
	if admitted, _ := b.checkAndConsume(now, 1, 0.5); !admitted {
		t.Error("request at +2s should be admitted (two half-token refills)")
	}
}

func TestBucket_TokensStayBounded(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := newBucket(4, now)

	steps := []time.Duration{0, time.Second, 0, 30 * time.Second, -5 * time.Second, 250 * time.Millisecond, 0, time.Hour}
	for i, step := range steps {
		now = now.Add(step)
		b.checkAndConsume(now, 4, 0.7)
		if b.tokens < 0 || b.tokens > 4 {
			t.Fatalf("step %d: tokens = %v, want within [0, 4]", i, b.tokens)
		}
	}
}
