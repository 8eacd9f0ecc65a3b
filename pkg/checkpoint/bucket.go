package checkpoint

import (
	"math"
	"sync"
	"time"
)

// bucket is the per-key mutable state: a floating-point token count and
// the timestamp of the last refill computation. Capacity and refill
// rate live on the store; they are process-wide constants.
type bucket struct {
	mu         sync.Mutex // serializes refill+consume as one unit
	tokens     float64
	lastRefill time.Time
}

func newBucket(capacity float64, now time.Time) *bucket {
	return &bucket{
		tokens:     capacity, // start full
		lastRefill: now,
	}
}

// checkAndConsume refills the bucket for the elapsed time, then tries
// to take one token. On rejection it returns the minimum whole seconds
// to wait until a full token is available, never less than 1.
func (b *bucket) checkAndConsume(now time.Time, capacity, refillRate float64) (bool, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed < 0 {
		// Wall clock went backwards; never drain tokens for it.
		elapsed = 0
	}

	b.tokens = math.Min(capacity, b.tokens+elapsed*refillRate)
	// The refill window resets even when the request is rejected, so
	// sustained overload still accrues fractional tokens.
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}

	retryAfter := int(math.Ceil((1 - b.tokens) / refillRate))
	if retryAfter < 1 {
		retryAfter = 1
	}
	return false, retryAfter
}
