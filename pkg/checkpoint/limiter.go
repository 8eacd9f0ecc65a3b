package checkpoint

import (
	"fmt"

	"github.com/yourusername/checkpoint/internal/clock"
)

// Limiter owns the bucket store and decides, per key, whether to admit
// the current request. It is safe for concurrent use from many
// in-flight requests.
type Limiter struct {
	store *bucketStore
	cfg   Config
	clock clock.Clock
}

// New creates a Limiter for the given policy.
//
// Example:
//
//	limiter, err := checkpoint.New(checkpoint.Config{
//	    Capacity:      100,
//	    RatePerMinute: 600,
//	})
func New(cfg Config, opts ...Option) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Limiter{
		cfg:   cfg,
		clock: clock.RealClock{},
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	l.store = newBucketStore(cfg.Capacity, cfg.RefillPerSecond())
	return l, nil
}

// CheckAndConsume refills the bucket for key based on elapsed time and
// attempts to consume one token. It returns whether the request is
// admitted and, when it is not, the minimum whole seconds the caller
// should wait before retrying (always >= 1).
//
// The operation is total: any key is valid and unseen keys get a fresh
// full bucket.
func (l *Limiter) CheckAndConsume(key string) (bool, int) {
	now := l.clock.Now()
	b := l.store.getOrCreate(key, now)
	return b.checkAndConsume(now, l.store.capacity, l.store.refillRate)
}

// Capacity returns the configured burst size.
func (l *Limiter) Capacity() int64 {
	return l.cfg.Capacity
}

// Size returns the number of keys currently tracked. The store never
// evicts, so this only grows with the identity space.
func (l *Limiter) Size() int {
	return l.store.len()
}
