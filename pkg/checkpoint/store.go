package checkpoint

import (
	"sync"
	"time"
)

// bucketStore maps keys to buckets. It is owned exclusively by the
// Limiter: callers never see bucket internals, only admission results.
// Entries are created lazily on first sight of a key and kept for the
// process lifetime.
type bucketStore struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	capacity   float64
	refillRate float64
}

func newBucketStore(capacity int64, refillRate float64) *bucketStore {
	return &bucketStore{
		buckets:    make(map[string]*bucket),
		capacity:   float64(capacity),
		refillRate: refillRate,
	}
}

// getOrCreate returns the bucket for key, creating it full if this is
// the first time the key is seen. Creation is double-checked so
// concurrent first-time callers share a single bucket.
func (s *bucketStore) getOrCreate(key string, now time.Time) *bucket {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok = s.buckets[key]; ok {
		return b
	}
	b = newBucket(s.capacity, now)
	s.buckets[key] = b
	return b
}

// len reports the number of tracked keys.
func (s *bucketStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}
