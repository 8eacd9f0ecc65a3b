// Package checkpoint implements per-client admission control using the
// token bucket algorithm with lazy continuous refill.
//
// Each client is identified by a key derived from its user identifier
// and network address; each key owns a bucket holding up to Capacity
// tokens that refills at a fixed rate. An admitted request consumes one
// token; a rejected request is told how many whole seconds to wait.
//
// # Quick Start
//
//	limiter, err := checkpoint.New(checkpoint.Config{
//	    Capacity:      11,
//	    RatePerMinute: 43,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	key := checkpoint.DeriveKey(userID, clientAddr)
//	admitted, retryAfter := limiter.CheckAndConsume(key)
//	if !admitted {
//	    fmt.Printf("throttled, retry in %ds\n", retryAfter)
//	}
//
// # Semantics
//
// Refill is computed lazily on each check from the elapsed wall-clock
// time, clamped so a clock that steps backwards never drains tokens.
// The refill window resets on every check, including rejected ones, so
// a client hammering an empty bucket still accrues fractional tokens
// between attempts.
//
// # Concurrency
//
// CheckAndConsume may be called from any number of goroutines. The
// bucket map is guarded by a read-write mutex with double-checked
// creation; each bucket serializes its refill-and-consume sequence
// under its own mutex, so concurrent callers can never both take the
// last token.
//
// # Memory
//
// Bucket state lives in process memory for the process lifetime: there
// is no persistence, no cross-instance sharing, and no eviction of
// idle keys. Limiter.Size exposes the tracked-key count so operators
// can watch growth.
package checkpoint
