package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis records admission decisions as Redis hash counters. It carries
// observability data only; bucket state itself never leaves the
// process.
//
// Layout: a cumulative "<prefix>:total" hash, per-minute
// "<prefix>:minute:<yyyymmddhhmm>" hashes with a TTL, and, when key
// tracking is on, a "<prefix>:key:<key>" hash per rate-limit key.
type Redis struct {
	client *redis.Client

	prefix string
	// ttl applies to the per-minute and per-key hashes; totals are
	// cumulative and never expire.
	ttl       time.Duration
	trackKeys bool
}

type RedisOption func(*Redis)

func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = d }
}

// WithTrackKeys enables per-key counters. Mind the cardinality: every
// distinct (user, address) pair becomes a Redis key.
func WithTrackKeys(track bool) RedisOption {
	return func(r *Redis) { r.trackKeys = track }
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: "checkpoint:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record implements Recorder.
func (r *Redis) Record(ctx context.Context, ev Event) error {
	if r == nil || r.client == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "blocked"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, r.prefix+":total", field, 1)

	minuteKey := r.prefix + ":minute:" + at.UTC().Format("200601021504")
	pipe.HIncrBy(ctx, minuteKey, field, 1)
	if r.ttl > 0 {
		pipe.Expire(ctx, minuteKey, r.ttl)
	}

	if r.trackKeys && strings.TrimSpace(ev.Key) != "" {
		keyKey := r.prefix + ":key:" + ev.Key
		pipe.HIncrBy(ctx, keyKey, field, 1)
		if r.ttl > 0 {
			pipe.Expire(ctx, keyKey, r.ttl)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Ping checks the Redis connection, for startup validation.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
