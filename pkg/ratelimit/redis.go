package ratelimit

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisOpTimeout bounds each limiter round-trip so a slow Redis never
// stalls the request path.
const redisOpTimeout = 2 * time.Second

// RedisLimiter implements the sliding window on a Redis sorted set per
// identity, scored by request time. Multiple service replicas pointed at
// the same Redis share one budget per client.
//
// The limiter fails open: when Redis is unreachable the request is
// allowed and a warning is logged. Rate limiting is an auxiliary
// control, not worth taking the service down over.
type RedisLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string

	now func() time.Time // injected for tests
}

// NewRedisLimiter creates a Redis-backed limiter. Non-positive limit or
// window fall back to the defaults.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = DefaultRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: "ratelimit:",
		now:       time.Now,
	}
}

// Allow reports whether identity may make a request now, recording the
// request if so.
func (l *RedisLimiter) Allow(identity string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	now := l.now()
	cutoff := now.Add(-l.window)
	key := l.keyPrefix + identity

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(cutoff.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Rate limiter Redis error (failing open): %v", err)
		return true
	}

	if countCmd.Val() >= int64(l.limit) {
		return false
	}

	record := l.client.TxPipeline()
	record.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	// TTL keeps idle identities from accumulating in Redis.
	record.Expire(ctx, key, l.window)
	if _, err := record.Exec(ctx); err != nil {
		log.Printf("Rate limiter Redis error (failing open): %v", err)
	}

	return true
}
