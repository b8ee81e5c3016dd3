// Package cache fronts the scoreboard aggregation query with a short-lived
// Redis cache. When no Redis address is configured every operation is a no-op
// and the scoreboard is computed from the database on every request.
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "scoreboard:"

type ScoreboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewScoreboardCache connects to Redis. An empty addr disables the cache.
func NewScoreboardCache(addr, password string, db int, ttl time.Duration) *ScoreboardCache {
	if addr == "" {
		return &ScoreboardCache{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Scoreboard cache disabled, Redis unreachable at %s: %v", addr, err)
		return &ScoreboardCache{}
	}

	log.Println("Scoreboard cache connected to Redis.")
	return &ScoreboardCache{rdb: rdb, ttl: ttl}
}

func (c *ScoreboardCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GlobalKey is the cache key for the cross-competition scoreboard.
func GlobalKey() string {
	return keyPrefix + "all"
}

// CompetitionKey is the cache key for a single competition's scoreboard.
func CompetitionKey(competitionID uint) string {
	return fmt.Sprintf("%scomp:%d", keyPrefix, competitionID)
}

// Get returns the cached payload for key, or ok=false on miss or error.
func (c *ScoreboardCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores a payload under key with the configured TTL. Cache errors are
// logged and swallowed; the scoreboard itself never depends on Redis.
func (c *ScoreboardCache) Set(ctx context.Context, key string, payload []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache scoreboard under %s: %v", key, err)
	}
}

// Invalidate drops every cached scoreboard. Called after each accepted flag
// so rankings never serve a stale accepted submission beyond the TTL.
func (c *ScoreboardCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	keys, err := c.rdb.Keys(ctx, keyPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Failed to invalidate scoreboard cache: %v", err)
	}
}
