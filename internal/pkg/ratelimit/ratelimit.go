// Package ratelimit builds the per-client limiter guarding registration.
package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const storePrefix = "techfest:register"

// NewMemory keeps counters in process memory. Counts are not shared
// between instances; expired entries are collected by the store itself.
func NewMemory(limit int, window time.Duration) *limiter.Limiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          storePrefix,
		CleanUpInterval: limiter.DefaultCleanUpInterval,
	})
	return limiter.New(store, rate(limit, window))
}

// NewRedis shares counters between instances. The store loads its scripts
// on creation, so an unreachable server fails here.
func NewRedis(client *redis.Client, limit int, window time.Duration) (*limiter.Limiter, error) {
	const op = "ratelimit.NewRedis"

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: storePrefix})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return limiter.New(store, rate(limit, window)), nil
}

func rate(limit int, window time.Duration) limiter.Rate {
	return limiter.Rate{Period: window, Limit: int64(limit)}
}
