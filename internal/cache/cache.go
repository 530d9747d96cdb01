// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache backs the external suggesters' response caches with a
// shared Redis instance, so multiple obfuscation worker processes reuse each
// other's suggestions instead of each keeping its own in-memory cache. The
// n-gram-selection LRU in internal/operators is always in-process; this
// package is an opt-in upgrade for a multi-process deployment.
package cache

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Evaler abstracts the minimal surface needed from a Redis client, so tests
// can substitute a fake without a live broker.
type Evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// GoRedisEvaler wraps a real github.com/redis/go-redis/v9 client.
type GoRedisEvaler struct{ c *redis.Client }

// NewGoRedisEvaler dials addr and returns an Evaler backed by it.
func NewGoRedisEvaler(addr string) *GoRedisEvaler {
	return &GoRedisEvaler{c: redis.NewClient(&redis.Options{Addr: addr})}
}

func (g *GoRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return g.c.Eval(ctx, script, keys, args...).Result()
}

// SharedCache is a read-through cache with automatic TTL refresh on hit: a
// Get that finds the key extends its lifetime, so entries under sustained
// use never expire while genuinely cold entries still age out.
type SharedCache struct {
	client Evaler
	ttl    time.Duration
}

// New builds a SharedCache over client with the given per-entry TTL.
func New(client Evaler, ttl time.Duration) *SharedCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SharedCache{client: client, ttl: ttl}
}

// readThroughScript returns the value if present, refreshing its TTL; it
// returns false (via a nil bulk reply) on a miss without creating anything,
// mirroring an idempotent-apply script that never partially applies.
const readThroughScript = `
local v = redis.call('GET', KEYS[1])
if v then
  redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return v
`

// Get returns the cached value for key, refreshing its TTL on a hit.
func (c *SharedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := c.client.Eval(ctx, readThroughScript, []string{key}, int(c.ttl.Seconds()))
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}
	if res == nil {
		return nil, false, nil
	}
	switch v := res.(type) {
	case string:
		return []byte(v), true, nil
	case []byte:
		return v, true, nil
	default:
		return nil, false, fmt.Errorf("cache: get %s: unexpected reply type %T", key, res)
	}
}

// Set stores value under key with the cache's configured TTL.
func (c *SharedCache) Set(ctx context.Context, key string, value []byte) error {
	const setScript = `return redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[2])`
	if _, err := c.client.Eval(ctx, setScript, []string{key}, string(value), int(c.ttl.Seconds())); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}
