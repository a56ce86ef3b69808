// Copyright 2026 JMarkets Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmarkets/jmarkets/pkg/log"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates that the key was not found in cache
	ErrCacheMiss = redis.Nil
)

// QueryFunc defines a function that queries data from the source of truth.
type QueryFunc[T any] func(ctx context.Context) (T, error)

// KeyFunc defines a function that generates a cache key from parameters.
type KeyFunc func(params ...any) string

// CachedQuery provides a generic cache-aside pattern implementation with a
// declared TTL and an explicit Invalidate call. It queries Redis first and
// falls back to the query function on cache miss.
type CachedQuery[T any] struct {
	cache     ICache
	keyFunc   KeyFunc
	ttl       time.Duration
	logPrefix string
}

// CachedQueryOption configures CachedQuery behavior.
type CachedQueryOption[T any] func(*CachedQuery[T])

// WithTTL sets the cache expiration time.
func WithTTL[T any](ttl time.Duration) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.ttl = ttl
	}
}

// WithLogPrefix sets the log prefix for debugging.
func WithLogPrefix[T any](prefix string) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.logPrefix = prefix
	}
}

// NewCachedQuery creates a new CachedQuery instance.
func NewCachedQuery[T any](
	cache ICache,
	keyFunc KeyFunc,
	opts ...CachedQueryOption[T],
) *CachedQuery[T] {
	cq := &CachedQuery[T]{
		cache:     cache,
		keyFunc:   keyFunc,
		ttl:       1 * time.Hour, // default TTL
		logPrefix: "[CachedQuery]",
	}

	for _, opt := range opts {
		opt(cq)
	}

	return cq
}

// Get queries data with the cache-aside pattern. It checks the cache first;
// on miss it runs queryFunc and caches the result under the declared TTL.
func (cq *CachedQuery[T]) Get(ctx context.Context, queryFunc QueryFunc[T], params ...any) (T, error) {
	var zero T
	cacheKey := cq.keyFunc(params...)

	if cq.cache != nil {
		cacheData, err := cq.cache.Get(ctx, cacheKey).Result()
		if err == nil && cacheData != "" {
			var result T
			if err := sonic.UnmarshalString(cacheData, &result); err == nil {
				log.Debugw(cq.logPrefix+" cache hit", "key", cacheKey)
				return result, nil
			}
			log.Warnw(cq.logPrefix+" failed to unmarshal cached data", "key", cacheKey, "error", err)
		} else if !errors.Is(err, ErrCacheMiss) {
			log.Warnw(cq.logPrefix+" cache get error", "key", cacheKey, "error", err)
		}
	}

	log.Debugw(cq.logPrefix+" cache miss, querying source", "key", cacheKey)
	result, err := queryFunc(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to query source: %w", err)
	}

	if cq.cache != nil {
		cacheData, err := sonic.MarshalString(result)
		if err == nil {
			err = cq.cache.Set(ctx, cacheKey, cacheData, cq.ttl).Err()
			if err != nil {
				log.Warnw(cq.logPrefix+" failed to cache result", "key", cacheKey, "error", err)
			} else {
				log.Debugw(cq.logPrefix+" cached result", "key", cacheKey)
			}
		} else {
			log.Warnw(cq.logPrefix+" failed to marshal result for caching", "key", cacheKey, "error", err)
		}
	}

	return result, nil
}

// Invalidate removes the cached data for the given parameters.
func (cq *CachedQuery[T]) Invalidate(ctx context.Context, params ...any) error {
	if cq.cache == nil {
		return nil
	}
	cacheKey := cq.keyFunc(params...)
	err := cq.cache.Del(ctx, cacheKey).Err()
	if err != nil {
		log.Warnw(cq.logPrefix+" failed to invalidate cache", "key", cacheKey, "error", err)
		return err
	}
	log.Debugw(cq.logPrefix+" cache invalidated", "key", cacheKey)
	return nil
}
