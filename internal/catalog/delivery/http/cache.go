package http

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/almast/trendmart/pkg/logger"
)

const cacheKeyPrefix = "catalog:cache:"

// ResponseCache caches public catalog GET responses in Redis. Admin
// mutations invalidate the whole catalog prefix. A nil cache (Redis
// not configured) disables both sides.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if client == nil {
		return nil
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// recorder buffers a response so a 200 body can be cached after the
// wrapped handler runs.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Wrap serves GET responses from cache when possible. Keys stay plain
// (path plus query) so invalidation can match on the prefix.
func (c *ResponseCache) Wrap(next http.HandlerFunc) http.HandlerFunc {
	if c == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKeyPrefix + r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}

		ctx := r.Context()
		if cached, err := c.client.Get(ctx, key).Bytes(); err == nil && len(cached) > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK}
		rec.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK {
			if err := c.client.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
				logger.Warn(ctx).Err(err).Str("key", key).Msg("Failed to cache response")
			}
		}
	}
}

// Invalidate drops every cached catalog response. Called after any
// admin mutation.
func (c *ResponseCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("key", iter.Val()).Msg("Failed to evict cache key")
		}
	}
	if err := iter.Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Cache invalidation scan failed")
	}
}
