// Package cache provides a Redis-backed JSON response cache.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches JSON-serializable values in Redis with a per-entry TTL.
// A nil *Store (or a Store without a Redis client) is a valid no-op cache,
// so callers never need to branch on cache availability.
type Store struct {
	rdb       *redis.Client
	namespace string
}

// NewStore creates a Store. If namespace is empty, it defaults to "finnhub".
func NewStore(rdb *redis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = "finnhub"
	}
	return &Store{rdb: rdb, namespace: namespace}
}

// Key builds a namespaced cache key from the given parts.
func (s *Store) Key(parts ...string) string {
	if s == nil {
		return strings.Join(parts, ":")
	}
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, s.namespace)
	for _, p := range parts {
		escaped = append(escaped, safe(p))
	}
	return strings.Join(escaped, ":")
}

// GetJSON reads a cached value into dest and reports whether it was a hit.
// Corrupted entries are evicted and treated as a miss.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) bool {
	if s == nil || s.rdb == nil {
		return false
	}
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dest); err != nil {
		// Delete corrupted cache entry
		_ = s.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// SetJSON stores a value with the given TTL. Failures are best effort:
// a cache write must never fail the request that produced the value.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if s == nil || s.rdb == nil || ttl <= 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
