package apikey

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/goccy/go-json"
	"github.com/xy-planning-network/checkpoint"
)

const (
	cacheKeyPrefix  = "checkpoint:apikey:"
	defaultCacheTTL = 5 * time.Minute
)

// A Cacher is the part of a Redis client a CacheStore uses.
type Cacher interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// A CacheStore caches the Credentials another Store finds.
// Unknown keys are not cached.
type CacheStore struct {
	cache Cacher
	next  Store
	ttl   time.Duration
}

// NewCacheStore constructs a CacheStore in front of next.
// A non-positive ttl uses five minutes.
func NewCacheStore(cache Cacher, next Store, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &CacheStore{cache: cache, next: next, ttl: ttl}
}

func (s *CacheStore) Lookup(ctx context.Context, key string) (Credential, error) {
	ck := cacheKey(key)

	b, err := s.cache.Get(ctx, ck).Bytes()
	switch {
	case err == nil:
		var c Credential
		if err := json.Unmarshal(b, &c); err == nil {
			c.Key = key
			return c, nil
		}

	case !errors.Is(err, redis.Nil):
		return Credential{}, fmt.Errorf("%w: reading api key cache: %s", checkpoint.ErrUnexpected, err)
	}

	c, err := s.next.Lookup(ctx, key)
	if err != nil {
		return Credential{}, err
	}

	b, err = json.Marshal(c)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %s", checkpoint.ErrUnexpected, err)
	}

	if err := s.cache.Set(ctx, ck, b, s.ttl).Err(); err != nil {
		return Credential{}, fmt.Errorf("%w: writing api key cache: %s", checkpoint.ErrUnexpected, err)
	}

	return c, nil
}

// cacheKey keeps raw keys out of Redis.
func cacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
