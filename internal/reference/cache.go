package reference

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/onboard/internal/logging"
	"github.com/redis/go-redis/v9"
)

const CacheKey = "onboard:reference"

// Cache stores opaque values with a TTL. Get reports a miss with ok=false
// and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type RedisCache struct {
	client redisCmdable
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

// CachedLoader serves options from the cache and refills it from Next on a
// miss. Cache failures are logged and never fail a load.
type CachedLoader struct {
	next   Loader
	cache  Cache
	ttl    time.Duration
	logger logging.Logger
}

func NewCachedLoader(next Loader, cache Cache, ttl time.Duration, logger logging.Logger) *CachedLoader {
	return &CachedLoader{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (l *CachedLoader) Load(ctx context.Context) (*Options, error) {
	data, ok, err := l.cache.Get(ctx, CacheKey)
	switch {
	case err != nil:
		l.logger.Warn(ctx, "reference cache read failed", logging.Err(err))
	case ok:
		opts := &Options{}
		if err := json.Unmarshal(data, opts); err == nil {
			return opts, nil
		}
		l.logger.Warn(ctx, "reference cache entry is corrupt", "key", CacheKey)
	}

	opts, err := l.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(opts)
	if err != nil {
		l.logger.Warn(ctx, "reference cache encode failed", logging.Err(err))
		return opts, nil
	}
	if err := l.cache.Set(ctx, CacheKey, data, l.ttl); err != nil {
		l.logger.Warn(ctx, "reference cache write failed", logging.Err(err))
	}

	return opts, nil
}
