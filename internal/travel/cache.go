package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DefaultCacheTTL bounds how long a route answer is reused.
const DefaultCacheTTL = 24 * time.Hour

type routeCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache wraps a Provider and remembers successful answers in Redis.
// Cache failures are logged and fall through to the wrapped provider.
type RedisCache struct {
	next   Provider
	rdb    routeCache
	ttl    time.Duration
	logger logrus.FieldLogger
}

func NewRedisCache(next Provider, rdb routeCache, ttl time.Duration, logger logrus.FieldLogger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *RedisCache) Route(ctx context.Context, origin, destination string, mode Mode) (Route, error) {
	key := cacheKey(origin, destination, mode)
	log := c.logger.WithField("cache_key", key)

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var r Route
		if jerr := json.Unmarshal(data, &r); jerr == nil {
			return r, nil
		}
		log.Warn("discarding undecodable cached route")
	case errors.Is(err, redis.Nil):
	default:
		log.WithError(err).Warn("route cache read failed")
	}

	r, err := c.next.Route(ctx, origin, destination, mode)
	if err != nil {
		return Route{}, err
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return r, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.WithError(err).Warn("route cache write failed")
	}
	return r, nil
}

func cacheKey(origin, destination string, mode Mode) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return fmt.Sprintf("travel:%s:%s|%s", mode, norm(origin), norm(destination))
}
