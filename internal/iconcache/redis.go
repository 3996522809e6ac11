package iconcache

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultKeyPrefix namespaces icon keys in a shared Redis database.
const DefaultKeyPrefix = "kml:icon:"

// Redis stores icons in Redis so several processes share fetches.
// Redis errors degrade to cache misses.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedis wraps client. A zero ttl keeps icons until Redis evicts them.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (r *Redis) key(k string) string {
	return r.prefix + k
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("Redis icon lookup failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (r *Redis) Set(ctx context.Context, key string, data []byte) {
	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		r.log.Warn("Redis icon store failed", zap.String("key", key), zap.Error(err))
	}
}

// OpenRedisFromEnv opens a client from REDIS_HOST, REDIS_PORT, REDIS_PASS
// and REDIS_DB. Host and port default to 127.0.0.1:6379; an unparsable
// REDIS_DB falls back to 0.
func OpenRedisFromEnv() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			db = n
		}
	}
	return redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
	})
}
