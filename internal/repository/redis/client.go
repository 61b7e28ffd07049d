package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = redis.Nil

const pingTimeout = 3 * time.Second

// NewClient connects to addr and pings it. A nil client means caching is
// disabled: either no address was configured or the server did not answer.
func NewClient(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		log.Println("[REDIS] No REDIS_URL configured, move cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[REDIS] %s unreachable (%v), move cache disabled", addr, err)
		client.Close()
		return nil
	}

	log.Printf("[REDIS] Connected to %s", addr)
	return client
}

// RedisCache implements analysis.CacheRepository. Every key is stored under
// prefix so several services can share one database.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, expiration).Err()
}

// Get returns ErrCacheMiss when the key is absent or expired.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, r.prefix+key).Result()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.prefix + k
	}
	return r.client.Del(ctx, full...).Err()
}
