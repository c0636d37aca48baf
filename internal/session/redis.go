package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockRetryInterval = 25 * time.Millisecond

// deletes the lock only while it is still held by the caller
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStorage is a Storage shared between processes through redis.
// Writes are durable as soon as they return, so Save is a no-op.
type RedisStorage struct {
	client    redis.UniversalClient
	namespace string
}

// NewRedisStorage creates a new redis backed Storage that prefixes all keys with the namespace
func NewRedisStorage(client redis.UniversalClient, namespace string) *RedisStorage {
	return &RedisStorage{client, namespace}
}

// OpenRedisStorage connects to the redis server at the provided URL
func OpenRedisStorage(ctx context.Context, url, namespace string) (*RedisStorage, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid session store url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to session store: %w", err)
	}
	return NewRedisStorage(client, namespace), nil
}

// IsRedisURL returns true if the value addresses a redis server
func IsRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// Get returns the stored value for key
func (s *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

// Set stores value under key
func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

// Remove deletes key
func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Replace removes key and stores value in one transaction
func (s *RedisStorage) Replace(ctx context.Context, key, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(key))
		pipe.Set(ctx, s.key(key), value, 0)
		return nil
	})
	return err
}

// Lock blocks until the named lock is acquired or ctx is done
func (s *RedisStorage) Lock(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	key := s.key("lock:" + name)
	owner := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		acquired, err := s.client.SetNX(ctx, key, owner, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire %s lock: %w", name, err)
		}
		if acquired {
			return func() {
				unlockScript.Run(context.WithoutCancel(ctx), s.client, []string{key}, owner)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Save is a no-op
func (s *RedisStorage) Save(ctx context.Context) error {
	return nil
}

// Close closes the underlying redis client
func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func (s *RedisStorage) key(key string) string {
	return s.namespace + ":" + key
}
